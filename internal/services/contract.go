package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

// ContractDetail is a contract with its ward and liquidation history.
type ContractDetail struct {
	Contract     contracts.Contract      `json:"contract"`
	Ward         *contracts.Ward         `json:"ward,omitempty"`
	Liquidations []contracts.Liquidation `json:"liquidations"`
}

type ContractService interface {
	ListWards(ctx context.Context) ([]contracts.Ward, error)
	GetWard(ctx context.Context, id int64) (contracts.Ward, error)

	List(ctx context.Context, f contracts.Filter) ([]contracts.Contract, error)
	Get(ctx context.Context, id int64) (*ContractDetail, error)
	Create(ctx context.Context, d contracts.Details) (contracts.Contract, error)
	Update(ctx context.Context, id int64, d contracts.Details) (contracts.Contract, error)
	Cancel(ctx context.Context, id int64, reason string) (contracts.Contract, error)
	Liquidate(ctx context.Context, id int64, kind contracts.LiquidationKind) (contracts.AddLiquidationResult, error)
	Liquidations(ctx context.Context, id int64) ([]contracts.Liquidation, error)
}

type contractService struct {
	log    *logger.Logger
	ledger contracts.Ledger
	now    func() time.Time
}

func NewContractService(log *logger.Logger, ledger contracts.Ledger) ContractService {
	return &contractService{
		log:    log.With("service", "ContractService"),
		ledger: ledger,
		now:    time.Now,
	}
}

func (cs *contractService) ListWards(ctx context.Context) ([]contracts.Ward, error) {
	if _, err := requireUser(ctx, "wards.list"); err != nil {
		return nil, err
	}
	return cs.ledger.ListWards(), nil
}

func (cs *contractService) GetWard(ctx context.Context, id int64) (contracts.Ward, error) {
	if _, err := requireUser(ctx, "wards.get"); err != nil {
		return contracts.Ward{}, err
	}
	w, ok := cs.ledger.GetWardByID(id)
	if !ok {
		return contracts.Ward{}, notFound("wards.get", fmt.Sprintf("ward %d not found", id))
	}
	return w, nil
}

func (cs *contractService) List(ctx context.Context, f contracts.Filter) ([]contracts.Contract, error) {
	if _, err := requireUser(ctx, "contracts.list"); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, validationError("contracts.list", fmt.Sprintf("unknown status %q", f.Status))
	}
	return cs.ledger.ListContracts(f), nil
}

func (cs *contractService) Get(ctx context.Context, id int64) (*ContractDetail, error) {
	if _, err := requireUser(ctx, "contracts.get"); err != nil {
		return nil, err
	}
	c, ok := cs.ledger.GetContractByID(id)
	if !ok {
		return nil, notFound("contracts.get", fmt.Sprintf("contract %d not found", id))
	}
	out := &ContractDetail{
		Contract:     c,
		Liquidations: cs.ledger.GetLiquidationsByContractID(id),
	}
	if w, ok := cs.ledger.GetWardByID(c.WardID); ok {
		out.Ward = &w
	}
	return out, nil
}

// validateDetails enforces the contract form rules. Sheet and plot
// numbers may be 0; adapters reject them when absent.
func validateDetails(op string, d contracts.Details) (contracts.Details, error) {
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.Notes = strings.TrimSpace(d.Notes)
	missing := []string{}
	if d.CustomerName == "" {
		missing = append(missing, "customerName")
	}
	if d.MapSheetNumber < 0 {
		missing = append(missing, "mapSheetNumber")
	}
	if d.PlotNumber < 0 {
		missing = append(missing, "plotNumber")
	}
	if d.WardID <= 0 {
		missing = append(missing, "wardId")
	}
	if len(missing) > 0 {
		return d, domainagg.Invalid(op, "missing or invalid fields: "+strings.Join(missing, ", "), missing...)
	}
	return d, nil
}

func (cs *contractService) Create(ctx context.Context, d contracts.Details) (contracts.Contract, error) {
	const op = "contracts.create"
	rd, err := requireUser(ctx, op)
	if err != nil {
		return contracts.Contract{}, err
	}
	d, err = validateDetails(op, d)
	if err != nil {
		return contracts.Contract{}, err
	}
	c, err := cs.ledger.AddContract(ctx, contracts.AddContractInput{Details: d, Now: cs.now()})
	if err != nil {
		return contracts.Contract{}, err
	}
	cs.log.Info("contract created", "contract_id", c.ID, "number", c.ContractNumber, "by", rd.Username)
	return c, nil
}

func (cs *contractService) Update(ctx context.Context, id int64, d contracts.Details) (contracts.Contract, error) {
	const op = "contracts.update"
	if _, err := requireAdmin(ctx, op); err != nil {
		return contracts.Contract{}, err
	}
	d, err := validateDetails(op, d)
	if err != nil {
		return contracts.Contract{}, err
	}
	c, found, err := cs.ledger.UpdateContract(ctx, contracts.UpdateContractInput{ID: id, Details: d})
	if err != nil {
		return contracts.Contract{}, err
	}
	if !found {
		return contracts.Contract{}, notFound(op, fmt.Sprintf("contract %d not found", id))
	}
	return c, nil
}

func (cs *contractService) Cancel(ctx context.Context, id int64, reason string) (contracts.Contract, error) {
	const op = "contracts.cancel"
	rd, err := requireAdmin(ctx, op)
	if err != nil {
		return contracts.Contract{}, err
	}
	if err := contracts.ValidateCancellationReason(reason); err != nil {
		return contracts.Contract{}, err
	}
	c, err := cs.ledger.UpdateContractStatus(ctx, contracts.UpdateStatusInput{
		ID:     id,
		Status: contracts.StatusCancelled,
		Reason: reason,
	})
	if err != nil {
		return contracts.Contract{}, err
	}
	cs.log.Info("contract cancelled", "contract_id", id, "by", rd.Username)
	return c, nil
}

func (cs *contractService) Liquidate(ctx context.Context, id int64, kind contracts.LiquidationKind) (contracts.AddLiquidationResult, error) {
	const op = "contracts.liquidate"
	rd, err := requireAdmin(ctx, op)
	if err != nil {
		return contracts.AddLiquidationResult{}, err
	}
	if !kind.Valid() {
		return contracts.AddLiquidationResult{}, validationError(op, fmt.Sprintf("unknown liquidation type %q", kind))
	}
	res, err := cs.ledger.AddLiquidation(ctx, contracts.AddLiquidationInput{ContractID: id, Kind: kind, Now: cs.now()})
	if err != nil {
		return contracts.AddLiquidationResult{}, err
	}
	cs.log.Info("contract liquidated", "contract_id", id, "liquidation", res.Liquidation.Number, "by", rd.Username)
	return res, nil
}

func (cs *contractService) Liquidations(ctx context.Context, id int64) ([]contracts.Liquidation, error) {
	if _, err := requireUser(ctx, "contracts.liquidations"); err != nil {
		return nil, err
	}
	if _, ok := cs.ledger.GetContractByID(id); !ok {
		return nil, notFound("contracts.liquidations", fmt.Sprintf("contract %d not found", id))
	}
	return cs.ledger.GetLiquidationsByContractID(id), nil
}
