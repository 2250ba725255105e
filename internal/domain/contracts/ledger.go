package contracts

import (
	"context"
	"time"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/domain/user"
)

var LedgerAggregateContract = domainagg.Contract{
	Name:            "Contracts.LedgerAggregate",
	WriteOwnership:  domainagg.WriteOwnedByAggregate,
	PersistenceMode: domainagg.PersistWholeSnapshot,
	OnPersistFail:   domainagg.FailureRollsBack,
	Notes:           "Owns contract numbering, lifecycle transitions and liquidation history for the whole AppData document.",
}

// Ledger owns the AppData aggregate.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeInvalidTransition,
// CodeInvariant, CodePersistence, CodeRestoreFormat.
type Ledger interface {
	domainagg.Aggregate

	AddContract(ctx context.Context, in AddContractInput) (Contract, error)
	// UpdateContract reports found=false, with no write, when the id is unknown.
	UpdateContract(ctx context.Context, in UpdateContractInput) (Contract, bool, error)
	UpdateContractStatus(ctx context.Context, in UpdateStatusInput) (Contract, error)
	AddLiquidation(ctx context.Context, in AddLiquidationInput) (AddLiquidationResult, error)

	GetWardByID(id int64) (Ward, bool)
	GetContractByID(id int64) (Contract, bool)
	GetLiquidationsByContractID(contractID int64) []Liquidation
	FindUser(username string) (user.User, bool)
	ListWards() []Ward
	ListContracts(f Filter) []Contract
	Stats(f Filter) Stats
	Snapshot() AppData

	Backup(ctx context.Context) (BackupResult, error)
	Restore(ctx context.Context, doc []byte) (AppData, error)
}

type AddContractInput struct {
	Details
	// Now overrides the clock; zero means time.Now().
	Now time.Time
}

type UpdateContractInput struct {
	ID int64
	Details
}

type UpdateStatusInput struct {
	ID     int64
	Status Status
	Reason string
}

type AddLiquidationInput struct {
	ContractID int64
	Kind       LiquidationKind
	Now        time.Time
}

type AddLiquidationResult struct {
	Liquidation Liquidation
	Contract    Contract
}

type BackupResult struct {
	FileName string
	Document []byte
}
