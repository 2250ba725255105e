package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
	"github.com/yungbote/landcontract-backend/internal/http/response"
	"github.com/yungbote/landcontract-backend/internal/services"
)

// contractRequest is the contract form body. Sheet and plot numbers are
// pointers so an absent field is told apart from 0.
type contractRequest struct {
	CustomerName   string `json:"customerName"`
	MapSheetNumber *int   `json:"mapSheetNumber"`
	PlotNumber     *int   `json:"plotNumber"`
	WardID         int64  `json:"wardId"`
	Notes          string `json:"notes"`
}

func (r contractRequest) details(op string) (contracts.Details, error) {
	d := contracts.Details{CustomerName: r.CustomerName, WardID: r.WardID, Notes: r.Notes}
	missing := []string{}
	if r.MapSheetNumber == nil {
		missing = append(missing, "mapSheetNumber")
	} else {
		d.MapSheetNumber = *r.MapSheetNumber
	}
	if r.PlotNumber == nil {
		missing = append(missing, "plotNumber")
	} else {
		d.PlotNumber = *r.PlotNumber
	}
	if len(missing) > 0 {
		return d, domainagg.Invalid(op, "missing required fields", missing...)
	}
	return d, nil
}

func bindContract(c *gin.Context, op string) (contracts.Details, error) {
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return contracts.Details{}, badRequest("invalid request body: " + err.Error())
	}
	return req.details(op)
}

type ContractHandler struct {
	contracts services.ContractService
	loc       *time.Location
}

func NewContractHandler(contracts services.ContractService, loc *time.Location) *ContractHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ContractHandler{contracts: contracts, loc: loc}
}

// GET /api/contracts?q=&status=&wardId=&from=&to=
func (h *ContractHandler) List(c *gin.Context) {
	f, err := queryFilter(c, h.loc)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	list, err := h.contracts.List(c.Request.Context(), f)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contracts": list, "count": len(list)})
}

// POST /api/contracts
// body: { "customerName", "mapSheetNumber", "plotNumber", "wardId", "notes" }
func (h *ContractHandler) Create(c *gin.Context) {
	req, err := bindContract(c, "contracts.create")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	created, err := h.contracts.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"contract": created})
}

// GET /api/contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	detail, err := h.contracts.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// PUT /api/contracts/:id
func (h *ContractHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	req, err := bindContract(c, "contracts.update")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	updated, err := h.contracts.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contract": updated})
}

// POST /api/contracts/:id/cancel
// body: { "reason": "..." }
func (h *ContractHandler) Cancel(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, badRequest("invalid request body: "+err.Error()))
		return
	}
	cancelled, err := h.contracts.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contract": cancelled})
}

// POST /api/contracts/:id/liquidations
// body: { "liquidationType": "complete" | "cancel" | stored value }
func (h *ContractHandler) Liquidate(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var req struct {
		Type string `json:"liquidationType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, badRequest("invalid request body: "+err.Error()))
		return
	}
	kind, ok := contracts.ParseLiquidationKind(req.Type)
	if !ok {
		response.RespondErr(c, badRequest("unknown liquidationType "+req.Type))
		return
	}
	res, err := h.contracts.Liquidate(c.Request.Context(), id, kind)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"liquidation": res.Liquidation, "contract": res.Contract})
}

// GET /api/contracts/:id/liquidations
func (h *ContractHandler) Liquidations(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	ls, err := h.contracts.Liquidations(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"liquidations": ls})
}
