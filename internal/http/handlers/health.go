package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
)

// LedgerReader is the read side the health check summarizes.
type LedgerReader interface {
	ListWards() []contracts.Ward
	Stats(f contracts.Filter) contracts.Stats
}

type HealthHandler struct {
	backend string
	ledger  LedgerReader
}

func NewHealthHandler(backend string, ledger LedgerReader) *HealthHandler {
	return &HealthHandler{backend: backend, ledger: ledger}
}

type healthBody struct {
	Status    string                 `json:"status"`
	Store     string                 `json:"store,omitempty"`
	Wards     int                    `json:"wards"`
	Contracts contracts.StatusCounts `json:"contracts"`
}

// HealthCheck answers from the published snapshot; it never touches the
// gateway.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	body := healthBody{Status: "ok", Store: h.backend}
	if h.ledger != nil {
		body.Wards = len(h.ledger.ListWards())
		body.Contracts = h.ledger.Stats(contracts.Filter{}).StatusCounts
	}
	c.JSON(http.StatusOK, body)
}
