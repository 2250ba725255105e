package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/landcontract-backend/internal/http/response"
	"github.com/yungbote/landcontract-backend/internal/services"
)

type WardHandler struct {
	contracts services.ContractService
}

func NewWardHandler(contracts services.ContractService) *WardHandler {
	return &WardHandler{contracts: contracts}
}

// GET /api/wards
func (h *WardHandler) List(c *gin.Context) {
	wards, err := h.contracts.ListWards(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"wards": wards})
}

// GET /api/wards/:id
func (h *WardHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	w, err := h.contracts.GetWard(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ward": w})
}
