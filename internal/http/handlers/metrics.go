package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/landcontract-backend/internal/observability"
)

type MetricsHandler struct {
	metrics *observability.Metrics
}

func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// GET /metrics
func (h *MetricsHandler) Serve(c *gin.Context) {
	h.metrics.WriteHTTP(c.Writer, c.Request)
}
