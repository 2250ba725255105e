package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/landcontract-backend/internal/http/response"
	"github.com/yungbote/landcontract-backend/internal/observability"
)

// Metrics records request latency by matched route and counts error
// envelopes by code.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		m.ApiInflightInc()
		start := time.Now()
		defer func() {
			m.ApiInflightDec()
			route := c.FullPath()
			m.ObserveAPI(c.Request.Method, route, c.Writer.Status(), time.Since(start))
			m.IncAPIError(route, response.ErrorCode(c))
		}()
		c.Next()
	}
}
