package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/landcontract-backend/internal/http/response"
	"github.com/yungbote/landcontract-backend/internal/platform/ctxutil"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

// RequestLogger writes one line per request. Client errors log at warn,
// server errors and persistence failures at error.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if call := ctxutil.CallFrom(ctx); call != nil {
			fields = append(fields, "request_id", call.RequestID)
			if call.TraceID != "" {
				fields = append(fields, "trace_id", call.TraceID)
			}
		}
		if rd := ctxutil.GetRequestData(ctx); rd != nil {
			fields = append(fields, "username", rd.Username, "role", rd.Role)
		}
		code := response.ErrorCode(c)
		if code != "" {
			fields = append(fields, "code", code)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
