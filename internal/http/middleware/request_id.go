package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/landcontract-backend/internal/platform/ctxutil"
)

const HeaderRequestID = "X-Request-Id"

const maxRequestIDLen = 128

// RequestID tags the request with an id, reusing a well-formed inbound
// one, and mirrors it onto the active span when tracing is on.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		call := &ctxutil.Call{RequestID: inboundRequestID(c.GetHeader(HeaderRequestID))}
		if call.RequestID == "" {
			call.RequestID = uuid.NewString()
		}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			call.TraceID = sc.TraceID().String()
			trace.SpanFromContext(ctx).SetAttributes(attribute.String("request.id", call.RequestID))
		}
		c.Request = c.Request.WithContext(ctxutil.WithCall(ctx, call))
		c.Header(HeaderRequestID, call.RequestID)
		c.Next()
	}
}

// inboundRequestID keeps a caller-supplied id only if it is a short run of
// printable ASCII.
func inboundRequestID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxRequestIDLen {
		return ""
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < 0x21 || raw[i] > 0x7e {
			return ""
		}
	}
	return raw
}
