package ctxutil

import "context"

type callKey struct{}

// Call identifies one API request across logs, spans and error bodies.
type Call struct {
	RequestID string
	TraceID   string
}

func WithCall(ctx context.Context, call *Call) context.Context {
	return context.WithValue(Default(ctx), callKey{}, call)
}

func CallFrom(ctx context.Context) *Call {
	if ctx == nil {
		return nil
	}
	if call, ok := ctx.Value(callKey{}).(*Call); ok {
		return call
	}
	return nil
}

// RequestID is empty outside an API request.
func RequestID(ctx context.Context) string {
	if call := CallFrom(ctx); call != nil {
		return call.RequestID
	}
	return ""
}
