package aggregates

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/observability"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

type BaseDeps struct {
	Log    *logger.Logger
	Writer SnapshotWriter
	Hooks  Hooks
	Clock  func() time.Time
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return d
}

// executeWrite runs fn as one traced, measured aggregate write and maps
// whatever it returns into an aggregate error.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	ctx, span := observability.StartSpan(ctx, op, attribute.String("aggregate.op", op))
	mapped := MapError(op, fn(ctx))
	observability.EndSpan(span, mapped)

	status := aggregateErrorStatus(mapped)
	switch domainagg.CodeOf(mapped) {
	case domainagg.CodeConflict:
		deps.Hooks.IncConflict(op)
	case domainagg.CodePersistence:
		deps.Hooks.IncPersistFailure(op)
		deps.Log.Error("snapshot write failed; previous snapshot kept", "op", op, "error", mapped)
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		return "failure"
	}
	return code
}
