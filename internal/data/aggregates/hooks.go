package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
	"github.com/yungbote/landcontract-backend/internal/observability"
)

// Hooks captures aggregate-level observability events.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncPersistFailure(name string)
	IncTransition(from, to contracts.Status, trigger contracts.Trigger)
	IncSequenceOverflow(wardCode string)
	SnapshotPublished(data contracts.AppData)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration)                     {}
func (noopHooks) IncConflict(string)                                                 {}
func (noopHooks) IncPersistFailure(string)                                           {}
func (noopHooks) IncTransition(contracts.Status, contracts.Status, contracts.Trigger) {}
func (noopHooks) IncSequenceOverflow(string)                                         {}
func (noopHooks) SnapshotPublished(contracts.AppData)                                {}

type observabilityHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks creates aggregate hooks backed by observability metrics.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &observabilityHooks{metrics: metrics}
}

func (h *observabilityHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h *observabilityHooks) IncConflict(name string) {
	h.metrics.IncAggregateConflict(strings.TrimSpace(name))
}

func (h *observabilityHooks) IncPersistFailure(name string) {
	h.metrics.IncPersistFailure(strings.TrimSpace(name))
}

func (h *observabilityHooks) IncTransition(from, to contracts.Status, trigger contracts.Trigger) {
	h.metrics.IncTransition(string(from), string(to), string(trigger))
}

func (h *observabilityHooks) IncSequenceOverflow(wardCode string) {
	h.metrics.IncSequenceOverflow(wardCode)
}

func (h *observabilityHooks) SnapshotPublished(data contracts.AppData) {
	counts := map[string]int{}
	for _, s := range contracts.AllStatuses {
		counts[string(s)] = 0
	}
	for _, c := range data.Contracts {
		counts[string(c.Status)]++
	}
	h.metrics.SetContractCounts(counts)
}
