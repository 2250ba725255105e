package observability

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests      *CounterVec
	apiLatency       *HistogramVec
	apiInflight      *GaugeVec
	apiErrors        *CounterVec
	ledgerOps        *HistogramVec
	ledgerConflicts  *CounterVec
	persistFailures  *CounterVec
	transitions      *CounterVec
	numberOverflow   *CounterVec
	contractsByState *GaugeVec
	authAttempts     *CounterVec
	dbStats          *GaugeVec
	redisUp          *GaugeVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide registry. It returns nil when disabled;
// every method on a nil *Metrics is a no-op.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics registry initialized")
		}
	})
	return instance
}

func Current() *Metrics {
	return instance
}

// NewMetrics returns an unshared registry.
func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("lc_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"lc_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		),
		apiInflight:      NewGaugeVec("lc_api_inflight_requests", "In-flight API requests.", nil),
		apiErrors:        NewCounterVec("lc_api_errors_total", "API error responses by route/code.", []string{"route", "code"}),
		ledgerOps:        NewHistogramVec("lc_ledger_operation_duration_seconds", "Contract ledger write duration by operation/status.", []string{"op", "status"}, nil),
		ledgerConflicts:  NewCounterVec("lc_ledger_conflicts_total", "Contract ledger writes rejected as conflicts.", []string{"op"}),
		persistFailures:  NewCounterVec("lc_ledger_persist_failures_total", "Snapshot writes that failed and were rolled back.", []string{"op"}),
		transitions:      NewCounterVec("lc_contract_transitions_total", "Contract status transitions.", []string{"from", "to", "trigger"}),
		numberOverflow:   NewCounterVec("lc_contract_sequence_overflow_total", "Contract numbers whose sequence exceeded two digits.", []string{"ward"}),
		contractsByState: NewGaugeVec("lc_contracts", "Contracts in the current snapshot by status.", []string{"status"}),
		authAttempts:     NewCounterVec("lc_auth_attempts_total", "Login attempts by result.", []string{"result"}),
		dbStats:          NewGaugeVec("lc_db_stats", "SQL gateway connection pool stats.", []string{"stat"}),
		redisUp:          NewGaugeVec("lc_redis_up", "1 when the redis gateway answered the last ping.", nil),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_, _ = w.Write(buf.Bytes())
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiErrors,
		m.ledgerOps, m.ledgerConflicts, m.persistFailures,
		m.transitions, m.numberOverflow, m.contractsByState,
		m.authAttempts, m.dbStats, m.redisUp,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

// IncAPIError counts an error response under its envelope code.
func (m *Metrics) IncAPIError(route, code string) {
	if m == nil || code == "" {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiErrors.Inc(route, code)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.ledgerOps.Observe(dur.Seconds(), strings.TrimSpace(op), strings.TrimSpace(status))
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.ledgerConflicts.Inc(strings.TrimSpace(op))
}

func (m *Metrics) IncPersistFailure(op string) {
	if m == nil {
		return
	}
	m.persistFailures.Inc(strings.TrimSpace(op))
}

func (m *Metrics) IncTransition(from, to, trigger string) {
	if m == nil {
		return
	}
	m.transitions.Inc(from, to, trigger)
}

func (m *Metrics) IncSequenceOverflow(wardCode string) {
	if m == nil {
		return
	}
	m.numberOverflow.Inc(wardCode)
}

// SetContractCounts replaces the per-status gauge from a fresh snapshot.
func (m *Metrics) SetContractCounts(byStatus map[string]int) {
	if m == nil {
		return
	}
	for status, n := range byStatus {
		m.contractsByState.Set(float64(n), status)
	}
}

func (m *Metrics) IncAuthAttempt(result string) {
	if m == nil {
		return
	}
	m.authAttempts.Inc(result)
}
