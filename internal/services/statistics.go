package services

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

// StatsQuery narrows statistics. A non-empty Period overrides From and To.
type StatsQuery struct {
	contracts.Filter
	Period string
}

type StatisticsService interface {
	Statistics(ctx context.Context, q StatsQuery) (contracts.Stats, error)
}

type statisticsService struct {
	log    *logger.Logger
	ledger contracts.Ledger
	loc    *time.Location
	now    func() time.Time
}

func NewStatisticsService(log *logger.Logger, ledger contracts.Ledger, loc *time.Location) StatisticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &statisticsService{
		log:    log.With("service", "StatisticsService"),
		ledger: ledger,
		loc:    loc,
		now:    time.Now,
	}
}

func (ss *statisticsService) Statistics(ctx context.Context, q StatsQuery) (contracts.Stats, error) {
	const op = "statistics.get"
	if _, err := requireAdmin(ctx, op); err != nil {
		return contracts.Stats{}, err
	}
	f := q.Filter
	if f.Status != "" && !f.Status.Valid() {
		return contracts.Stats{}, validationError(op, "unknown status "+string(f.Status))
	}
	if p := strings.TrimSpace(q.Period); p != "" {
		from, to, err := contracts.PeriodRange(p, ss.now(), ss.loc)
		if err != nil {
			return contracts.Stats{}, err
		}
		f.From, f.To = from, to
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return contracts.Stats{}, validationError(op, "end date is before start date")
	}
	f.Location = ss.loc
	return ss.ledger.Stats(f), nil
}
