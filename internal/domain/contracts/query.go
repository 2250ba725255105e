package contracts

import (
	"fmt"
	"sort"
	"strings"
	"time"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
)

// UnknownWardName labels contracts whose ward no longer resolves.
const UnknownWardName = "Không xác định"

// Filter selects contracts for dashboards and statistics. Zero fields
// match everything. From and To are calendar days in Location; both are
// inclusive.
type Filter struct {
	Query    string
	Status   Status
	WardID   int64
	From     time.Time
	To       time.Time
	Location *time.Location
}

func (f Filter) loc() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func (f Filter) Match(c Contract) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(c.CustomerName), q) &&
			!strings.Contains(strings.ToLower(c.ContractNumber), q) {
			return false
		}
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.WardID != 0 && c.WardID != f.WardID {
		return false
	}
	loc := f.loc()
	if !f.From.IsZero() && c.CreatedAt.Before(startOfDay(f.From, loc)) {
		return false
	}
	if !f.To.IsZero() && !c.CreatedAt.Before(startOfDay(f.To, loc).AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// FilterContracts returns the matches, newest first.
func FilterContracts(cs []Contract, f Filter) []Contract {
	out := []Contract{}
	for _, c := range cs {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

type StatusCounts struct {
	Total      int `json:"total"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

func (s *StatusCounts) add(status Status) {
	s.Total++
	switch status {
	case StatusProcessing:
		s.Processing++
	case StatusCompleted:
		s.Completed++
	case StatusCancelled:
		s.Cancelled++
	}
}

type WardStats struct {
	WardName string `json:"wardName"`
	StatusCounts
}

type Stats struct {
	StatusCounts
	ByWard    []WardStats `json:"byWard"`
	Contracts []Contract  `json:"contracts"`
}

// ComputeStats aggregates the contracts matching f, overall and per ward
// name. Wards are sorted by name.
func ComputeStats(cs []Contract, wards []Ward, f Filter) Stats {
	matched := FilterContracts(cs, f)
	stats := Stats{Contracts: matched, ByWard: []WardStats{}}
	byName := map[string]*WardStats{}
	for _, c := range matched {
		stats.add(c.Status)
		name := UnknownWardName
		if w, ok := FindWard(wards, c.WardID); ok {
			name = w.Name
		}
		ws, ok := byName[name]
		if !ok {
			ws = &WardStats{WardName: name}
			byName[name] = ws
		}
		ws.add(c.Status)
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats.ByWard = append(stats.ByWard, *byName[name])
	}
	return stats
}

// PeriodRange returns the [from, to] day range for a preset period ending today.
// Weeks start on Sunday.
func PeriodRange(period string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	today := startOfDay(now, loc)
	var from time.Time
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "week":
		from = today.AddDate(0, 0, -int(today.Weekday()))
	case "month":
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
	case "quarter":
		q := (int(today.Month()) - 1) / 3
		from = time.Date(today.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, loc)
	case "year":
		from = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Time{}, time.Time{}, domainagg.NewError(domainagg.CodeValidation, "Query.PeriodRange", fmt.Sprintf("unknown period %q", period), nil)
	}
	return from, today, nil
}
