package aggregates

import "time"

// idSequence hands out numeric ids of the form max(now_ms, last+1): time
// ordered, strictly increasing, and compatible with millisecond ids in
// older documents. Callers hold the ledger write lock.
type idSequence struct {
	last  int64
	clock func() time.Time
}

func newIDSequence(seed int64, clock func() time.Time) *idSequence {
	if clock == nil {
		clock = time.Now
	}
	return &idSequence{last: seed, clock: clock}
}

func (s *idSequence) next() int64 {
	id := s.clock().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

func (s *idSequence) reseed(seed int64) {
	if seed > s.last {
		s.last = seed
	}
}
