package aggregates

import (
	"testing"
	"time"
)

func TestIDSequenceMonotonic(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	s := newIDSequence(0, func() time.Time { return fixed })
	a, b, c := s.next(), s.next(), s.next()
	if a != 1_700_000_000_000 || b != a+1 || c != b+1 {
		t.Fatalf("ids: %d %d %d", a, b, c)
	}
}

func TestIDSequenceSeededAboveClock(t *testing.T) {
	s := newIDSequence(5_000_000_000_000, func() time.Time { return time.UnixMilli(1) })
	if got := s.next(); got != 5_000_000_000_001 {
		t.Fatalf("seeded id: got=%d", got)
	}
	s.reseed(10)
	if got := s.next(); got != 5_000_000_000_002 {
		t.Fatalf("reseed must never lower the sequence: got=%d", got)
	}
}
