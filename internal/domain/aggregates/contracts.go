package aggregates

// WriteOwnership defines who owns the write boundary of an aggregate.
type WriteOwnership string

const (
	// WriteOwnedByAggregate means write methods serialize, persist and publish internally.
	WriteOwnedByAggregate WriteOwnership = "aggregate_owned"
)

// PersistenceMode defines how an aggregate reaches durable storage.
type PersistenceMode string

const (
	// PersistWholeSnapshot writes the entire aggregate document after every mutation.
	PersistWholeSnapshot PersistenceMode = "whole_snapshot"
)

// FailurePolicy defines what a failed persistence write does to in-memory state.
type FailurePolicy string

const (
	// FailureRollsBack keeps the previous snapshot published when the write fails.
	FailureRollsBack FailurePolicy = "rollback"
)

// Contract describes aggregate-level policy expectations.
type Contract struct {
	Name            string
	WriteOwnership  WriteOwnership
	PersistenceMode PersistenceMode
	OnPersistFail   FailurePolicy
	Notes           string
}

// Aggregate is the common marker for all aggregate contracts.
// Implementations should return a stable contract description.
type Aggregate interface {
	Contract() Contract
}

// RequiresAggregateOwnedWrites returns true when writes are aggregate-owned.
func (c Contract) RequiresAggregateOwnedWrites() bool {
	return c.WriteOwnership == WriteOwnedByAggregate
}

// RollsBackOnPersistFailure reports whether a failed write leaves the old snapshot in place.
func (c Contract) RollsBackOnPersistFailure() bool {
	return c.OnPersistFail == FailureRollsBack
}
