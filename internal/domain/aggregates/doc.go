// Package aggregates defines domain-facing aggregate contracts and the
// coded error type shared by every aggregate and adapter.
//
// Contracts avoid persistence and transport details; they describe the
// write boundary where invariants are enforced atomically.
package aggregates
