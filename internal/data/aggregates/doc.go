// Package aggregates contains the persistent implementation of the contract
// ledger.
//
// Every write clones the current snapshot, applies the mutation, persists the
// whole document through a kv.Store and only then publishes it to readers.
package aggregates
