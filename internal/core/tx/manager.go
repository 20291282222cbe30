// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces instead of a concrete
// database implementation, which keeps the coordinator testable with
// in-memory fakes.
package tx

import (
	"context"
)

// Manager defines the contract for unit-of-work transaction management.
//
// Every multi-document write in the coordinator goes through exactly one
// RunInTransaction call at the service entry point; repositories never
// open transactions themselves.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
// Use for queries that don't modify data.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	// Attempts to modify data will fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
