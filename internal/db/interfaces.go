package db

import (
	"context"
	"errors"
)

// Collection names used by the application.
const (
	UsersCollection        = "users"
	TransactionsCollection = "transactions"
)

// ErrUnknownBackend is returned by New for an unsupported STORE_BACKEND.
var ErrUnknownBackend = errors.New("unknown store backend")

// Store is the persistence contract every backend satisfies with identical
// observable behaviour. Records are grouped into named collections.
//
// A lookup that matches nothing returns a nil Record and a nil error;
// callers decide whether absence is a failure.
type Store interface {
	// FindByID returns the record with the given id.
	FindByID(ctx context.Context, collection, id string) (Record, error)

	// FindOne returns the first record, in collection order, matching c.
	FindOne(ctx context.Context, collection string, c Criteria) (Record, error)

	// Find returns every record matching c in stored order.
	// Empty criteria return the whole collection.
	Find(ctx context.Context, collection string, c Criteria) ([]Record, error)

	// Create assigns id, createdAt and updatedAt, appends the record and
	// returns it. Caller-supplied bookkeeping fields are ignored.
	Create(ctx context.Context, collection string, fields Record) (Record, error)

	// Update merges fields into the record with the given id and refreshes
	// updatedAt. id and createdAt never change.
	Update(ctx context.Context, collection, id string, fields Record) (Record, error)

	// FindOneAndDelete removes the first record matching c and returns it.
	FindOneAndDelete(ctx context.Context, collection string, c Criteria) (Record, error)

	// Close releases backend resources.
	Close() error
}
