// Package storage persists whole collections of records. Every backend
// overwrites the complete collection on Save; there are no partial updates.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrIO is wrapped by every read or write failure of a backend.
	ErrIO = errors.New("storage I/O error")
	// ErrCorrupt is wrapped when stored data cannot be decoded.
	ErrCorrupt = errors.New("corrupt data")
)

// Backend loads and saves one collection of T.
type Backend[T any] interface {
	// Load returns the stored records in saved order. A collection that has
	// never been saved loads as empty without error.
	Load(ctx context.Context) ([]T, error)
	// Save replaces the stored collection with records.
	Save(ctx context.Context, records []T) error
	// Location describes where the collection lives, for messages.
	Location() string
}
