// Package repository keeps an ordered, keyed collection of records in memory
// and persists it as a whole through a storage backend.
package repository

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/go-ports/kontacto/internal/storage"
)

var (
	// ErrNotFound is returned when no record has the requested key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned when a key is already taken.
	ErrDuplicateKey = errors.New("already exists")
)

// Record is the constraint for repository elements.
type Record interface {
	comparable
	Key() string
	Validate() error
}

// Repository is an insertion-ordered key→record map. It is not safe for
// concurrent use.
type Repository[T Record] struct {
	name    string
	backend storage.Backend[T]
	keys    []string
	byKey   map[string]T
	dirty   bool
	// unread is set when the stored collection could not be read and is
	// still in place; Save refuses to overwrite it.
	unread error
}

// New returns an empty repository saving through backend. name labels the
// collection in log messages.
func New[T Record](name string, backend storage.Backend[T]) *Repository[T] {
	return &Repository[T]{name: name, backend: backend, byKey: map[string]T{}}
}

// Name returns the collection label.
func (r *Repository[T]) Name() string { return r.name }

// Load replaces the in-memory collection with the stored one. Load never
// fails on bad data: a missing, unreadable or corrupt collection leaves the
// repository empty, and invalid or duplicate records are skipped. Problems
// are logged and the number of skipped records is returned. A collection
// that could not be read is not overwritten by Save until a later Load
// succeeds.
func (r *Repository[T]) Load(ctx context.Context) (skipped int) {
	r.reset()
	r.unread = nil
	records, err := r.backend.Load(ctx)
	if err != nil {
		slog.Warn("starting with an empty collection", "collection", r.name, "location", r.backend.Location(), "err", err)
		if errors.Is(err, storage.ErrIO) {
			r.unread = err
		}
		return 0
	}
	for _, rec := range records {
		if err := r.loadOne(rec); err != nil {
			skipped++
			slog.Warn("skipping stored record", "collection", r.name, "err", err)
		}
	}
	r.dirty = false
	return skipped
}

func (r *Repository[T]) loadOne(rec T) error {
	var zero T
	if rec == zero {
		return errors.New("empty record")
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	return r.Add(rec)
}

// Save writes the whole collection through the backend and clears the dirty
// flag on success.
func (r *Repository[T]) Save(ctx context.Context) error {
	if r.unread != nil {
		return fmt.Errorf("save %s: %w: %s could not be read at load, not overwriting it",
			r.name, storage.ErrIO, r.backend.Location())
	}
	if err := r.backend.Save(ctx, r.All()); err != nil {
		return fmt.Errorf("save %s: %w", r.name, err)
	}
	r.dirty = false
	return nil
}

// SaveIfDirty saves only when the collection changed since the last
// successful load or save.
func (r *Repository[T]) SaveIfDirty(ctx context.Context) error {
	if !r.dirty {
		return nil
	}
	return r.Save(ctx)
}

// ---------------------------------------------------------------------------
// Mutation
// ---------------------------------------------------------------------------

// Add inserts rec under rec.Key(). An existing record with the same key is
// left unchanged and ErrDuplicateKey is returned.
func (r *Repository[T]) Add(rec T) error {
	key := rec.Key()
	if _, ok := r.byKey[key]; ok {
		return fmt.Errorf("%s %q: %w", r.name, key, ErrDuplicateKey)
	}
	r.byKey[key] = rec
	r.keys = append(r.keys, key)
	r.dirty = true
	return nil
}

// Remove deletes and returns the record stored under key.
func (r *Repository[T]) Remove(key string) (T, error) {
	rec, ok := r.byKey[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %q: %w", r.name, key, ErrNotFound)
	}
	delete(r.byKey, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })
	r.dirty = true
	return rec, nil
}

// Rekey moves the record stored under oldKey to its current Key(), keeping
// its position. Call it after changing a field the key derives from.
func (r *Repository[T]) Rekey(oldKey string) error {
	rec, ok := r.byKey[oldKey]
	if !ok {
		return fmt.Errorf("%s %q: %w", r.name, oldKey, ErrNotFound)
	}
	newKey := rec.Key()
	if newKey == oldKey {
		r.dirty = true
		return nil
	}
	if _, taken := r.byKey[newKey]; taken {
		return fmt.Errorf("%s %q: %w", r.name, newKey, ErrDuplicateKey)
	}
	delete(r.byKey, oldKey)
	r.byKey[newKey] = rec
	r.keys[slices.Index(r.keys, oldKey)] = newKey
	r.dirty = true
	return nil
}

// Touch marks the collection changed after a record was edited in place.
func (r *Repository[T]) Touch() { r.dirty = true }

// Clear removes every record and returns how many there were.
func (r *Repository[T]) Clear() int {
	n := len(r.keys)
	if n > 0 {
		r.reset()
		r.dirty = true
	}
	return n
}

func (r *Repository[T]) reset() {
	r.keys = nil
	r.byKey = map[string]T{}
	r.dirty = false
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Get returns the record stored under key.
func (r *Repository[T]) Get(key string) (T, bool) {
	rec, ok := r.byKey[key]
	return rec, ok
}

// All returns the records in insertion order.
func (r *Repository[T]) All() []T {
	out := make([]T, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.byKey[k])
	}
	return out
}

// Find yields the records matching pred in insertion order.
func (r *Repository[T]) Find(pred func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, k := range r.keys {
			rec := r.byKey[k]
			if pred(rec) && !yield(rec) {
				return
			}
		}
	}
}

// Len returns the number of records.
func (r *Repository[T]) Len() int { return len(r.keys) }

// Dirty reports whether the collection changed since the last load or save.
func (r *Repository[T]) Dirty() bool { return r.dirty }
