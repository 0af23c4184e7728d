package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-ports/kontacto/internal/db"
)

// SQLite stores a collection as JSON rows in a shared snapshot database.
// Several collections may share one *db.DB; the caller owns and closes it.
type SQLite[T any] struct {
	db         *db.DB
	collection string
}

// NewSQLite returns a backend that keeps collection in d.
func NewSQLite[T any](d *db.DB, collection string) *SQLite[T] {
	return &SQLite[T]{db: d, collection: collection}
}

// Location returns "<database>#<collection>".
func (s *SQLite[T]) Location() string { return s.db.Path() + "#" + s.collection }

// Load decodes the stored rows. Rows that cannot be decoded are moved to
// the database's quarantine table, so a later Save cannot drop them, and
// the remaining records are returned.
func (s *SQLite[T]) Load(ctx context.Context) ([]T, error) {
	bodies, err := s.db.Snapshot(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	records := make([]T, 0, len(bodies))
	var bad [][]byte
	for i, b := range bodies {
		var rec T
		if err := json.Unmarshal(b, &rec); err != nil {
			slog.Warn("quarantining undecodable row", "location", s.Location(), "row", i, "err", err)
			bad = append(bad, b)
			continue
		}
		records = append(records, rec)
	}
	if len(bad) > 0 {
		held, err := s.db.Quarantine(ctx, s.collection, bad)
		if err != nil {
			return nil, fmt.Errorf("%w: %w: %s: %w", ErrCorrupt, ErrIO, s.Location(), err)
		}
		slog.Warn("rows moved to records_corrupt", "location", s.Location(), "moved", len(bad), "held", held)
	}
	return records, nil
}

// Save replaces the stored rows with records in one transaction.
func (s *SQLite[T]) Save(ctx context.Context, records []T) error {
	bodies := make([][]byte, 0, len(records))
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrIO, s.Location(), err)
		}
		bodies = append(bodies, b)
	}
	if err := s.db.ReplaceSnapshot(ctx, s.collection, bodies); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
