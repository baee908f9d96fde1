package postgres

import (
	"context"

	"quotations/go_backend/internal/core/errx"
)

type SequenceStore struct{ db *DB }

func NewSequenceStore(db *DB) *SequenceStore { return &SequenceStore{db: db} }

// Next atomically increments and returns the counter for key, starting at 1.
func (s *SequenceStore) Next(ctx context.Context, key string) (int64, error) {
	var v int64
	err := s.db.Pool.QueryRow(ctx, `INSERT INTO sequences (key, value) VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET value = sequences.value + 1
		RETURNING value`, key).Scan(&v)
	return v, errx.WrapPostgres(err, "sequence")
}
