package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/settings"
)

// SettingsStore keeps the configuration document in a single JSONB row.
type SettingsStore struct{ db *DB }

func NewSettingsStore(db *DB) *SettingsStore { return &SettingsStore{db: db} }

func (s *SettingsStore) Load(ctx context.Context) (*settings.Configuration, error) {
	var cfg settings.Configuration
	err := s.db.Pool.QueryRow(ctx, `SELECT data FROM configuration WHERE id = 1`).Scan(&cfg)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errx.WrapPostgres(err, "configuration")
	}
	return &cfg, nil
}

func (s *SettingsStore) Save(ctx context.Context, cfg settings.Configuration) error {
	_, err := s.db.Pool.Exec(ctx, `INSERT INTO configuration (id, data, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, cfg)
	return errx.WrapPostgres(err, "configuration")
}
