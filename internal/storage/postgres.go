package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"Storefront/pkg/pgdb"
)

// PostgresStore expects:
//
//	CREATE TABLE kv_blobs (
//		key        TEXT PRIMARY KEY,
//		value      BYTEA NOT NULL,
//		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db    pgdb.DB
	close func()
}

func NewPostgresStore(db pgdb.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := pgdb.WithTimeout(ctx, pgdb.QueryTimeout, func(ctx context.Context) error {
		return s.db.QueryRow(ctx, `SELECT value FROM kv_blobs WHERE key = $1`, key).Scan(&v)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("postgres load %q: %w", key, err)
	}
	return v, true, nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, value []byte) error {
	err := pgdb.WithTimeout(ctx, pgdb.QueryTimeout, func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, `INSERT INTO kv_blobs (key, value, updated_at) VALUES ($1, $2, now()) `+
			`ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, key, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("postgres save %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	err := pgdb.WithTimeout(ctx, pgdb.QueryTimeout, func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, `DELETE FROM kv_blobs WHERE key = $1`, key)
		return err
	})
	if err != nil {
		return fmt.Errorf("postgres delete %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return pgdb.WithTimeout(ctx, pgdb.PingTimeout, s.db.Ping)
}

func (s *PostgresStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
