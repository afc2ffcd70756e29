// Package postgres keeps a storage area in a Postgres table so that several
// processes can share one storefront's data.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Area implements storage.Area over table storage_entries. Each namespace is an
// independent key space.
type Area struct {
	pool      *pgxpool.Pool
	namespace string

	mu    sync.Mutex
	ready bool
}

func NewArea(pool *pgxpool.Pool, namespace string) *Area {
	return &Area{pool: pool, namespace: namespace}
}

func (a *Area) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := a.ensureTable(ctx); err != nil {
		return nil, false, err
	}

	const query = `
		SELECT value
		FROM storage_entries
		WHERE namespace = $1 AND key = $2;
	`
	var value []byte
	err := a.pool.QueryRow(ctx, query, a.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (a *Area) Set(ctx context.Context, key string, value []byte) error {
	if err := a.ensureTable(ctx); err != nil {
		return err
	}

	const query = `
		INSERT INTO storage_entries (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key) DO UPDATE
		SET value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;
	`
	if value == nil {
		value = []byte{}
	}
	if _, err := a.pool.Exec(ctx, query, a.namespace, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (a *Area) Remove(ctx context.Context, key string) error {
	if err := a.ensureTable(ctx); err != nil {
		return err
	}

	const query = `DELETE FROM storage_entries WHERE namespace = $1 AND key = $2;`
	if _, err := a.pool.Exec(ctx, query, a.namespace, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Values are opaque bytes, not jsonb: a corrupt document must be stored and read back as-is.
func (a *Area) ensureTable(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ready {
		return nil
	}

	const stmt = `
		CREATE TABLE IF NOT EXISTS storage_entries (
			namespace TEXT NOT NULL,
			key TEXT NOT NULL,
			value BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (namespace, key)
		);
	`
	if _, err := a.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create storage_entries: %w", err)
	}
	a.ready = true
	return nil
}
