package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"spellstory/internal/database"
)

// KVRepository stores string values in the kv_entries table.
// It satisfies storage.Store.
type KVRepository struct {
	db *database.DB
}

func NewKVRepository(db *database.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get retrieves a value by key
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := `SELECT entry_value FROM kv_entries WHERE entry_key = ?`
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces a value
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Dialect.UpsertKV(), key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Check pings the database
func (r *KVRepository) Check(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
