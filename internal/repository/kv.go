// Package repository provides SQL persistence for the client's key-value
// session storage. The queries are portable between SQLite and PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLKVRepository implements key-value storage on top of the kv table.
type SQLKVRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewSQLKVRepository creates a new SQLKVRepository with the given database connection.
// db must already contain the kv table, see db.Open.
func NewSQLKVRepository(db *sql.DB) *SQLKVRepository {
	return &SQLKVRepository{DB: db}
}

// Get returns the value stored under key.
// The boolean is false when the key does not exist.
func (r *SQLKVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT value FROM kv WHERE key = $1`,
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (r *SQLKVRepository) Put(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO kv (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *SQLKVRepository) Delete(ctx context.Context, key string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM kv WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
