package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	fieldsdb "glucoguard/internal/store/fields_db"
)

// SQLiteBackend keeps fields in the fields table.
type SQLiteBackend struct {
	queries *fieldsdb.Queries
	db      *sql.DB
}

// NewSQLiteBackend creates a backend over an already migrated database.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{
		queries: fieldsdb.New(db),
		db:      db,
	}
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	field, err := b.queries.GetField(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get field %s: %w", key, err)
	}
	return []byte(field.Value), nil
}

func (b *SQLiteBackend) Set(ctx context.Context, key string, value []byte) error {
	err := b.queries.UpsertField(ctx, fieldsdb.UpsertFieldParams{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert field %s: %w", key, err)
	}
	return nil
}

func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if err := b.queries.DeleteField(ctx, key); err != nil {
		return fmt.Errorf("failed to delete field %s: %w", key, err)
	}
	return nil
}
