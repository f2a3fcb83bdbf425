package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// ErrNotFound is returned by a Backend when a key has never been written.
var ErrNotFound = errors.New("field not found")

// Backend is a raw key-value store for JSON encoded fields.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Store persists named values as JSON on top of a Backend. Reads never fail:
// a missing or unreadable value yields the caller's fallback. Writes are
// best-effort and only logged on failure.
type Store struct {
	backend Backend
	prefix  string
	logger  hclog.Logger
}

// New creates a Store. Every key is namespaced with prefix.
func New(backend Backend, prefix string, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{backend: backend, prefix: prefix, logger: logger}
}

// Load returns the value stored under key, or fallback when the key is
// missing, holds JSON null, or cannot be decoded into T.
func Load[T any](s *Store, key string, fallback T) T {
	data, err := s.backend.Get(context.Background(), s.prefix+key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("failed to read field, using default", "key", key, "error", err)
		}
		return fallback
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fallback
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		s.logger.Warn("corrupt field, using default", "key", key, "error", err)
		return fallback
	}
	return v
}

// Save serializes value and writes it under key.
func (s *Store) Save(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode field", "key", key, "error", err)
		return
	}
	if err := s.backend.Set(context.Background(), s.prefix+key, data); err != nil {
		s.logger.Warn("failed to write field", "key", key, "error", err)
	}
}

// Delete removes the value stored under key, so the next Load yields the
// fallback.
func (s *Store) Delete(key string) error {
	if err := s.backend.Delete(context.Background(), s.prefix+key); err != nil {
		return fmt.Errorf("failed to delete field %s: %w", key, err)
	}
	return nil
}
