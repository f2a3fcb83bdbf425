package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"glucoguard/internal/store"
)

// FieldStore provides a file-based backend: one JSON file per field.
type FieldStore struct {
	basePath string
}

// NewFieldStore creates a new FieldStore and ensures the base directory exists.
func NewFieldStore(basePath string) (*FieldStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &FieldStore{basePath: basePath}, nil
}

// sanitizeKey makes the key safe for filenames.
func sanitizeKey(key string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "-").Replace(key)
}

// getPath returns the full path for a given field key.
func (s *FieldStore) getPath(key string) string {
	return filepath.Join(s.basePath, sanitizeKey(key)+".json")
}

// Set writes the encoded field. The file is replaced atomically so a crash
// mid-write never leaves a truncated value behind.
func (s *FieldStore) Set(_ context.Context, key string, value []byte) error {
	filePath := s.getPath(key)
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return fmt.Errorf("failed to write field file: %w", err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		return fmt.Errorf("failed to replace field file: %w", err)
	}
	return nil
}

// Get reads the encoded field.
func (s *FieldStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.getPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read field file: %w", err)
	}
	return data, nil
}

// Delete removes a field file. Removing a missing field is not an error.
func (s *FieldStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.getPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove field file %s: %w", key, err)
	}
	return nil
}
