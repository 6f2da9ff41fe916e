// Package storage persists the raw uploaded files. The analysis pipeline
// only needs Save: extracted text lives in the database, the original
// bytes are kept for audit and re-extraction.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the write-side contract of the storage service.
type Store interface {
	Save(ctx context.Context, path string, data []byte) error
}

// LocalStore writes files under a base directory on the local disk.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

func (s *LocalStore) Save(ctx context.Context, path string, data []byte) error {
	full := filepath.Join(s.baseDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
