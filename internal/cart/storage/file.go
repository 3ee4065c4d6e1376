package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/kelly-developers/agriecommerce/pkg/errors"
)

// FileStore implements Store using one JSON file per key under a data
// directory. It is the single-node counterpart of browser local storage
// and is intended for development; deployments use RedisStore.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	// Keys may carry a session-id suffix separated by ':'.
	name := strings.ReplaceAll(key, ":", "_")
	return filepath.Join(s.dir, name+".json")
}

// Get retrieves the value stored under key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("guest cart", key)
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set stores the value under key. The write goes through a temp file and
// rename so a crash never leaves a half-written cart behind.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting a missing key is a
// no-op.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
