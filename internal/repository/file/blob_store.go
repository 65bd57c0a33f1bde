package file

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"dayboard/internal/domain"
)

// BlobStore persists each key as one JSON file under a root directory.
// Writes go through a temp file and rename so a crash mid-write never leaves
// a half-written calendar behind.
type BlobStore struct {
	dir string
	mu  sync.Mutex
}

// Open ensures the root directory exists and returns a store over it.
func Open(dir string) (domain.BlobStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage path is required for the file driver")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &BlobStore{dir: dir}, nil
}

// path maps a key to a file name. Keys contain user identifiers (emails), so
// they are escaped to stay within the root directory regardless of content.
func (s *BlobStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (s *BlobStore) Set(ctx context.Context, key string, value []byte) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *BlobStore) Close() error { return nil }
