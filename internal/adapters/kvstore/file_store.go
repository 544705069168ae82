package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps one file per collection key under a data directory.
// Writes go through a temp file and rename so a crash mid-write never
// leaves a truncated collection behind.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kvstore: create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Save(ctx context.Context, key string, blob []byte) error {
	target := s.path(key)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("kvstore: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("kvstore: commit %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	blob, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("kvstore: read %s: %w", key, err)
	}
	return blob, true, nil
}
