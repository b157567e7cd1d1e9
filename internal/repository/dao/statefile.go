package dao

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStateDAO keeps the document slot in a single local file, the direct
// analogue of the original browser-storage slot. Used for development and
// tests; the Postgres DAO is the deployed backend.
type FileStateDAO struct {
	path string
}

func NewFileStateDAO(path string) *FileStateDAO {
	return &FileStateDAO{
		path: path,
	}
}

func (d *FileStateDAO) Get(_ context.Context) ([]byte, error) {
	blob, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrStateNotFound
		}

		return nil, err
	}

	return blob, nil
}

// Put replaces the whole blob atomically via rename, so a crash mid-write
// leaves the previous document intact.
func (d *FileStateDAO) Put(_ context.Context, blob []byte) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll -> %w", err)
	}

	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile -> %w", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("os.Rename -> %w", err)
	}

	return nil
}
