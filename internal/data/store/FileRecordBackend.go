package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileRecordBackend keeps each record as <dir>/<id>.json.
type FileRecordBackend struct {
	dir string
}

func NewFileRecordBackend(dir string) (*FileRecordBackend, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileRecordBackend{dir: dir}, nil
}

func (b *FileRecordBackend) path(id string) string {
	return filepath.Join(b.dir, id+".json")
}

// Write replaces the record in one rename so readers never see a partial file.
func (b *FileRecordBackend) Write(ctx context.Context, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.dir, "."+id+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp record: %w", err)
	}
	if err := os.Rename(tmpName, b.path(id)); err != nil {
		return fmt.Errorf("publish record: %w", err)
	}
	return nil
}

func (b *FileRecordBackend) Read(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(b.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrRecordNotFound
	}
	return data, err
}

func (b *FileRecordBackend) Remove(ctx context.Context, id string) (bool, error) {
	err := os.Remove(b.path(id))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (b *FileRecordBackend) Location(id string) string {
	return b.path(id)
}
