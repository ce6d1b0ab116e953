// Package storage persists processed avatar images and returns the reference
// clients use to fetch them.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// Local writes avatars to a directory served by the API under URLPrefix.
type Local struct {
	dir       string
	urlPrefix string
}

// NewLocal creates dir if needed.
func NewLocal(dir, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatars dir: %w", err)
	}
	return &Local{dir: dir, urlPrefix: urlPrefix}, nil
}

// Dir is the directory files are written to.
func (l *Local) Dir() string { return l.dir }

// Save writes data under name, replacing any previous file.
func (l *Local) Save(ctx context.Context, name string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = filepath.Base(name)

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write avatar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write avatar: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(l.dir, name)); err != nil {
		return "", fmt.Errorf("failed to move avatar: %w", err)
	}

	return path.Join(l.urlPrefix, name), nil
}
