// Package file reads the dataset document from local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"txdash/internal/core"
	ports "txdash/internal/sources"
)

var _ ports.Source = (*Store)(nil)

type Store struct {
	path string
}

func New(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("missing dataset file path")
	}
	return &Store{path: filepath.Clean(path)}, nil
}

func (s *Store) Name() string { return "file:" + s.path }

// Fetch opens and decodes the file on every call.
func (s *Store) Fetch(ctx context.Context) (core.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return core.Dataset{}, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()
	ds, err := core.DecodeDataset(f)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("%s: %w", s.path, err)
	}
	return ds, nil
}

// Save writes ds to the file, creating parent directories. The write goes
// through a temp file so readers never see a partial document.
func (s *Store) Save(_ context.Context, ds core.Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".dataset-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := core.EncodeDataset(tmp, ds); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename to %s: %w", s.path, err)
	}
	return nil
}
