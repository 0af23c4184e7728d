package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	tempFilePrefix = ".kontacto-tmp-"
	corruptSuffix  = ".corrupt"
	filePerm       = 0o600
)

// File stores a collection as a YAML sequence in a single file.
type File[T any] struct {
	path string
}

// NewFile returns a file backend for path. The file is not touched until
// Load or Save is called.
func NewFile[T any](path string) *File[T] {
	return &File[T]{path: path}
}

// Location returns the file path.
func (f *File[T]) Location() string { return f.path }

// Load reads and decodes the file. A missing file yields no records. A file
// that cannot be decoded is renamed to <path>.corrupt so a later Save cannot
// overwrite it, and ErrCorrupt is returned. ErrIO means the file is still in
// place and was not read.
func (f *File[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []T
	if err := yaml.Unmarshal(data, &records); err != nil {
		dest := f.path + corruptSuffix
		if rerr := os.Rename(f.path, dest); rerr != nil {
			return nil, fmt.Errorf("%w: %w: decode %s: %w; move aside: %w", ErrCorrupt, ErrIO, f.path, err, rerr)
		}
		return nil, fmt.Errorf("%w: decode %s (moved to %s): %w", ErrCorrupt, f.path, dest, err)
	}
	return records, nil
}

// Save encodes records and atomically replaces the file.
func (f *File[T]) Save(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []T{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrIO, f.path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrIO, f.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := writeFileAtomic(f.path, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over filename, so readers see either the old or the new content.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", filename, err)
	}
	return nil
}
