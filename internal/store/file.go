package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/maybe"
	"github.com/pkg/errors"
)

// File stores each record as dir/<player>/<key>.json. It is used by the CLI,
// where a single local player owns the data directory.
type File struct {
	dir string
}

// NewFileStore returns a Store rooted at dir. The directory is created on the
// first write.
func NewFileStore(dir string) *File { return &File{dir: dir} }

func (f *File) path(player, key string) (string, error) {
	for _, s := range []string{player, key} {
		if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
			return "", errors.Errorf("invalid record name: %q", s)
		}
	}
	return filepath.Join(f.dir, player, key+".json"), nil
}

func (f *File) Get(ctx context.Context, player, key string) ([]byte, error) {
	p, err := f.path(player, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "could not read record: %s", p)
	}
	return data, nil
}

// Put writes the record atomically where the platform allows it.
func (f *File) Put(ctx context.Context, player, key string, value []byte) error {
	p, err := f.path(player, key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "could not create data directory: %s", dir)
	}
	if err := maybe.WriteFile(p, value, 0o644); err != nil {
		return errors.Wrapf(err, "could not write record: %s", p)
	}
	return nil
}

func (f *File) Delete(ctx context.Context, player, key string) error {
	p, err := f.path(player, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "could not delete record: %s", p)
	}
	return nil
}
