package storage

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps one file per key under base. Keys are path-escaped with ':'
// escaped as well, so file names stay portable.
type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base}, nil
}

func (s *FSStore) Load(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

// Save writes through a temp file and rename so a crash never leaves a torn value.
func (s *FSStore) Save(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	dst := s.path(key)
	f, err := os.CreateTemp(s.base, ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.WriteString(value); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func (s *FSStore) path(key string) string {
	return filepath.Join(s.base, fileName(key))
}

func fileName(key string) string {
	return strings.ReplaceAll(url.PathEscape(key), ":", "%3A") + ".json"
}
