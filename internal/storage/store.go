// Package storage is a small key/value store kept as one file per key, the
// local equivalent of a browser's local storage.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// ErrInvalidKey is returned for keys that are empty or would escape the
// store directory.
var ErrInvalidKey = errors.New("invalid storage key")

// FileStore keeps each key in <dir>/<key>.
type FileStore struct {
	mu  sync.Mutex
	fs  afero.Fs
	dir string
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithFs replaces the OS filesystem, e.g. with afero.NewMemMapFs() in tests.
func WithFs(fs afero.Fs) Option {
	return func(s *FileStore) { s.fs = fs }
}

// Open returns a store rooted at dir, creating the directory if needed.
func Open(dir string, opts ...Option) (*FileStore, error) {
	s := &FileStore{fs: afero.NewOsFs(), dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return s, nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key), nil
}

// Get returns the stored value; ok is false when the key was never set.
func (s *FileStore) Get(key string) (string, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, p)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set replaces the value of key. The value is written to a temporary file
// first and renamed into place.
func (s *FileStore) Set(key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *FileStore) Remove(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
