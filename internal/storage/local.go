package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidName is returned for names that would escape the storage root.
var ErrInvalidName = errors.New("invalid stored file name")

// FileStore persists uploaded files.
type FileStore interface {
	// Save stores r under a unique name derived from original and returns that name.
	Save(original string, r io.Reader) (stored string, size int64, err error)
	Open(stored string) (*os.File, error)
	Remove(stored string) error
	URL(stored string) string
}

// LocalStore keeps files in a directory on disk served under urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *LocalStore) Save(original string, r io.Reader) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	stored := uuid.NewString() + ext

	f, err := os.OpenFile(filepath.Join(s.dir, stored), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, stored))
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return stored, n, nil
}

func (s *LocalStore) Open(stored string) (*os.File, error) {
	path, err := s.path(stored)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes a stored file. A missing file is not an error.
func (s *LocalStore) Remove(stored string) error {
	path, err := s.path(stored)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(stored string) string {
	return s.urlPrefix + "/" + stored
}

func (s *LocalStore) path(stored string) (string, error) {
	if stored == "" || stored != filepath.Base(stored) || stored == "." || stored == ".." {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, stored), nil
}
