package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage persists files on disk under a base directory.
type LocalStorage struct {
	baseDir   string
	publicURL string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
// publicURL is the externally visible prefix the directory is served under.
func NewLocalStorage(baseDir, publicURL string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// SaveStream copies from reader into a new file. Existing files are never overwritten.
func (s *LocalStorage) SaveStream(_ context.Context, filename string, r io.Reader) (string, error) {
	filename = filepath.Base(filename)
	path := s.resolve(filename)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", ErrExists
		}
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(file, r); err != nil {
		file.Close()     //nolint:errcheck
		os.Remove(path) //nolint:errcheck
		return "", fmt.Errorf("write upload stream: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return filename, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(_ context.Context, filename string) error {
	path := s.resolve(filepath.Base(filename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// URL returns the absolute address of a stored file.
func (s *LocalStorage) URL(filename string) string {
	return joinURL(s.publicURL, url.PathEscape(filename))
}

// Dir exposes the directory backing the storage so it can be served statically.
func (s *LocalStorage) Dir() string {
	return s.baseDir
}

func (s *LocalStorage) resolve(filename string) string {
	return filepath.Join(s.baseDir, filename)
}
