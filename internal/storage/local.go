package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes uploads under a directory served at PublicPrefix.
type LocalStore struct {
	dir          string
	publicPrefix string
}

func NewLocalStore(dir, publicPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:          dir,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
	}, nil
}

// Dir is the root directory holding stored files.
func (s *LocalStore) Dir() string {
	return s.dir
}

// PublicPrefix is the URL path the directory is served under.
func (s *LocalStore) PublicPrefix() string {
	return s.publicPrefix
}

func (s *LocalStore) Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	rel := filepath.FromSlash(strings.TrimLeft(key, "/"))
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	dst := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", dst, err)
	}
	return s.publicPrefix + "/" + filepath.ToSlash(rel), nil
}

var _ Service = (*LocalStore)(nil)
