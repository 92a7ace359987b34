package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/chirp/social-api/internal/core/domain"
)

var ErrNotDir = errors.New("storage root is not a directory")

// FileStore keeps images on the local filesystem under Root. The router
// serves Root under PublicURL.
type FileStore struct {
	Root      string
	PublicURL string
}

// NewFileStore creates root if it does not exist yet.
func NewFileStore(root, publicURL string) (*FileStore, error) {
	info, err := os.Stat(root)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, ErrNotDir
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create storage root: %w", err)
		}
	default:
		return nil, fmt.Errorf("stat storage root: %w", err)
	}

	return &FileStore{Root: root, PublicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

func (s *FileStore) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	return s.PublicURL + "/" + key, nil
}

func (s *FileStore) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.PublicURL+"/")
	if !ok {
		return domain.ErrObjectNotFound
	}
	path, err := s.path(key)
	if err != nil {
		return domain.ErrObjectNotFound
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrObjectNotFound
		}
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// path resolves key below Root, rejecting keys that escape it.
func (s *FileStore) path(key string) (string, error) {
	if key == "" || !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.Root, filepath.FromSlash(key)), nil
}
