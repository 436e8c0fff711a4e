package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ProviderLocal names files kept on the server's disk
const ProviderLocal = "local"

// ErrInvalidKey is returned for keys that would leave the storage root
var ErrInvalidKey = errors.New("invalid storage key")

// LocalStorage keeps uploaded files under a directory the HTTP server exposes at baseURL.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates root when missing
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root is the directory files are written to
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Provider() string {
	return ProviderLocal
}

func (s *LocalStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || clean != "/"+key {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Put writes r to key. The file only appears under its final name once fully written.
func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes key. A missing file is not an error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	dst, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
