package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type LocalStore struct {
	root      string
	publicURL string
	now       func() time.Time
}

// NewLocalStore stores files below root, served under publicURL.
func NewLocalStore(root, publicURL string) *LocalStore {
	return &LocalStore{root: root, publicURL: publicURL, now: time.Now}
}

func (s *LocalStore) Save(_ context.Context, kind, ext string, data []byte) (string, error) {
	key := ObjectKey(kind, ext, s.now())
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return joinURL(s.publicURL, key), nil
}

// Delete removes the file behind ref. Missing files are ignored.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	prefix := joinURL(s.publicURL, "")
	if !strings.HasPrefix(ref, prefix) {
		return ErrInvalidRef
	}
	key := strings.TrimPrefix(ref, prefix)
	if key == "" || strings.Contains(key, "..") {
		return ErrInvalidRef
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
