package filestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage writes uploads under a directory served at URLPrefix.
type LocalStorage struct {
	dir       string
	urlPrefix string
	now       func() time.Time
}

// NewLocalStorage stores files under dir and links them as urlPrefix + key.
func NewLocalStorage(dir, urlPrefix string) *LocalStorage {
	return &LocalStorage{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/"), now: time.Now}
}

// Dir returns the root directory.
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Upload writes the file to disk.
// POST: on error no file is left behind
func (s *LocalStorage) Upload(_ context.Context, f File) (Object, error) {
	p, err := prepare(f, s.now())
	if err != nil {
		return Object{}, err
	}
	dest := filepath.Join(s.dir, filepath.FromSlash(p.key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return Object{}, fmt.Errorf("create upload dir: %w", err)
	}
	tmp := dest + ".part"
	if err := os.WriteFile(tmp, p.data, 0o644); err != nil {
		os.Remove(tmp)
		return Object{}, fmt.Errorf("write upload: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return Object{}, fmt.Errorf("commit upload: %w", err)
	}
	slog.Info("upload_stored", "backend", "local", "key", p.key, "size", len(p.data))
	return Object{
		Key:      p.key,
		URL:      s.urlPrefix + "/" + p.key,
		Size:     int64(len(p.data)),
		MimeType: p.mimeType,
	}, nil
}

// Delete removes a stored file. Missing files are not an error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	clean := filepath.Clean("/" + key)
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}
