// Package filestore stores uploaded media and returns where it can be fetched.
package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxUploadSize bounds a single upload.
const MaxUploadSize = 100 << 20

// Upload errors.
var (
	ErrEmpty    = errors.New("uploaded file is empty")
	ErrTooLarge = errors.New("uploaded file exceeds the size limit")
)

// File is an upload waiting to be stored.
type File struct {
	Name     string    // client file name, used for the extension and key
	MimeType string    // as sent by the client; sniffed when blank
	Body     io.Reader // content
}

// Object describes a stored file.
type Object struct {
	Key      string
	URL      string
	Size     int64
	MimeType string
}

// Storage is the file storage service.
type Storage interface {
	Upload(ctx context.Context, f File) (Object, error)
	Delete(ctx context.Context, key string) error
}

// prepared is an upload read into memory with its key and type resolved.
type prepared struct {
	key      string
	data     []byte
	mimeType string
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// prepare reads the body, enforces the size limit and works out the key and MIME type.
func prepare(f File, now time.Time) (prepared, error) {
	data, err := io.ReadAll(io.LimitReader(f.Body, MaxUploadSize+1))
	if err != nil {
		return prepared{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return prepared{}, ErrEmpty
	}
	if len(data) > MaxUploadSize {
		return prepared{}, ErrTooLarge
	}
	return prepared{
		key:      objectKey(f.Name, now),
		data:     data,
		mimeType: detectType(f, data),
	}, nil
}

// objectKey builds "2026/05/<uuid>-<clean name>".
func objectKey(name string, now time.Time) string {
	base := strings.ToLower(filepath.Base(name))
	base = strings.Trim(unsafeChars.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "file"
	}
	return path.Join(now.UTC().Format("2006/01"), uuid.New().String()+"-"+base)
}

// detectType prefers the client's type, then the extension, then the content.
func detectType(f File, data []byte) string {
	if t := strings.TrimSpace(f.MimeType); t != "" && t != "application/octet-stream" {
		return t
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

func (p prepared) reader() io.Reader {
	return bytes.NewReader(p.data)
}
