package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"steward/internal/adapters/filestore"
	"steward/internal/domain/media"
	"steward/internal/domain/validation"

	"github.com/google/uuid"
)

// ErrRetryable marks failures of an outside service that may succeed on a retry.
var ErrRetryable = errors.New("service temporarily unavailable")

// MediaStore defines the store interface needed by UploadMedia.
type MediaStore interface {
	Save(ctx context.Context, f media.File) error
}

// UploadMediaInput carries input for the upload orchestrator.
type UploadMediaInput struct {
	Title      string // defaults to the file name
	Category   string // derived from the MIME type when blank
	Tags       []string
	UploadedBy string
	FileName   string
	MimeType   string
	Body       io.Reader
}

// UploadMediaDeps holds dependencies for UploadMedia.
type UploadMediaDeps struct {
	Storage    filestore.Storage
	MediaStore MediaStore
	Now        func() time.Time
}

// ExecuteUploadMedia stores the file and records it in the media library.
// PRE: Body is non-empty and within filestore.MaxUploadSize
// POST: on success the file is stored and a media record points at it
// INVARIANT: when storage fails no media record is written
func ExecuteUploadMedia(ctx context.Context, input UploadMediaInput, deps UploadMediaDeps) (media.File, error) {
	if input.Body == nil || strings.TrimSpace(input.FileName) == "" {
		errs := validation.Errors{}
		errs.Add("file", "is required")
		return media.File{}, errs
	}
	category := strings.TrimSpace(input.Category)
	if category != "" && !slices.Contains(media.Categories, category) {
		errs := validation.Errors{}
		errs.Add("category", "must be one of "+strings.Join(media.Categories, ", "))
		return media.File{}, errs
	}

	obj, err := deps.Storage.Upload(ctx, filestore.File{Name: input.FileName, MimeType: input.MimeType, Body: input.Body})
	switch {
	case errors.Is(err, filestore.ErrEmpty), errors.Is(err, filestore.ErrTooLarge):
		errs := validation.Errors{}
		errs.Add("file", err.Error())
		return media.File{}, errs
	case err != nil:
		return media.File{}, fmt.Errorf("%w: upload %s: %w", ErrRetryable, input.FileName, err)
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	f := media.File{
		ID:         uuid.New().String(),
		Title:      strings.TrimSpace(input.Title),
		Category:   category,
		URL:        obj.URL,
		Size:       obj.Size,
		MimeType:   obj.MimeType,
		Tags:       input.Tags,
		UploadedBy: input.UploadedBy,
		UploadedAt: now(),
	}
	if f.Title == "" {
		f.Title = input.FileName
	}
	if f.Category == "" {
		f.Category = media.CategoryFor(obj.MimeType)
	}

	if err := deps.MediaStore.Save(ctx, f); err != nil {
		if delErr := deps.Storage.Delete(ctx, obj.Key); delErr != nil {
			slog.Error("media_event", "event", "orphan_cleanup_failed", "key", obj.Key, "error", delErr)
		}
		return media.File{}, fmt.Errorf("%w: save media record: %w", ErrRetryable, err)
	}

	slog.Info("media_event", "event", "media_uploaded", "media_id", f.ID, "category", f.Category, "size", f.Size)
	return f, nil
}
