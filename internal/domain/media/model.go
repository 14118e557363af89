package media

import (
	"slices"
	"strings"
	"time"

	"steward/internal/domain/validation"
)

// Categories of media.
const (
	CategoryAudio    = "Audio"
	CategoryVideo    = "Video"
	CategoryImage    = "Image"
	CategoryDocument = "Document"
)

// Categories lists every media category.
var Categories = []string{CategoryAudio, CategoryVideo, CategoryImage, CategoryDocument}

// File is an item in the media library.
type File struct {
	ID         string
	Title      string
	Category   string
	URL        string
	Size       int64
	MimeType   string
	Tags       []string
	UploadedBy string
	UploadedAt time.Time
}

// Key returns the record identifier.
func (f *File) Key() string { return f.ID }

// Clone returns a copy that shares no slices with f.
func (f File) Clone() File {
	f.Tags = slices.Clone(f.Tags)
	return f
}

// SetKey assigns the record identifier.
func (f *File) SetKey(id string) { f.ID = id }

// Validate checks required fields are present.
func (f *File) Validate() error {
	errs := validation.Errors{}
	errs.Required("title", f.Title)
	errs.Required("category", f.Category)
	return errs.Err()
}

// CategoryFor maps a MIME type to a library category.
func CategoryFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "audio/"):
		return CategoryAudio
	case strings.HasPrefix(mimeType, "video/"):
		return CategoryVideo
	case strings.HasPrefix(mimeType, "image/"):
		return CategoryImage
	default:
		return CategoryDocument
	}
}
