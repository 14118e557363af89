package sermon

import (
	"slices"
	"time"

	"steward/internal/domain/validation"
)

// Status values.
const (
	StatusDraft     = "Draft"
	StatusPublished = "Published"
)

// Statuses lists every sermon status.
var Statuses = []string{StatusDraft, StatusPublished}

// Sermon is a preached message with its notes and recording link.
type Sermon struct {
	ID        string
	Title     string
	Preacher  string
	Date      time.Time
	Series    string
	Scripture string
	Tags      []string
	Notes     string // markdown
	MediaURL  string
	Status    string
}

// Key returns the record identifier.
func (s *Sermon) Key() string { return s.ID }

// Clone returns a copy that shares no slices with s.
func (s Sermon) Clone() Sermon {
	s.Tags = slices.Clone(s.Tags)
	return s
}

// SetKey assigns the record identifier.
func (s *Sermon) SetKey(id string) { s.ID = id }

// Validate checks required fields are present.
func (s *Sermon) Validate() error {
	errs := validation.Errors{}
	errs.Required("title", s.Title)
	errs.Required("preacher", s.Preacher)
	if s.Date.IsZero() {
		errs.Add("date", "is required")
	}
	return errs.Err()
}

// IsPublished reports whether the sermon is visible publicly.
func (s Sermon) IsPublished() bool {
	return s.Status == StatusPublished
}
