package prayer

import (
	"errors"
	"slices"
	"strings"
	"time"

	"steward/internal/domain/validation"
)

// Categories of prayer request.
const (
	CategoryHealing      = "Healing"
	CategoryFamily       = "Family"
	CategoryFinance      = "Finance"
	CategoryGuidance     = "Guidance"
	CategoryThanksgiving = "Thanksgiving"
	CategoryOther        = "Other"
)

// Status values.
const (
	StatusPending  = "Pending"
	StatusPraying  = "Praying"
	StatusAnswered = "Answered"
)

var (
	Categories = []string{CategoryHealing, CategoryFamily, CategoryFinance, CategoryGuidance, CategoryThanksgiving, CategoryOther}
	Statuses   = []string{StatusPending, StatusPraying, StatusAnswered}
)

// Domain errors
var (
	ErrEmptyUpdate   = errors.New("update note cannot be empty")
	ErrInvalidStatus = errors.New("unknown prayer request status")
)

// Update is one entry in a request's follow-up log.
type Update struct {
	At     time.Time
	Author string
	Note   string
}

// Request is a prayer request and its update log.
type Request struct {
	ID           string
	Name         string
	Email        string
	Request      string
	Category     string
	Status       string
	Confidential bool
	SubmittedAt  time.Time
	Updates      []Update
}

// Key returns the record identifier.
func (r *Request) Key() string { return r.ID }

// Clone returns a copy that shares no slices with r.
func (r Request) Clone() Request {
	r.Updates = slices.Clone(r.Updates)
	return r
}

// SetKey assigns the record identifier.
func (r *Request) SetKey(id string) { r.ID = id }

// Validate checks required fields are present.
func (r *Request) Validate() error {
	errs := validation.Errors{}
	errs.Required("name", r.Name)
	errs.Required("request", r.Request)
	errs.Required("category", r.Category)
	return errs.Err()
}

// AddUpdate appends a note to the log and optionally moves the status.
// PRE: note is non-blank; status is empty or a known status
// POST: Updates grows by one; Status changed when status is non-empty
func (r *Request) AddUpdate(author, note, status string, at time.Time) error {
	if strings.TrimSpace(note) == "" {
		return ErrEmptyUpdate
	}
	if status != "" {
		if !isStatus(status) {
			return ErrInvalidStatus
		}
		r.Status = status
	}
	r.Updates = append(r.Updates, Update{At: at, Author: author, Note: note})
	return nil
}

// IsAnswered reports whether the request is marked answered.
func (r Request) IsAnswered() bool {
	return r.Status == StatusAnswered
}

func isStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}
