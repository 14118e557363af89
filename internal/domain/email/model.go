package email

import (
	"errors"
	"slices"
	"time"

	"steward/internal/domain/validation"
)

// Folders a message can live in.
const (
	FolderInbox  = "inbox"
	FolderSent   = "sent"
	FolderDrafts = "drafts"
	FolderTrash  = "trash"
)

// Status constants for the send lifecycle.
const (
	StatusDraft  = "draft"
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Folders lists every folder.
var Folders = []string{FolderInbox, FolderSent, FolderDrafts, FolderTrash}

// Domain errors
var (
	ErrAlreadySent = errors.New("email has already been sent")
	ErrNotOutgoing = errors.New("only drafts can be sent")
)

// Email is a message in the church mailbox. Body is markdown.
type Email struct {
	ID        string
	Folder    string
	From      string
	To        []string
	Subject   string
	Body      string
	Status    string
	Read      bool
	Starred   bool
	LastError string
	MessageID string // provider message ID once sent
	CreatedAt time.Time
	SentAt    time.Time
}

// Key returns the record identifier.
func (e *Email) Key() string { return e.ID }

// Clone returns a copy that shares no slices with e.
func (e Email) Clone() Email {
	e.To = slices.Clone(e.To)
	return e
}

// SetKey assigns the record identifier.
func (e *Email) SetKey(id string) { e.ID = id }

// Validate checks required fields are present.
func (e *Email) Validate() error {
	errs := validation.Errors{}
	if len(e.To) == 0 {
		errs.Add("to", "is required")
	}
	errs.Required("subject", e.Subject)
	errs.Required("body", e.Body)
	return errs.Err()
}

// CanSend reports whether the message is an outgoing draft (fresh or previously failed).
func (e *Email) CanSend() error {
	if e.Status == StatusSent {
		return ErrAlreadySent
	}
	if e.Folder != FolderDrafts {
		return ErrNotOutgoing
	}
	return nil
}

// MarkSent moves the message to the sent folder.
// PRE: CanSend returned nil
// POST: Status is sent, Folder is sent, LastError cleared
func (e *Email) MarkSent(messageID string, at time.Time) {
	e.Status = StatusSent
	e.Folder = FolderSent
	e.MessageID = messageID
	e.LastError = ""
	e.SentAt = at
}

// MarkFailed keeps the message in drafts with the provider error so it can be retried.
func (e *Email) MarkFailed(reason string) {
	e.Status = StatusFailed
	e.Folder = FolderDrafts
	e.LastError = reason
}
