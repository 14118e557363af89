package email

import (
	"errors"
	"testing"
	"time"
)

// TestEmail_SendLifecycle verifies drafts can be sent once and failures stay retryable.
func TestEmail_SendLifecycle(t *testing.T) {
	e := Email{Folder: FolderDrafts, Status: StatusDraft, To: []string{"a@b.org"}, Subject: "Hi", Body: "Body"}
	if err := e.CanSend(); err != nil {
		t.Fatalf("draft should be sendable: %v", err)
	}

	e.MarkFailed("provider unavailable")
	if err := e.CanSend(); err != nil {
		t.Fatalf("failed draft should be retryable: %v", err)
	}
	if e.LastError == "" {
		t.Error("expected LastError to be kept")
	}

	e.MarkSent("msg-1", time.Now())
	if e.Folder != FolderSent || e.LastError != "" {
		t.Errorf("unexpected state after send: %+v", e)
	}
	if err := e.CanSend(); !errors.Is(err, ErrAlreadySent) {
		t.Errorf("expected ErrAlreadySent, got %v", err)
	}
}

// TestEmail_CanSend_Inbox verifies inbox messages cannot be sent.
func TestEmail_CanSend_Inbox(t *testing.T) {
	e := Email{Folder: FolderInbox, Status: StatusDraft}
	if err := e.CanSend(); !errors.Is(err, ErrNotOutgoing) {
		t.Errorf("expected ErrNotOutgoing, got %v", err)
	}
}
