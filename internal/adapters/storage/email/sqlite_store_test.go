package email

import (
	"context"
	"reflect"
	"testing"
	"time"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/email"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	s := NewSQLiteStore(db)

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e := domain.Email{ID: "e1", Folder: domain.FolderDrafts, From: "office@church.com",
		To: []string{"a@example.org", "b@example.org"}, Subject: "Choir practice", Body: "**Thursday** at 6",
		Status: domain.StatusDraft, Starred: true, CreatedAt: created}
	if err := s.Save(ctx, e); err != nil {
		t.Fatalf("Save: %v", err)
	}
	e.MarkFailed("provider timeout")
	if err := s.Save(ctx, e); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Get(ctx, "e1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got.To, e.To) || !got.Starred || got.Read {
		t.Errorf("Get = %+v", got)
	}
	if got.Status != domain.StatusFailed || got.LastError != "provider timeout" || !got.SentAt.IsZero() {
		t.Errorf("failed state not persisted: %+v", got)
	}
}
