package prayer

import (
	"errors"
	"testing"
	"time"
)

// TestRequest_AddUpdate verifies the update log grows and status changes are applied.
func TestRequest_AddUpdate(t *testing.T) {
	r := Request{Name: "Esther", Request: "Healing for my mother", Category: CategoryHealing, Status: StatusPending}
	now := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	if err := r.AddUpdate("Pastor John", "Visited the family", StatusPraying, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.AddUpdate("Pastor John", "She is recovering", "", now.Add(time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Updates) != 2 {
		t.Fatalf("updates=%d want 2", len(r.Updates))
	}
	if r.Status != StatusPraying {
		t.Errorf("status=%q want %q", r.Status, StatusPraying)
	}
	if r.Updates[1].Note != "She is recovering" {
		t.Errorf("unexpected order: %+v", r.Updates)
	}
}

// TestRequest_AddUpdate_Rejects verifies blank notes and unknown statuses leave the request untouched.
func TestRequest_AddUpdate_Rejects(t *testing.T) {
	r := Request{Status: StatusPending}
	if err := r.AddUpdate("a", "  ", "", time.Now()); !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("expected ErrEmptyUpdate, got %v", err)
	}
	if err := r.AddUpdate("a", "note", "Closed", time.Now()); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if len(r.Updates) != 0 || r.Status != StatusPending {
		t.Errorf("request mutated on error: %+v", r)
	}
}
