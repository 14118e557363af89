package prayer

import (
	"context"
	"testing"
	"time"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/prayer"
)

func TestSQLiteStore_UpdatesLog(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	s := NewSQLiteStore(db)

	at := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	r := domain.Request{ID: "p1", Name: "Hannah", Request: "Healing for my mother", Category: domain.CategoryHealing,
		Status: domain.StatusPending, Confidential: true, SubmittedAt: at}
	if err := r.AddUpdate("Pastor Ade", "Visited today", domain.StatusPraying, at.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := r.AddUpdate("Pastor Ade", "Discharged", domain.StatusAnswered, at.Add(48*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Confidential || got.Status != domain.StatusAnswered {
		t.Errorf("Get = %+v", got)
	}
	if len(got.Updates) != 2 || got.Updates[0].Note != "Visited today" || got.Updates[1].Note != "Discharged" {
		t.Fatalf("updates = %+v", got.Updates)
	}

	// saving again must not duplicate the log
	if err := s.Save(ctx, got); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	all, err := s.List(ctx)
	if err != nil || len(all) != 1 || len(all[0].Updates) != 2 {
		t.Errorf("List = %+v, %v", all, err)
	}

	if err := s.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM prayer_update").Scan(&n); err != nil || n != 0 {
		t.Errorf("orphaned updates = %d, %v", n, err)
	}
}
