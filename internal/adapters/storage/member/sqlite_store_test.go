package member

import (
	"context"
	"errors"
	"testing"
	"time"

	"steward/internal/adapters/storage"
	"steward/internal/application/records"
	domain "steward/internal/domain/member"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStore(db)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	joined := time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)

	m := domain.Member{ID: "m1", Name: "Ruth Adeyemi", Email: "ruth@example.org", Phone: "555-0101",
		Gender: "Female", Ministry: "Choir", Status: domain.StatusActive, Address: "12 Vine St", JoinedOn: joined}
	if err := s.Save(ctx, m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != m.Name || got.Ministry != "Choir" || !got.JoinedOn.Equal(joined) {
		t.Errorf("Get = %+v", got)
	}

	m.Status = domain.StatusInactive
	if err := s.Save(ctx, m); err != nil {
		t.Fatalf("Save update: %v", err)
	}
	all, err := s.List(ctx)
	if err != nil || len(all) != 1 || all[0].Status != domain.StatusInactive {
		t.Errorf("List = %+v, %v", all, err)
	}
}

func TestSQLiteStore_ListOrderedByName(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	for _, name := range []string{"samuel", "Aaron", "Miriam"} {
		if err := s.Save(ctx, domain.Member{ID: name, Name: name, Status: domain.StatusActive}); err != nil {
			t.Fatal(err)
		}
	}
	all, _ := s.List(ctx)
	if all[0].Name != "Aaron" || all[1].Name != "Miriam" || all[2].Name != "samuel" {
		t.Errorf("order = %v, %v, %v", all[0].Name, all[1].Name, all[2].Name)
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("Get err = %v", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("Delete err = %v", err)
	}
}
