package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"steward/internal/adapters/storage"
	"steward/internal/application/records"
	domain "steward/internal/domain/account"
)

func TestSQLiteStore_GetByEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	s := NewSQLiteStore(db)

	locked := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := domain.Account{ID: "a1", Email: "Admin@Church.com", Name: "Admin", PasswordHash: "hash",
		Role: domain.RoleAdmin, CreatedAt: time.Now(), FailedLogins: 5, LockedUntil: locked}
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.GetByEmail(ctx, "ADMIN@church.COM ")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != "a1" || got.Email != "admin@church.com" || got.FailedLogins != 5 || !got.LockedUntil.Equal(locked) {
		t.Errorf("account = %+v", got)
	}

	n, err := s.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count = %d, %v", n, err)
	}
	if _, err := s.GetByEmail(ctx, "nobody@church.com"); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
