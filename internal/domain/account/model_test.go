package account

import (
	"errors"
	"testing"
	"time"
)

// TestAccount_Validate verifies required email and known role.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		acct    Account
		wantErr error
	}{
		{"valid", Account{Email: "admin@church.com", Role: RoleAdmin}, nil},
		{"empty email", Account{Role: RoleAdmin}, ErrEmptyEmail},
		{"bad role", Account{Email: "a@b.c", Role: "pastor"}, ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.acct.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_Password verifies hashing and verification round trip.
func TestAccount_Password(t *testing.T) {
	var a Account
	if err := a.SetPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := a.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if err := a.CheckPassword("correct horse battery"); err != nil {
		t.Errorf("expected password to match: %v", err)
	}
	if err := a.CheckPassword("wrong password!!"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

// TestAccount_Lockout verifies the account locks after repeated failures and unlocks on reset.
func TestAccount_Lockout(t *testing.T) {
	now := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	var a Account
	for i := 0; i < MaxFailedLogins-1; i++ {
		a.RecordFailedLogin(now)
	}
	if a.IsLocked(now) {
		t.Fatal("locked too early")
	}
	a.RecordFailedLogin(now)
	if !a.IsLocked(now.Add(time.Minute)) {
		t.Fatal("expected lock after max failures")
	}
	if a.IsLocked(now.Add(LockoutDuration + time.Second)) {
		t.Error("lock should expire")
	}
	a.ResetFailedLogins()
	if a.FailedLogins != 0 || a.IsLocked(now) {
		t.Errorf("reset did not clear lock: %+v", a)
	}
}
