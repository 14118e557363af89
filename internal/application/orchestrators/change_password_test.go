package orchestrators

import (
	"context"
	"errors"
	"testing"

	"steward/internal/adapters/storage/memory"
	"steward/internal/domain/account"
	"steward/internal/domain/validation"
)

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccounts()
	if err := ExecuteSeedAdmin(ctx, CreateAccountDeps{AccountStore: store}, "pastor@church.org", "first-password-123"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	deps := ChangePasswordDeps{AccountStore: store}

	tests := []struct {
		name    string
		input   ChangePasswordInput
		wantErr error
	}{
		{"wrong current", ChangePasswordInput{Email: "pastor@church.org", CurrentPassword: "nope", NewPassword: "second-password-456"}, ErrCurrentPasswordWrong},
		{"same password", ChangePasswordInput{Email: "pastor@church.org", CurrentPassword: "first-password-123", NewPassword: "first-password-123"}, ErrNewPasswordSame},
		{"too short", ChangePasswordInput{Email: "pastor@church.org", CurrentPassword: "first-password-123", NewPassword: "short"}, validation.ErrInvalid},
		{"blank", ChangePasswordInput{Email: "pastor@church.org"}, validation.ErrInvalid},
		{"unknown account", ChangePasswordInput{Email: "admin@church.com", CurrentPassword: "password", NewPassword: "second-password-456"}, ErrNoAccountStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ExecuteChangePassword(ctx, tt.input, deps); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := ExecuteChangePassword(ctx, ChangePasswordInput{
		Email: "Pastor@Church.org", CurrentPassword: "first-password-123", NewPassword: "second-password-456",
	}, deps); err != nil {
		t.Fatalf("change: %v", err)
	}
	acct, _ := store.GetByEmail(ctx, "pastor@church.org")
	if err := acct.CheckPassword("second-password-456"); err != nil {
		t.Error("new password not stored")
	}
	if err := acct.CheckPassword("first-password-123"); !errors.Is(err, account.ErrWrongPassword) {
		t.Error("old password still accepted")
	}
}

func TestChangePassword_AllowListMode(t *testing.T) {
	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{Email: "admin@church.com"}, ChangePasswordDeps{})
	if !errors.Is(err, ErrNoAccountStore) {
		t.Errorf("err = %v, want ErrNoAccountStore", err)
	}
}
