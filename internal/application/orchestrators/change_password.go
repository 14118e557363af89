package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"steward/internal/application/records"
	"steward/internal/domain/account"
	"steward/internal/domain/validation"
)

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	Email           string // the signed-in account
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	AccountStore AccountStoreForLogin
}

// Password change errors.
var (
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
	ErrNewPasswordSame      = errors.New("new password must be different from current password")
	// ErrNoAccountStore means logins come from a fixed allow list that cannot be edited.
	ErrNoAccountStore = errors.New("passwords are managed by the server configuration")
)

// ExecuteChangePassword validates the current password and updates to the new one.
// PRE: Email names the signed-in account
// POST: Password hash is replaced and failed logins are reset
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if deps.AccountStore == nil {
		return ErrNoAccountStore
	}
	errs := validation.Errors{}
	errs.Required("current_password", input.CurrentPassword)
	errs.Required("new_password", input.NewPassword)
	if err := errs.Err(); err != nil {
		return err
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, account.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return ErrNoAccountStore
		}
		return fmt.Errorf("%w: load account: %w", records.ErrUnavailable, err)
	}

	if err := acct.CheckPassword(input.CurrentPassword); err != nil {
		slog.Info("auth_event", "event", "password_change_rejected", "email", acct.Email)
		return ErrCurrentPasswordWrong
	}
	if input.CurrentPassword == input.NewPassword {
		return ErrNewPasswordSame
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		if errors.Is(err, account.ErrPasswordTooShort) {
			return validation.Errors{"new_password": fmt.Sprintf("must be at least %d characters", account.MinPassword)}
		}
		return err
	}
	acct.ResetFailedLogins()

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return fmt.Errorf("%w: save account: %w", records.ErrUnavailable, err)
	}

	slog.Info("auth_event", "event", "password_changed", "email", acct.Email)
	return nil
}
