package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"steward/internal/application/records"
	"steward/internal/domain/account"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountLocked matches ErrInvalidCredentials so callers never reveal that the email exists.
	ErrAccountLocked = fmt.Errorf("%w: account is locked due to too many failed attempts", ErrInvalidCredentials)
)

// Identity is the signed-in user a session marker is written for.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// Authenticator checks a pair of credentials.
// Rejections are errors matching ErrInvalidCredentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (Identity, error)
}

// Credential is one fixed login accepted by an AllowList.
type Credential struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// DefaultCredential is the demo login.
var DefaultCredential = Credential{
	Email:    "admin@church.com",
	Password: "password",
	Name:     "Church Admin",
	Role:     account.RoleAdmin,
}

// AllowList accepts a fixed set of credentials. Emails compare case-insensitively.
type AllowList struct {
	creds map[string]Credential
}

// NewAllowList builds an AllowList. With no credentials it accepts DefaultCredential.
func NewAllowList(creds ...Credential) *AllowList {
	if len(creds) == 0 {
		creds = []Credential{DefaultCredential}
	}
	l := &AllowList{creds: make(map[string]Credential, len(creds))}
	for _, c := range creds {
		l.creds[account.NormalizeEmail(c.Email)] = c
	}
	return l
}

// Authenticate implements Authenticator.
func (l *AllowList) Authenticate(_ context.Context, email, password string) (Identity, error) {
	key := account.NormalizeEmail(email)
	c, ok := l.creds[key]
	if !ok || c.Password != password {
		return Identity{}, ErrInvalidCredentials
	}
	role := c.Role
	if role == "" {
		role = account.RoleAdmin
	}
	return Identity{ID: "allowlist:" + key, Name: c.Name, Email: key, Role: role}, nil
}

// AccountStoreForLogin defines the store interface needed by AccountAuthenticator.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// AccountAuthenticator checks bcrypt hashes of stored accounts and locks an
// account after account.MaxFailedLogins wrong passwords.
type AccountAuthenticator struct {
	Store AccountStoreForLogin
	Now   func() time.Time
}

// NewAccountAuthenticator creates an authenticator over store.
func NewAccountAuthenticator(store AccountStoreForLogin) *AccountAuthenticator {
	return &AccountAuthenticator{Store: store, Now: time.Now}
}

// Authenticate implements Authenticator.
// POST: failed attempts are counted on the account; a success resets them
func (a *AccountAuthenticator) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	acct, err := a.Store.GetByEmail(ctx, email)
	if errors.Is(err, records.ErrNotFound) {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, fmt.Errorf("%w: load account: %w", records.ErrUnavailable, err)
	}

	now := a.Now()
	if acct.IsLocked(now) {
		slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", "locked")
		return Identity{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(password); err != nil {
		acct.RecordFailedLogin(now)
		if err := a.Store.Save(ctx, acct); err != nil {
			slog.Error("auth_event", "event", "save_failed_login", "email", email, "error", err)
		}
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		return Identity{}, ErrInvalidCredentials
	}

	if acct.FailedLogins > 0 || !acct.LockedUntil.IsZero() {
		acct.ResetFailedLogins()
		if err := a.Store.Save(ctx, acct); err != nil {
			return Identity{}, fmt.Errorf("%w: reset failed logins: %w", records.ErrUnavailable, err)
		}
	}
	return Identity{ID: acct.ID, Name: acct.Name, Email: acct.Email, Role: acct.Role}, nil
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Authenticator Authenticator
}

// ExecuteLogin validates credentials and returns the identity to write a session marker for.
// PRE: none; blank fields are rejected like wrong ones
// POST: on success the identity has a non-empty ID
// INVARIANT: every rejection is ErrInvalidCredentials, whichever field was wrong
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (Identity, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return Identity{}, ErrInvalidCredentials
	}

	id, err := deps.Authenticator.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			slog.Info("auth_event", "event", "login_rejected", "email", input.Email)
			return Identity{}, err
		}
		return Identity{}, fmt.Errorf("authenticate: %w", err)
	}
	if id.ID == "" {
		return Identity{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "email", id.Email, "role", id.Role)
	return id, nil
}
