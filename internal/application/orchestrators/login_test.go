package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"steward/internal/adapters/storage/memory"
	"steward/internal/application/records"
	"steward/internal/domain/account"
)

// TestAllowList verifies the fixed credential pair and case-insensitive emails.
func TestAllowList(t *testing.T) {
	ctx := context.Background()
	list := NewAllowList()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"exact", "admin@church.com", "password", false},
		{"email case ignored", "Admin@Church.COM", "password", false},
		{"password case matters", "admin@church.com", "Password", true},
		{"wrong email", "pastor@church.com", "password", true},
		{"blank", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := list.Authenticate(ctx, tt.email, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Fatalf("err = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if id.ID == "" || id.Email != "admin@church.com" || id.Role != account.RoleAdmin {
				t.Errorf("identity = %+v", id)
			}
		})
	}
}

func newTestAccount(t *testing.T, store *memory.Accounts, email, password string) account.Account {
	t.Helper()
	a, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email: email, Name: "Office", Password: password, Role: account.RoleStaff,
	}, CreateAccountDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return a
}

// TestAccountAuthenticator_Lockout verifies the account locks after repeated failures.
func TestAccountAuthenticator_Lockout(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccounts()
	newTestAccount(t, store, "office@church.com", "correct horse battery")

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	auth := NewAccountAuthenticator(store)
	auth.Now = func() time.Time { return now }

	for i := 0; i < account.MaxFailedLogins; i++ {
		if _, err := auth.Authenticate(ctx, "office@church.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v", i, err)
		}
	}
	_, err := auth.Authenticate(ctx, "office@church.com", "correct horse battery")
	if !errors.Is(err, ErrAccountLocked) || !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("locked err = %v", err)
	}

	now = now.Add(account.LockoutDuration + time.Second)
	id, err := auth.Authenticate(ctx, "OFFICE@church.com", "correct horse battery")
	if err != nil {
		t.Fatalf("after lockout: %v", err)
	}
	if id.Role != account.RoleStaff || id.Name != "Office" {
		t.Errorf("identity = %+v", id)
	}
	stored, _ := store.GetByEmail(ctx, "office@church.com")
	if stored.FailedLogins != 0 || !stored.LockedUntil.IsZero() {
		t.Errorf("failed logins not reset: %+v", stored)
	}
}

// lockedAccounts is an account store whose database cannot be read.
type lockedAccounts struct{ *memory.Accounts }

func (lockedAccounts) GetByEmail(context.Context, string) (account.Account, error) {
	return account.Account{}, errors.New("database is locked")
}

// TestAccountAuthenticator_StoreFailureIsRetryable verifies an outage is not reported as bad credentials.
func TestAccountAuthenticator_StoreFailureIsRetryable(t *testing.T) {
	auth := NewAccountAuthenticator(lockedAccounts{memory.NewAccounts()})
	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "office@church.com", Password: "correct horse battery"}, LoginDeps{Authenticator: auth})
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("outage reported as bad credentials: %v", err)
	}
	if !errors.Is(err, records.ErrUnavailable) {
		t.Errorf("err = %v, want records.ErrUnavailable", err)
	}

	_, err = NewAccountAuthenticator(memory.NewAccounts()).Authenticate(context.Background(), "nobody@church.com", "x")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

// failingAuth simulates an unreachable credential store.
type failingAuth struct{ err error }

func (f failingAuth) Authenticate(context.Context, string, string) (Identity, error) {
	return Identity{}, f.err
}

// TestExecuteLogin verifies blank fields are rejected and outages are not reported as bad credentials.
func TestExecuteLogin(t *testing.T) {
	ctx := context.Background()
	deps := LoginDeps{Authenticator: NewAllowList()}

	if _, err := ExecuteLogin(ctx, LoginInput{Email: "   ", Password: "password"}, deps); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("blank email err = %v", err)
	}
	if _, err := ExecuteLogin(ctx, LoginInput{Email: "admin@church.com"}, deps); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("blank password err = %v", err)
	}
	id, err := ExecuteLogin(ctx, LoginInput{Email: "admin@church.com", Password: "password"}, deps)
	if err != nil || id.ID == "" {
		t.Fatalf("login = %+v, %v", id, err)
	}

	outage := errors.New("database is locked")
	_, err = ExecuteLogin(ctx, LoginInput{Email: "a@b.c", Password: "x"}, LoginDeps{Authenticator: failingAuth{err: outage}})
	if !errors.Is(err, outage) || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("outage err = %v", err)
	}
}

// TestCreateAccount verifies duplicate emails are rejected regardless of case.
func TestCreateAccount(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccounts()
	newTestAccount(t, store, "office@church.com", "correct horse battery")

	_, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Email: "Office@Church.com", Password: "another long password", Role: account.RoleStaff,
	}, CreateAccountDeps{AccountStore: store})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("err = %v, want ErrEmailAlreadyExists", err)
	}

	_, err = ExecuteCreateAccount(ctx, CreateAccountInput{
		Email: "short@church.com", Password: "short", Role: account.RoleStaff,
	}, CreateAccountDeps{AccountStore: store})
	if !errors.Is(err, account.ErrPasswordTooShort) {
		t.Errorf("err = %v, want ErrPasswordTooShort", err)
	}
}

// TestSeedAdmin verifies the admin is only seeded into an empty store.
func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccounts()
	deps := CreateAccountDeps{AccountStore: store}

	if err := ExecuteSeedAdmin(ctx, deps, "admin@church.com", "steward admin password"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := ExecuteSeedAdmin(ctx, deps, "other@church.com", "steward admin password"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("accounts = %d, want 1", n)
	}
	a, err := store.GetByEmail(ctx, "admin@church.com")
	if err != nil || a.Role != account.RoleAdmin {
		t.Errorf("admin = %+v, %v", a, err)
	}
}
