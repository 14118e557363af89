package account

import (
	"context"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/account"
)

const columns = "id, email, name, password_hash, role, created_at, failed_logins, locked_until"

// SQLiteStore persists back-office accounts in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scan(row storage.Scanner) (domain.Account, error) {
	var a domain.Account
	var created, locked string
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &created, &a.FailedLogins, &locked); err != nil {
		return domain.Account{}, err
	}
	var d storage.Decoder
	a.CreatedAt = d.Time(created)
	a.LockedUntil = d.Time(locked)
	return a, d.Err()
}

// GetByEmail retrieves an account by email, ignoring case.
// POST: records.ErrNotFound when no row matches
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return storage.QueryOne(ctx, s.db, "SELECT "+columns+" FROM account WHERE email = ? COLLATE NOCASE", scan, domain.NormalizeEmail(email))
}

// Count returns the number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&n)
	return n, err
}

// Save inserts or updates an account.
// PRE: a has been validated
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email=excluded.email, name=excluded.name, password_hash=excluded.password_hash, role=excluded.role,
			failed_logins=excluded.failed_logins, locked_until=excluded.locked_until`,
		a.ID, domain.NormalizeEmail(a.Email), a.Name, a.PasswordHash, a.Role,
		storage.FormatTime(a.CreatedAt), a.FailedLogins, storage.FormatTime(a.LockedUntil),
	)
	return err
}
