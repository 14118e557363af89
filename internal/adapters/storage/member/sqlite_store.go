package member

import (
	"context"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/member"
)

const columns = "id, name, email, phone, gender, ministry, status, address, joined_on"

// SQLiteStore persists members in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scan(row storage.Scanner) (domain.Member, error) {
	var m domain.Member
	var joined string
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Gender, &m.Ministry, &m.Status, &m.Address, &joined); err != nil {
		return domain.Member{}, err
	}
	var d storage.Decoder
	m.JoinedOn = d.Time(joined)
	return m, d.Err()
}

// List returns every member ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Member, error) {
	return storage.QueryAll(ctx, s.db, "SELECT "+columns+" FROM member ORDER BY name COLLATE NOCASE", scan)
}

// Get retrieves a member by ID.
// POST: records.ErrNotFound when no row matches
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Member, error) {
	return storage.QueryOne(ctx, s.db, "SELECT "+columns+" FROM member WHERE id = ?", scan, id)
}

// Save inserts or updates a member.
// PRE: m has been validated
func (s *SQLiteStore) Save(ctx context.Context, m domain.Member) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO member (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, email=excluded.email, phone=excluded.phone, gender=excluded.gender,
			ministry=excluded.ministry, status=excluded.status, address=excluded.address,
			joined_on=excluded.joined_on`,
		m.ID, m.Name, m.Email, m.Phone, m.Gender, m.Ministry, m.Status, m.Address, storage.FormatTime(m.JoinedOn),
	)
	return err
}

// Delete removes a member.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return storage.DeleteByID(ctx, s.db, "member", id)
}
