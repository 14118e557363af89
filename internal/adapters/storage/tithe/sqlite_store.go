package tithe

import (
	"context"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/tithe"
)

const columns = "id, member_id, member_name, amount, method, date, reference, notes"

// SQLiteStore persists tithes in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new tithe store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scan(row storage.Scanner) (domain.Tithe, error) {
	var t domain.Tithe
	var date string
	if err := row.Scan(&t.ID, &t.MemberID, &t.MemberName, &t.Amount, &t.Method, &date, &t.Reference, &t.Notes); err != nil {
		return domain.Tithe{}, err
	}
	var d storage.Decoder
	t.Date = d.Time(date)
	return t, d.Err()
}

// List returns every tithe, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Tithe, error) {
	return storage.QueryAll(ctx, s.db, "SELECT "+columns+" FROM tithe ORDER BY date DESC", scan)
}

// Get retrieves a tithe by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Tithe, error) {
	return storage.QueryOne(ctx, s.db, "SELECT "+columns+" FROM tithe WHERE id = ?", scan, id)
}

// Save inserts or updates a tithe.
func (s *SQLiteStore) Save(ctx context.Context, t domain.Tithe) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tithe (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			member_id=excluded.member_id, member_name=excluded.member_name, amount=excluded.amount,
			method=excluded.method, date=excluded.date, reference=excluded.reference, notes=excluded.notes`,
		t.ID, t.MemberID, t.MemberName, t.Amount, t.Method, storage.FormatTime(t.Date), t.Reference, t.Notes,
	)
	return err
}

// Delete removes a tithe.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return storage.DeleteByID(ctx, s.db, "tithe", id)
}
