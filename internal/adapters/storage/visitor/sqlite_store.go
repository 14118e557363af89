package visitor

import (
	"context"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/visitor"
)

const columns = "id, name, email, phone, visit_date, status, invited_by, interests, notes"

// SQLiteStore persists visitors in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new visitor store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scan(row storage.Scanner) (domain.Visitor, error) {
	var v domain.Visitor
	var visit, interests string
	if err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &visit, &v.Status, &v.InvitedBy, &interests, &v.Notes); err != nil {
		return domain.Visitor{}, err
	}
	var d storage.Decoder
	v.VisitDate = d.Time(visit)
	v.Interests = d.List(interests)
	return v, d.Err()
}

// List returns every visitor, most recent visit first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Visitor, error) {
	return storage.QueryAll(ctx, s.db, "SELECT "+columns+" FROM visitor ORDER BY visit_date DESC, name", scan)
}

// Get retrieves a visitor by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Visitor, error) {
	return storage.QueryOne(ctx, s.db, "SELECT "+columns+" FROM visitor WHERE id = ?", scan, id)
}

// Save inserts or updates a visitor.
func (s *SQLiteStore) Save(ctx context.Context, v domain.Visitor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitor (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, email=excluded.email, phone=excluded.phone, visit_date=excluded.visit_date,
			status=excluded.status, invited_by=excluded.invited_by, interests=excluded.interests, notes=excluded.notes`,
		v.ID, v.Name, v.Email, v.Phone, storage.FormatTime(v.VisitDate), v.Status, v.InvitedBy,
		storage.EncodeList(v.Interests), v.Notes,
	)
	return err
}

// Delete removes a visitor.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return storage.DeleteByID(ctx, s.db, "visitor", id)
}
