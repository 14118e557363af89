package offering

import (
	"context"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/offering"
)

const columns = "id, service_type, date, cash_amount, digital_amount, counted_by, notes"

// SQLiteStore persists offerings in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new offering store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scan(row storage.Scanner) (domain.Offering, error) {
	var o domain.Offering
	var date string
	if err := row.Scan(&o.ID, &o.ServiceType, &date, &o.CashAmount, &o.DigitalAmount, &o.CountedBy, &o.Notes); err != nil {
		return domain.Offering{}, err
	}
	var d storage.Decoder
	o.Date = d.Time(date)
	return o, d.Err()
}

// List returns every offering, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Offering, error) {
	return storage.QueryAll(ctx, s.db, "SELECT "+columns+" FROM offering ORDER BY date DESC", scan)
}

// Get retrieves an offering by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Offering, error) {
	return storage.QueryOne(ctx, s.db, "SELECT "+columns+" FROM offering WHERE id = ?", scan, id)
}

// Save inserts or updates an offering.
func (s *SQLiteStore) Save(ctx context.Context, o domain.Offering) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO offering (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			service_type=excluded.service_type, date=excluded.date, cash_amount=excluded.cash_amount,
			digital_amount=excluded.digital_amount, counted_by=excluded.counted_by, notes=excluded.notes`,
		o.ID, o.ServiceType, storage.FormatTime(o.Date), o.CashAmount, o.DigitalAmount, o.CountedBy, o.Notes,
	)
	return err
}

// Delete removes an offering.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return storage.DeleteByID(ctx, s.db, "offering", id)
}
