package donation

import (
	"context"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/donation"
)

const columns = "id, donor_name, donor_email, amount, fund, channel, status, recurring, date"

// SQLiteStore persists online gifts in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new donation store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scan(row storage.Scanner) (domain.Donation, error) {
	var g domain.Donation
	var recurring int64
	var date string
	if err := row.Scan(&g.ID, &g.DonorName, &g.DonorEmail, &g.Amount, &g.Fund, &g.Channel, &g.Status, &recurring, &date); err != nil {
		return domain.Donation{}, err
	}
	g.Recurring = storage.Bool(recurring)
	var d storage.Decoder
	g.Date = d.Time(date)
	return g, d.Err()
}

// List returns every donation, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Donation, error) {
	return storage.QueryAll(ctx, s.db, "SELECT "+columns+" FROM donation ORDER BY date DESC", scan)
}

// Get retrieves a donation by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Donation, error) {
	return storage.QueryOne(ctx, s.db, "SELECT "+columns+" FROM donation WHERE id = ?", scan, id)
}

// Save inserts or updates a donation.
func (s *SQLiteStore) Save(ctx context.Context, g domain.Donation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO donation (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			donor_name=excluded.donor_name, donor_email=excluded.donor_email, amount=excluded.amount,
			fund=excluded.fund, channel=excluded.channel, status=excluded.status,
			recurring=excluded.recurring, date=excluded.date`,
		g.ID, g.DonorName, g.DonorEmail, g.Amount, g.Fund, g.Channel, g.Status, storage.Flag(g.Recurring), storage.FormatTime(g.Date),
	)
	return err
}

// Delete removes a donation.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return storage.DeleteByID(ctx, s.db, "donation", id)
}
