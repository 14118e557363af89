package attendance

import (
	"context"
	"time"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/attendance"
)

const columns = "id, service_date, service_type, person_id, person_name, kind, checked_in_at"

// SQLiteStore persists attendance check-ins in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scan(row storage.Scanner) (domain.Attendance, error) {
	var a domain.Attendance
	var date, checked string
	if err := row.Scan(&a.ID, &date, &a.ServiceType, &a.PersonID, &a.PersonName, &a.Kind, &checked); err != nil {
		return domain.Attendance{}, err
	}
	var d storage.Decoder
	a.ServiceDate = d.Time(date)
	a.CheckedInAt = d.Time(checked)
	return a, d.Err()
}

// List returns every check-in, latest service first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Attendance, error) {
	return storage.QueryAll(ctx, s.db, "SELECT "+columns+" FROM attendance ORDER BY service_date DESC, checked_in_at DESC", scan)
}

// ListForService returns the check-ins of one service on one day.
// PRE: day is truncated to midnight UTC
func (s *SQLiteStore) ListForService(ctx context.Context, serviceType string, day time.Time) ([]domain.Attendance, error) {
	return storage.QueryAll(ctx, s.db,
		"SELECT "+columns+" FROM attendance WHERE service_type = ? AND service_date >= ? AND service_date < ?",
		scan, serviceType, storage.FormatTime(day), storage.FormatTime(day.AddDate(0, 0, 1)))
}

// Get retrieves a check-in by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Attendance, error) {
	return storage.QueryOne(ctx, s.db, "SELECT "+columns+" FROM attendance WHERE id = ?", scan, id)
}

// Save inserts or updates a check-in.
func (s *SQLiteStore) Save(ctx context.Context, a domain.Attendance) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			service_date=excluded.service_date, service_type=excluded.service_type, person_id=excluded.person_id,
			person_name=excluded.person_name, kind=excluded.kind, checked_in_at=excluded.checked_in_at`,
		a.ID, storage.FormatTime(a.ServiceDate), a.ServiceType, a.PersonID, a.PersonName, a.Kind, storage.FormatTime(a.CheckedInAt),
	)
	return err
}

// Delete removes a check-in.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return storage.DeleteByID(ctx, s.db, "attendance", id)
}
