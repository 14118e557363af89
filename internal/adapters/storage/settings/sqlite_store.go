package settings

import (
	"context"
	"errors"

	"steward/internal/adapters/storage"
	"steward/internal/application/records"
	domain "steward/internal/domain/settings"
)

// SQLiteStore persists the single settings row.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new settings store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scan(row storage.Scanner) (domain.Settings, error) {
	var s domain.Settings
	var updated string
	if err := row.Scan(&s.ChurchName, &s.Address, &s.Phone, &s.Email, &s.CurrencyCode, &s.Timezone, &s.ServiceTimes, &updated); err != nil {
		return domain.Settings{}, err
	}
	var d storage.Decoder
	s.UpdatedAt = d.Time(updated)
	return s, d.Err()
}

// Get returns the saved settings, or the defaults when nothing was saved yet.
func (s *SQLiteStore) Get(ctx context.Context) (domain.Settings, error) {
	st, err := storage.QueryOne(ctx, s.db,
		"SELECT church_name, address, phone, email, currency_code, timezone, service_times, updated_at FROM settings WHERE id = 1", scan)
	if errors.Is(err, records.ErrNotFound) {
		return domain.Defaults(), nil
	}
	return st, err
}

// Save replaces the settings row.
// PRE: st has been validated
func (s *SQLiteStore) Save(ctx context.Context, st domain.Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, church_name, address, phone, email, currency_code, timezone, service_times, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			church_name=excluded.church_name, address=excluded.address, phone=excluded.phone, email=excluded.email,
			currency_code=excluded.currency_code, timezone=excluded.timezone, service_times=excluded.service_times,
			updated_at=excluded.updated_at`,
		st.ChurchName, st.Address, st.Phone, st.Email, st.CurrencyCode, st.Timezone, st.ServiceTimes, storage.FormatTime(st.UpdatedAt),
	)
	return err
}
