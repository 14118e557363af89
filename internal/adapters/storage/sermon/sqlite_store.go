package sermon

import (
	"context"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/sermon"
)

const columns = "id, title, preacher, date, series, scripture, tags, notes, media_url, status"

// SQLiteStore persists sermons in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new sermon store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scan(row storage.Scanner) (domain.Sermon, error) {
	var s domain.Sermon
	var date, tags string
	if err := row.Scan(&s.ID, &s.Title, &s.Preacher, &date, &s.Series, &s.Scripture, &tags, &s.Notes, &s.MediaURL, &s.Status); err != nil {
		return domain.Sermon{}, err
	}
	var d storage.Decoder
	s.Date = d.Time(date)
	s.Tags = d.List(tags)
	return s, d.Err()
}

// List returns every sermon, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Sermon, error) {
	return storage.QueryAll(ctx, s.db, "SELECT "+columns+" FROM sermon ORDER BY date DESC", scan)
}

// Get retrieves a sermon by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Sermon, error) {
	return storage.QueryOne(ctx, s.db, "SELECT "+columns+" FROM sermon WHERE id = ?", scan, id)
}

// Save inserts or updates a sermon.
func (s *SQLiteStore) Save(ctx context.Context, rec domain.Sermon) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sermon (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, preacher=excluded.preacher, date=excluded.date, series=excluded.series,
			scripture=excluded.scripture, tags=excluded.tags, notes=excluded.notes,
			media_url=excluded.media_url, status=excluded.status`,
		rec.ID, rec.Title, rec.Preacher, storage.FormatTime(rec.Date), rec.Series, rec.Scripture,
		storage.EncodeList(rec.Tags), rec.Notes, rec.MediaURL, rec.Status,
	)
	return err
}

// Delete removes a sermon.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return storage.DeleteByID(ctx, s.db, "sermon", id)
}
