package media

import (
	"context"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/media"
)

const columns = "id, title, category, url, size, mime_type, tags, uploaded_by, uploaded_at"

// SQLiteStore persists media library entries in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new media store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scan(row storage.Scanner) (domain.File, error) {
	var f domain.File
	var tags, uploaded string
	if err := row.Scan(&f.ID, &f.Title, &f.Category, &f.URL, &f.Size, &f.MimeType, &tags, &f.UploadedBy, &uploaded); err != nil {
		return domain.File{}, err
	}
	var d storage.Decoder
	f.Tags = d.List(tags)
	f.UploadedAt = d.Time(uploaded)
	return f, d.Err()
}

// List returns every file, most recent upload first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.File, error) {
	return storage.QueryAll(ctx, s.db, "SELECT "+columns+" FROM media_file ORDER BY uploaded_at DESC", scan)
}

// Get retrieves a file by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.File, error) {
	return storage.QueryOne(ctx, s.db, "SELECT "+columns+" FROM media_file WHERE id = ?", scan, id)
}

// Save inserts or updates a file entry.
func (s *SQLiteStore) Save(ctx context.Context, f domain.File) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media_file (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, category=excluded.category, url=excluded.url, size=excluded.size,
			mime_type=excluded.mime_type, tags=excluded.tags, uploaded_by=excluded.uploaded_by,
			uploaded_at=excluded.uploaded_at`,
		f.ID, f.Title, f.Category, f.URL, f.Size, f.MimeType, storage.EncodeList(f.Tags), f.UploadedBy, storage.FormatTime(f.UploadedAt),
	)
	return err
}

// Delete removes a file entry. The stored object itself is left in place.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return storage.DeleteByID(ctx, s.db, "media_file", id)
}
