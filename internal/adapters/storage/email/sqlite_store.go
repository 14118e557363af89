package email

import (
	"context"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/email"
)

const columns = "id, folder, sender, recipients, subject, body, status, is_read, starred, last_error, message_id, created_at, sent_at"

// SQLiteStore persists mailbox messages in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new email store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scan(row storage.Scanner) (domain.Email, error) {
	var e domain.Email
	var to, created, sent string
	var read, starred int64
	if err := row.Scan(&e.ID, &e.Folder, &e.From, &to, &e.Subject, &e.Body, &e.Status, &read, &starred,
		&e.LastError, &e.MessageID, &created, &sent); err != nil {
		return domain.Email{}, err
	}
	e.Read = storage.Bool(read)
	e.Starred = storage.Bool(starred)
	var d storage.Decoder
	e.To = d.List(to)
	e.CreatedAt = d.Time(created)
	e.SentAt = d.Time(sent)
	return e, d.Err()
}

// List returns every message, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Email, error) {
	return storage.QueryAll(ctx, s.db, "SELECT "+columns+" FROM email ORDER BY created_at DESC", scan)
}

// Get retrieves a message by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Email, error) {
	return storage.QueryOne(ctx, s.db, "SELECT "+columns+" FROM email WHERE id = ?", scan, id)
}

// Save inserts or updates a message.
func (s *SQLiteStore) Save(ctx context.Context, e domain.Email) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO email (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			folder=excluded.folder, sender=excluded.sender, recipients=excluded.recipients,
			subject=excluded.subject, body=excluded.body, status=excluded.status, is_read=excluded.is_read,
			starred=excluded.starred, last_error=excluded.last_error, message_id=excluded.message_id,
			created_at=excluded.created_at, sent_at=excluded.sent_at`,
		e.ID, e.Folder, e.From, storage.EncodeList(e.To), e.Subject, e.Body, e.Status,
		storage.Flag(e.Read), storage.Flag(e.Starred), e.LastError, e.MessageID,
		storage.FormatTime(e.CreatedAt), storage.FormatTime(e.SentAt),
	)
	return err
}

// Delete removes a message.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return storage.DeleteByID(ctx, s.db, "email", id)
}
