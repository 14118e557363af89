package prayer

import (
	"context"
	"fmt"

	"steward/internal/adapters/storage"
	domain "steward/internal/domain/prayer"
)

const columns = "id, name, email, request, category, status, confidential, submitted_at"

// SQLiteStore persists prayer requests and their update logs in SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new prayer request store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scan(row storage.Scanner) (domain.Request, error) {
	var r domain.Request
	var confidential int64
	var submitted string
	if err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Request, &r.Category, &r.Status, &confidential, &submitted); err != nil {
		return domain.Request{}, err
	}
	r.Confidential = storage.Bool(confidential)
	var d storage.Decoder
	r.SubmittedAt = d.Time(submitted)
	return r, d.Err()
}

type loggedUpdate struct {
	requestID string
	update    domain.Update
}

func scanUpdate(row storage.Scanner) (loggedUpdate, error) {
	var u loggedUpdate
	var at string
	if err := row.Scan(&u.requestID, &at, &u.update.Author, &u.update.Note); err != nil {
		return loggedUpdate{}, err
	}
	var d storage.Decoder
	u.update.At = d.Time(at)
	return u, d.Err()
}

// List returns every request with its updates, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Request, error) {
	reqs, err := storage.QueryAll(ctx, s.db, "SELECT "+columns+" FROM prayer_request ORDER BY submitted_at DESC", scan)
	if err != nil {
		return nil, err
	}
	updates, err := storage.QueryAll(ctx, s.db, "SELECT request_id, at, author, note FROM prayer_update ORDER BY request_id, seq", scanUpdate)
	if err != nil {
		return nil, err
	}
	byID := make(map[string][]domain.Update)
	for _, u := range updates {
		byID[u.requestID] = append(byID[u.requestID], u.update)
	}
	for i := range reqs {
		reqs[i].Updates = byID[reqs[i].ID]
	}
	return reqs, nil
}

// Get retrieves a request and its update log.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Request, error) {
	r, err := storage.QueryOne(ctx, s.db, "SELECT "+columns+" FROM prayer_request WHERE id = ?", scan, id)
	if err != nil {
		return domain.Request{}, err
	}
	updates, err := storage.QueryAll(ctx, s.db, "SELECT request_id, at, author, note FROM prayer_update WHERE request_id = ? ORDER BY seq", scanUpdate, id)
	if err != nil {
		return domain.Request{}, err
	}
	for _, u := range updates {
		r.Updates = append(r.Updates, u.update)
	}
	return r, nil
}

// Save writes the request and replaces its update log in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, r domain.Request) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO prayer_request (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, email=excluded.email, request=excluded.request, category=excluded.category,
			status=excluded.status, confidential=excluded.confidential, submitted_at=excluded.submitted_at`,
		r.ID, r.Name, r.Email, r.Request, r.Category, r.Status, storage.Flag(r.Confidential), storage.FormatTime(r.SubmittedAt),
	)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM prayer_update WHERE request_id = ?", r.ID); err != nil {
		return err
	}
	for i, u := range r.Updates {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO prayer_update (request_id, seq, at, author, note) VALUES (?, ?, ?, ?, ?)",
			r.ID, i, storage.FormatTime(u.At), u.Author, u.Note)
		if err != nil {
			return fmt.Errorf("save prayer update %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Delete removes a request; its updates cascade.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return storage.DeleteByID(ctx, s.db, "prayer_request", id)
}
