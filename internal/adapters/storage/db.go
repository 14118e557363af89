package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"steward/internal/application/records"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens the SQLite database at path and applies pending migrations.
// Use ":memory:" for a private in-memory database.
// POST: WAL mode, busy timeout and foreign keys are enabled
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// each connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// SchemaVersion reports the applied migration version.
func SchemaVersion(db *sql.DB) (int64, error) {
	return goose.GetDBVersion(db)
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// QueryAll runs query and scans every row.
// POST: result is non-nil on success
func QueryAll[T any](ctx context.Context, db SQLDB, query string, scan func(Scanner) (T, error), args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// QueryOne runs query and scans a single row. No row is records.ErrNotFound.
func QueryOne[T any](ctx context.Context, db SQLDB, query string, scan func(Scanner) (T, error), args ...any) (T, error) {
	rec, err := scan(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, records.ErrNotFound
	}
	return rec, err
}

// DeleteByID removes the row with id from table. No row is records.ErrNotFound.
// PRE: table is a trusted identifier, never user input
func DeleteByID(ctx context.Context, db SQLDB, table, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

// FormatTime stores t as RFC 3339 in UTC; the zero time is stored as "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime reads a value written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

// EncodeList stores a string list as a JSON array.
func EncodeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(items)
	return string(b)
}

// DecodeList reads a value written by EncodeList.
func DecodeList(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decode stored list: %w", err)
	}
	return out, nil
}

// Bool converts a stored INTEGER flag.
func Bool(n int64) bool { return n != 0 }

// Flag converts a bool for storage.
func Flag(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Decoder converts stored columns and keeps the first error.
type Decoder struct {
	err error
}

// Time parses a stored time.
func (d *Decoder) Time(s string) time.Time {
	t, err := ParseTime(s)
	if err != nil && d.err == nil {
		d.err = err
	}
	return t
}

// List parses a stored list.
func (d *Decoder) List(s string) []string {
	l, err := DecodeList(s)
	if err != nil && d.err == nil {
		d.err = err
	}
	return l
}

// Err returns the first conversion error.
func (d *Decoder) Err() error {
	return d.err
}
