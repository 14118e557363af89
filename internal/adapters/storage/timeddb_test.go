package storage

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestTimedDB_CountsStatements verifies every wrapped call is counted.
func TestTimedDB_CountsStatements(t *testing.T) {
	ctx := context.Background()
	tdb := NewTimedDB(openTimedTestDB(t), time.Hour)

	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	rows, err := tdb.QueryContext(ctx, "SELECT id, val FROM test")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	count := 0
	for rows.Next() {
		count++
	}
	rows.Close()
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}

	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "1").Scan(&val); err != nil || val != "hello" {
		t.Errorf("QueryRowContext = %q, %v", val, err)
	}

	tx, err := tdb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	tx.Rollback()

	st := tdb.Stats()
	if st.Queries != 4 {
		t.Errorf("Queries = %d, want 4", st.Queries)
	}
	if st.Slow != 0 {
		t.Errorf("Slow = %d, want 0 with an hour threshold", st.Slow)
	}
}

// TestTimedDB_SlowQuery verifies statements over the threshold are counted as slow.
func TestTimedDB_SlowQuery(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), time.Nanosecond)
	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES ('a', 'b')"); err != nil {
		t.Fatal(err)
	}
	if tdb.Stats().Slow != 1 {
		t.Errorf("Slow = %d, want 1", tdb.Stats().Slow)
	}
}

// TestTimedDB_ErrorPassthrough verifies SQL errors are returned unchanged and still counted.
func TestTimedDB_ErrorPassthrough(t *testing.T) {
	ctx := context.Background()
	tdb := NewTimedDB(openTimedTestDB(t), 0)

	if _, err := tdb.ExecContext(ctx, "INSERT INTO nonexistent_table VALUES (?)", 1); err == nil {
		t.Error("expected exec error")
	}
	if _, err := tdb.QueryContext(ctx, "SELECT * FROM nonexistent_table"); err == nil {
		t.Error("expected query error")
	}
	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "missing").Scan(&val); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
	if tdb.Stats().Queries != 3 {
		t.Errorf("Queries = %d, want 3", tdb.Stats().Queries)
	}
}

// TestTimedDB_CancelledContext verifies a cancelled context surfaces an error.
func TestTimedDB_CancelledContext(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "x"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

// TestTimedDB_Concurrent verifies counters under concurrent use.
func TestTimedDB_Concurrent(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var n int
			_ = tdb.QueryRowContext(context.Background(), "SELECT count(*) FROM test").Scan(&n)
		}()
	}
	wg.Wait()
	if tdb.Stats().Queries != 20 {
		t.Errorf("Queries = %d, want 20", tdb.Stats().Queries)
	}
}
