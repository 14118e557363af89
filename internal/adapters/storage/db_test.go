package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"steward/internal/application/records"
)

// TestOpen_Migrates verifies every table exists after Open.
func TestOpen_Migrates(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	for _, table := range []string{
		"account", "member", "visitor", "attendance", "tithe", "offering", "donation",
		"sermon", "media_file", "prayer_request", "prayer_update", "email", "settings",
	} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	if err := Migrate(ctx, db); err != nil {
		t.Errorf("second Migrate should be a no-op: %v", err)
	}
	v, err := SchemaVersion(db)
	if err != nil || v < 1 {
		t.Errorf("SchemaVersion = %d, %v", v, err)
	}
}

// TestDeleteByID_NotFound verifies missing rows map to records.ErrNotFound.
func TestDeleteByID_NotFound(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if err := DeleteByID(ctx, db, "member", "nope"); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestTimeColumns verifies time storage round trips and the zero value.
func TestTimeColumns(t *testing.T) {
	at := time.Date(2026, 4, 5, 9, 30, 0, 0, time.FixedZone("WAT", 3600))
	got, err := ParseTime(FormatTime(at))
	if err != nil || !got.Equal(at) {
		t.Errorf("round trip = %v, %v", got, err)
	}
	if FormatTime(time.Time{}) != "" {
		t.Error("zero time should store as empty")
	}
	if z, err := ParseTime(""); err != nil || !z.IsZero() {
		t.Errorf("empty = %v, %v", z, err)
	}
	if _, err := ParseTime("yesterday"); err == nil {
		t.Error("expected parse error")
	}
}

// TestListColumns verifies list encoding.
func TestListColumns(t *testing.T) {
	if EncodeList(nil) != "[]" {
		t.Errorf("EncodeList(nil) = %q", EncodeList(nil))
	}
	in := []string{"hope", "a, comma"}
	out, err := DecodeList(EncodeList(in))
	if err != nil || !reflect.DeepEqual(out, in) {
		t.Errorf("round trip = %v, %v", out, err)
	}

	var d Decoder
	d.List("not json")
	d.Time("also bad")
	if d.Err() == nil {
		t.Error("Decoder should keep the first error")
	}
}
