package format

import (
	"strings"
	"testing"
	"time"
)

// TestCurrency verifies symbol and grouping without depending on exact CLDR spacing.
func TestCurrency(t *testing.T) {
	tests := []struct {
		minor    int64
		code     string
		contains []string
	}{
		{123450, "USD", []string{"$", "1,234.50"}},
		{5, "USD", []string{"0.05"}},
		{99900, "EUR", []string{"€", "999.00"}},
		{100, "NOPE", []string{"NOPE", "1.00"}},
	}
	for _, tt := range tests {
		got := Currency(tt.minor, tt.code)
		for _, want := range tt.contains {
			if !strings.Contains(got, want) {
				t.Errorf("Currency(%d, %q) = %q, want it to contain %q", tt.minor, tt.code, got, want)
			}
		}
	}
}

// TestDecimal verifies minor-unit rendering.
func TestDecimal(t *testing.T) {
	tests := map[int64]string{
		0:         "0.00",
		7:         "0.07",
		123456:    "1,234.56",
		-250:      "-2.50",
		100000000: "1,000,000.00",
	}
	for in, want := range tests {
		if got := Decimal(in); got != want {
			t.Errorf("Decimal(%d) = %q, want %q", in, got, want)
		}
	}
}

// TestParseAmount verifies decimal input is converted to minor units.
func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"12", 1200, false},
		{"1,234.5", 123450, false},
		{" 0.29 ", 29, false},
		{"abc", 0, true},
		{"-3", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAmount(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// TestDates verifies display, input and parse layouts.
func TestDates(t *testing.T) {
	d := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
	if got := Date(d); got != "Mar 8, 2026" {
		t.Errorf("Date = %q", got)
	}
	if got := DateInput(d); got != "2026-03-08" {
		t.Errorf("DateInput = %q", got)
	}
	parsed, err := ParseDate("2026-03-08")
	if err != nil || !parsed.Equal(d) {
		t.Errorf("ParseDate = %v, %v", parsed, err)
	}
	if Date(time.Time{}) != "" || DateInput(time.Time{}) != "" {
		t.Error("zero time should render empty")
	}
	if z, err := ParseDate("  "); err != nil || !z.IsZero() {
		t.Errorf("blank ParseDate = %v, %v", z, err)
	}
	if _, err := ParseDate("08/03/2026"); err == nil {
		t.Error("expected error for wrong layout")
	}
}

// TestBytes verifies humanized sizes.
func TestBytes(t *testing.T) {
	if got := Bytes(0); got != "0 B" {
		t.Errorf("Bytes(0) = %q", got)
	}
	if got := Bytes(4_200_000); got != "4.2 MB" {
		t.Errorf("Bytes(4.2M) = %q", got)
	}
	if got := Bytes(-1); got != "0 B" {
		t.Errorf("Bytes(-1) = %q", got)
	}
}

// TestAgo verifies relative times.
func TestAgo(t *testing.T) {
	if got := Ago(time.Now().Add(-3 * time.Hour)); got != "3 hours ago" {
		t.Errorf("Ago = %q", got)
	}
	if Ago(time.Time{}) != "" {
		t.Error("zero time should render empty")
	}
}

// TestPercent verifies the percent suffix.
func TestPercent(t *testing.T) {
	if got := Percent(42); got != "42%" {
		t.Errorf("Percent = %q", got)
	}
}
