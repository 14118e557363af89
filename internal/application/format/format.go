// Package format renders amounts, dates and sizes for display.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Layouts used across the dashboard.
const (
	DateLayout      = "Jan 2, 2006"
	DateInputLayout = "2006-01-02"
)

var printer = message.NewPrinter(language.English)

// Currency renders an amount held in minor units (cents) with the symbol of
// code and digit grouping. Unknown codes fall back to the code itself.
func Currency(minor int64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %s", strings.ToUpper(code), Decimal(minor))
	}
	symbol := printer.Sprint(currency.Symbol(unit))
	if scale, _ := currency.Standard.Rounding(unit); scale == 0 {
		return symbol + humanize.Comma(minor/100)
	}
	return symbol + Decimal(minor)
}

// Decimal renders minor units as a grouped two-place decimal, e.g. 123456 -> "1,234.56".
func Decimal(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(minor/100), minor%100)
}

// ParseAmount reads a user-entered decimal ("1,234.5") into minor units.
// Blank input is zero.
func ParseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("parse amount %q: negative", s)
	}
	return int64(f*100 + 0.5), nil
}

// Date renders t as "Jan 2, 2006", or "" for the zero time.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// DateInput renders t for an <input type="date">.
func DateInput(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateInputLayout)
}

// ParseDate reads an <input type="date"> value. Blank input is the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateInputLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Bytes renders a file size such as "4.2 MB".
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Ago renders t relative to now, e.g. "3 hours ago".
func Ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// Percent renders an already rounded percentage.
func Percent(p int) string {
	return strconv.Itoa(p) + "%"
}
