package projections

import (
	"context"
	"time"
)

// Lister is the read side of a record store.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// Period is an inclusive range of days.
type Period struct {
	From time.Time
	To   time.Time
}

// LastMonths returns the n whole calendar months ending with the month of now.
func LastMonths(now time.Time, n int) Period {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return Period{From: first, To: last}
}

// Contains reports whether t falls on a day within the period.
// A zero bound is open.
func (p Period) Contains(t time.Time) bool {
	d := day(t)
	if !p.From.IsZero() && d.Before(day(p.From)) {
		return false
	}
	if !p.To.IsZero() && d.After(day(p.To)) {
		return false
	}
	return true
}

// Months returns how many calendar months the period touches.
func (p Period) Months() int {
	if p.From.IsZero() || p.To.IsZero() || p.To.Before(p.From) {
		return 0
	}
	f, t := p.From.UTC(), p.To.UTC()
	return (t.Year()-f.Year())*12 + int(t.Month()-f.Month()) + 1
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func within[T any](items []T, p Period, date func(T) time.Time) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if p.Contains(date(it)) {
			out = append(out, it)
		}
	}
	return out
}
