// Package stats derives summary figures from record collections.
// Every function walks its input from scratch; nothing is cached between calls.
package stats

import (
	"math"
	"sort"
	"time"
)

// Number is the set of amount types a collection can be aggregated over.
type Number interface {
	~int | ~int64 | ~float64
}

// Summary is the total, count and mean of one amount across a collection.
type Summary[N Number] struct {
	Total   N
	Count   int
	Average float64
}

// Share is one slice of a breakdown or split.
type Share[N Number] struct {
	Label   string
	Amount  N
	Count   int
	Percent float64 // Amount / total * 100, exact
	Rounded int     // Percent rounded half-up for display
}

// Part names one accessor of a Split.
type Part[T any, N Number] struct {
	Label  string
	Amount func(T) N
}

// Point is one month of a Monthly series.
type Point[N Number] struct {
	Month time.Time // first instant of the month, UTC
	Total N
	Count int
}

// Label renders the month as "Jan 2006".
func (p Point[N]) Label() string {
	return p.Month.Format("Jan 2006")
}

// Summarize totals amount over items.
// POST: Average is 0 when items is empty; Total is the exact sum in N
func Summarize[T any, N Number](items []T, amount func(T) N) Summary[N] {
	var s Summary[N]
	for _, it := range items {
		s.Total += amount(it)
		s.Count++
	}
	if s.Count > 0 {
		s.Average = float64(s.Total) / float64(s.Count)
	}
	return s
}

// Breakdown groups items by category and reports each group's share of the
// grand total, in first-seen category order.
// POST: every Percent is 0 when the grand total is 0
func Breakdown[T any, N Number](items []T, category func(T) string, amount func(T) N) []Share[N] {
	index := make(map[string]int)
	shares := make([]Share[N], 0)
	var total N
	for _, it := range items {
		label := category(it)
		i, ok := index[label]
		if !ok {
			i = len(shares)
			index[label] = i
			shares = append(shares, Share[N]{Label: label})
		}
		v := amount(it)
		shares[i].Amount += v
		shares[i].Count++
		total += v
	}
	fillPercents(shares, total)
	return shares
}

// Counts is Breakdown with every record weighing one.
func Counts[T any](items []T, category func(T) string) []Share[int] {
	return Breakdown(items, category, func(T) int { return 1 })
}

// Split reports how the combined total of several accessors divides between
// them, e.g. cash versus digital on the same record.
func Split[T any, N Number](items []T, parts ...Part[T, N]) []Share[N] {
	shares := make([]Share[N], len(parts))
	var total N
	for i, p := range parts {
		shares[i].Label = p.Label
		for _, it := range items {
			v := p.Amount(it)
			if v != 0 {
				shares[i].Count++
			}
			shares[i].Amount += v
		}
		total += shares[i].Amount
	}
	fillPercents(shares, total)
	return shares
}

// Monthly totals amount per calendar month in chronological order.
// Months without records are absent; see Fill.
func Monthly[T any, N Number](items []T, date func(T) time.Time, amount func(T) N) []Point[N] {
	byMonth := make(map[time.Time]*Point[N])
	for _, it := range items {
		m := monthOf(date(it))
		p, ok := byMonth[m]
		if !ok {
			p = &Point[N]{Month: m}
			byMonth[m] = p
		}
		p.Total += amount(it)
		p.Count++
	}
	points := make([]Point[N], 0, len(byMonth))
	for _, p := range byMonth {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month.Before(points[j].Month) })
	return points
}

// Fill returns the n months ending with the month of end, taking totals from
// points and zero elsewhere.
func Fill[N Number](points []Point[N], end time.Time, n int) []Point[N] {
	have := make(map[time.Time]Point[N], len(points))
	for _, p := range points {
		have[p.Month] = p
	}
	last := monthOf(end)
	out := make([]Point[N], 0, max(n, 0))
	for i := n - 1; i >= 0; i-- {
		m := last.AddDate(0, -i, 0)
		if p, ok := have[m]; ok {
			out = append(out, p)
			continue
		}
		out = append(out, Point[N]{Month: m})
	}
	return out
}

// Percent returns part / total * 100, or 0 when total is 0.
func Percent[N Number](part, total N) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Round rounds a percentage half-up to a whole number.
func Round(p float64) int {
	return int(math.Floor(p + 0.5))
}

func fillPercents[N Number](shares []Share[N], total N) {
	for i := range shares {
		shares[i].Percent = Percent(shares[i].Amount, total)
		shares[i].Rounded = Round(shares[i].Percent)
	}
}

func monthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
