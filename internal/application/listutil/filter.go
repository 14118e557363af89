package listutil

import (
	"sort"
	"strings"
)

// All is the discrete-filter value meaning "no constraint on this field".
const All = "all"

// FilterParams carries search and filter parameters.
type FilterParams struct {
	Search  string            // free-text query, matched case-insensitively as a substring
	Filters map[string]string // exact-match filters keyed by field name
}

// IsIdentity reports whether p constrains nothing.
func (p FilterParams) IsIdentity() bool {
	if p.Search != "" {
		return false
	}
	for _, v := range p.Filters {
		if v != "" && v != All {
			return false
		}
	}
	return true
}

// Active returns the filters that actually constrain a field.
func (p FilterParams) Active() map[string]string {
	active := make(map[string]string, len(p.Filters))
	for k, v := range p.Filters {
		if v != "" && v != All {
			active[k] = v
		}
	}
	return active
}

// Matcher describes how one record type is searched and filtered.
// Search accessors are OR-ed for the free-text query; Fields back the
// discrete filters and sort columns. Compare overrides the string ordering
// of a sort column (amounts, dates).
type Matcher[T any] struct {
	Search  []func(T) string
	Fields  map[string]func(T) string
	Compare map[string]func(a, b T) int
}

// Match decides whether rec belongs to the visible subset.
// A record matches iff the query is empty or is a substring of at least one
// searchable field (both lower-cased), and every active discrete filter
// equals the record's field exactly. A filter on an unknown field never matches.
func (m Matcher[T]) Match(rec T, p FilterParams) bool {
	if p.Search != "" && !m.matchesQuery(rec, strings.ToLower(p.Search)) {
		return false
	}
	for field, want := range p.Filters {
		if want == "" || want == All {
			continue
		}
		get, ok := m.Fields[field]
		if !ok || get(rec) != want {
			return false
		}
	}
	return true
}

func (m Matcher[T]) matchesQuery(rec T, query string) bool {
	for _, get := range m.Search {
		if strings.Contains(strings.ToLower(get(rec)), query) {
			return true
		}
	}
	return false
}

// Filter returns the records of items matching p, in their original order.
// POST: result is never nil; len(result) <= len(items)
func Filter[T any](items []T, m Matcher[T], p FilterParams) []T {
	out := make([]T, 0, len(items))
	for _, rec := range items {
		if m.Match(rec, p) {
			out = append(out, rec)
		}
	}
	return out
}

// SortBy orders items in place by the named column. Unknown or empty
// columns leave the order untouched. The sort is stable.
func SortBy[T any](items []T, m Matcher[T], s SortParams) {
	cmp, ok := m.Compare[s.Sort]
	if !ok {
		get, found := m.Fields[s.Sort]
		if !found {
			return
		}
		cmp = func(a, b T) int { return strings.Compare(get(a), get(b)) }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if s.Dir == "desc" {
			return cmp(items[i], items[j]) > 0
		}
		return cmp(items[i], items[j]) < 0
	})
}

// Options returns the distinct non-empty values of field across items, in
// first-seen order, for building filter drop-downs.
func Options[T any](items []T, m Matcher[T], field string) []string {
	get, ok := m.Fields[field]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, rec := range items {
		v := get(rec)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
