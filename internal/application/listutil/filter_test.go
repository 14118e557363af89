package listutil

import (
	"strconv"
	"strings"
	"testing"
)

type visitorRow struct {
	Name   string
	Email  string
	Status string
	Amount int
}

var rowMatcher = Matcher[visitorRow]{
	Search: []func(visitorRow) string{
		func(v visitorRow) string { return v.Name },
		func(v visitorRow) string { return v.Email },
	},
	Fields: map[string]func(visitorRow) string{
		"status": func(v visitorRow) string { return v.Status },
		"name":   func(v visitorRow) string { return v.Name },
		"amount": func(v visitorRow) string { return strconv.Itoa(v.Amount) },
	},
	Compare: map[string]func(a, b visitorRow) int{
		"amount": func(a, b visitorRow) int { return a.Amount - b.Amount },
	},
}

var rows = []visitorRow{
	{"Grace Okafor", "grace@example.org", "New", 100},
	{"John Mensah", "jm@church.org", "Contacted", 20},
	{"Mary Grace", "mary@example.org", "New", 5},
	{"Peter Obi", "peter obi@example.org", "Converted", 300},
}

func names(rs []visitorRow) string {
	var out []string
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return strings.Join(out, ",")
}

// TestFilter verifies query and discrete filter semantics.
func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		params FilterParams
		want   string
	}{
		{"identity", FilterParams{}, "Grace Okafor,John Mensah,Mary Grace,Peter Obi"},
		{"all sentinel", FilterParams{Filters: map[string]string{"status": All}}, "Grace Okafor,John Mensah,Mary Grace,Peter Obi"},
		{"case-insensitive query", FilterParams{Search: "GRACE"}, "Grace Okafor,Mary Grace"},
		{"query matches any field", FilterParams{Search: "church.org"}, "John Mensah"},
		{"exact status", FilterParams{Filters: map[string]string{"status": "New"}}, "Grace Okafor,Mary Grace"},
		{"status is not substring", FilterParams{Filters: map[string]string{"status": "Ne"}}, ""},
		{"query AND filter", FilterParams{Search: "grace", Filters: map[string]string{"status": "New", "name": "Mary Grace"}}, "Mary Grace"},
		{"whitespace query is not trimmed", FilterParams{Search: " "}, "Grace Okafor,John Mensah,Mary Grace,Peter Obi"},
		{"unknown field never matches", FilterParams{Filters: map[string]string{"campus": "North"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Filter(rows, rowMatcher, tt.params))
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFilter_WhitespaceQueryStillSubstringMatches verifies a lone space only
// matches records containing a space in a searchable field.
func TestFilter_WhitespaceQueryStillSubstringMatches(t *testing.T) {
	in := []visitorRow{{Name: "Solo", Email: "solo@x.org"}, {Name: "Two Words"}}
	got := Filter(in, rowMatcher, FilterParams{Search: " "})
	if len(got) != 1 || got[0].Name != "Two Words" {
		t.Errorf("got %v", got)
	}
}

// TestFilter_Properties verifies subset, order preservation and empty input.
func TestFilter_Properties(t *testing.T) {
	if got := Filter(nil, rowMatcher, FilterParams{Search: "x"}); got == nil || len(got) != 0 {
		t.Errorf("empty collection should give empty non-nil result, got %#v", got)
	}

	params := []FilterParams{
		{Search: "o"},
		{Filters: map[string]string{"status": "New"}},
		{Search: "example", Filters: map[string]string{"status": "Converted"}},
	}
	for _, p := range params {
		got := Filter(rows, rowMatcher, p)
		// every result appears in the source, in source order
		j := 0
		for _, r := range got {
			for j < len(rows) && rows[j] != r {
				j++
			}
			if j == len(rows) {
				t.Fatalf("params %+v: result %v not a subsequence of input", p, got)
			}
			j++
		}
	}
}

// TestFilterParams_IsIdentity verifies detection of the no-op filter state.
func TestFilterParams_IsIdentity(t *testing.T) {
	if !(FilterParams{Filters: map[string]string{"status": All, "fund": ""}}).IsIdentity() {
		t.Error("all/empty filters should be identity")
	}
	if (FilterParams{Search: " "}).IsIdentity() {
		t.Error("whitespace query is not identity")
	}
	active := FilterParams{Filters: map[string]string{"status": All, "fund": "Missions"}}.Active()
	if len(active) != 1 || active["fund"] != "Missions" {
		t.Errorf("active = %v", active)
	}
}

// TestSortBy verifies string and custom comparisons in both directions.
func TestSortBy(t *testing.T) {
	rs := append([]visitorRow(nil), rows...)
	SortBy(rs, rowMatcher, SortParams{Sort: "amount", Dir: "asc"})
	if names(rs) != "Mary Grace,John Mensah,Grace Okafor,Peter Obi" {
		t.Errorf("amount asc = %s", names(rs))
	}
	SortBy(rs, rowMatcher, SortParams{Sort: "name", Dir: "desc"})
	if names(rs) != "Peter Obi,Mary Grace,John Mensah,Grace Okafor" {
		t.Errorf("name desc = %s", names(rs))
	}
	before := names(rs)
	SortBy(rs, rowMatcher, SortParams{Sort: "unknown"})
	if names(rs) != before {
		t.Error("unknown column should not reorder")
	}
}

// TestOptions verifies distinct values in first-seen order.
func TestOptions(t *testing.T) {
	got := Options(rows, rowMatcher, "status")
	if strings.Join(got, ",") != "New,Contacted,Converted" {
		t.Errorf("options = %v", got)
	}
	if Options(rows, rowMatcher, "missing") != nil {
		t.Error("unknown field should give nil")
	}
}
