package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/csrf"

	"steward/internal/adapters/http/middleware"
	"steward/internal/application/format"
	"steward/internal/domain/prayer"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pageFiles are the page templates; each is parsed together with the layout and partials.
var pageFiles = []string{
	"login.html",
	"dashboard.html",
	"list.html",
	"form.html",
	"check_in.html",
	"import.html",
	"account.html",
	"finance_report.html",
	"attendance_report.html",
	"settings.html",
	"error.html",
}

// baseFuncs holds every function the templates call. The request-scoped ones
// are placeholders here and are rebound per render.
var baseFuncs = template.FuncMap{
	"csrfField":   func() template.HTML { return "" },
	"csrfToken":   func() string { return "" },
	"currentRole": func() string { return "" },
	"currentName": func() string { return "" },
	"isLoggedIn":  func() bool { return false },
	"hasRole":     func(roles ...string) bool { return false },
	"currency":    func(minor int64) string { return "" },
	"churchName":  func() string { return "" },

	"date":           format.Date,
	"dateInput":      format.DateInput,
	"bytes":          format.Bytes,
	"ago":            format.Ago,
	"percent":        format.Percent,
	"renderMarkdown": renderMarkdown,
	"join":           strings.Join,
	"add":            func(a, b int) int { return a + b },
	"sub":            func(a, b int) int { return a - b },
	"pageQuery":      pageQuery,
	"sortQuery":      sortQuery,
	"barWidth":       barWidth,
	"minor":          func(f float64) int64 { return int64(math.Round(f)) },
	"prayerStatuses": func() []string { return prayer.Statuses },
}

type pages struct {
	byName map[string]*template.Template
}

func loadPages() (*pages, error) {
	base, err := template.New("layout.html").Funcs(baseFuncs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	p := &pages{byName: make(map[string]*template.Template, len(pageFiles))}
	for _, name := range pageFiles {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		p.byName[name] = t
	}
	return p, nil
}

func renderMarkdown(md string) template.HTML {
	html, err := format.Markdown(md)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(html)
}

// pageQuery returns q with page set, for pagination links.
func pageQuery(q url.Values, page int) template.URL {
	next := url.Values{}
	for k, v := range q {
		next[k] = v
	}
	next.Set("page", fmt.Sprint(page))
	return template.URL(next.Encode())
}

// sortQuery returns q sorted by col, flipping the direction when col is already the sort column.
func sortQuery(q url.Values, col, current, dir string) template.URL {
	next := url.Values{}
	for k, v := range q {
		next[k] = v
	}
	next.Set("sort", col)
	next.Set("dir", "asc")
	if col == current && dir == "asc" {
		next.Set("dir", "desc")
	}
	next.Del("page")
	return template.URL(next.Encode())
}

// barWidth is part as a whole percent of peak, for CSS bar charts.
func barWidth(part, peak int64) int {
	if peak <= 0 || part <= 0 {
		return 0
	}
	return int(part * 100 / peak)
}

// renderTemplate renders a page inside the layout with the given status.
// Output is buffered so a template error never leaves a half-written page.
func (s *server) renderTemplate(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	base, ok := s.pages.byName[name]
	if !ok {
		internalError(w, fmt.Errorf("unknown template %s", name))
		return
	}
	tpl, err := base.Clone()
	if err != nil {
		internalError(w, err)
		return
	}

	marker, loggedIn := middleware.MarkerFromContext(r.Context())
	church := s.settings(r.Context())
	tpl.Funcs(template.FuncMap{
		"csrfField":   func() template.HTML { return csrf.TemplateField(r) },
		"csrfToken":   func() string { return csrf.Token(r) },
		"currentRole": func() string { return marker.Role },
		"currentName": func() string { return marker.Name },
		"isLoggedIn":  func() bool { return loggedIn },
		"hasRole":     func(roles ...string) bool { return middleware.HasRole(r.Context(), roles...) },
		"currency":    func(minor int64) string { return format.Currency(minor, church.CurrencyCode) },
		"churchName":  func() string { return church.ChurchName },
	})

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		internalError(w, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
