package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"steward/internal/application/form"
	"steward/internal/application/format"
	"steward/internal/application/listutil"
	"steward/internal/application/records"
	"steward/internal/domain/validation"
)

// column is one list column. Key names a matcher field when Sortable.
// Money columns are formatted in the church currency.
type column[T any] struct {
	Key      string
	Label    string
	Value    func(T) string
	Money    func(T) int64
	Sortable bool
}

// filter is one discrete filter drop-down. Nil Options are collected from the records.
type filter struct {
	Key     string
	Label   string
	Options []string
}

// card is one summary tile above a list.
type card struct {
	Label  string      `json:"label"`
	Value  string      `json:"value"`
	Hint   string      `json:"hint,omitempty"`
	Shares []shareView `json:"shares,omitempty"`
}

type shareView struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Percent int    `json:"percent"`
}

// action is a per-row POST button such as Convert or Send.
type action[T any] struct {
	Label string
	Path  string // formatted with the record id
	Show  func(T) bool
}

// resource serves the list, form and JSON routes of one record type.
type resource[T any, P records.Entity[T]] struct {
	s        *server
	name     string // URL segment
	title    string
	singular string
	svc      *records.Service[T, P]
	columns  []column[T]
	filters  []filter
	fields   []form.Field
	sort     listutil.SortParams // applied when the request names no column
	actions  []action[T]
	guard    func(http.Handler) http.Handler

	// values renders a record into form inputs for editing.
	values func(T) map[string]string
	// build applies submitted values onto base (the zero value on create).
	// Parse failures are returned as validation.Errors.
	build func(base T, v form.Values) (T, error)
	// cards summarises the filtered collection.
	cards func(items []T, money func(int64) string) []card
	// create replaces svc.Create when a workflow owns record creation.
	create func(ctx context.Context, r *http.Request, rec T) (T, error)
	// update replaces svc.Update in the same way.
	update func(ctx context.Context, r *http.Request, id string, rec T) (T, error)
}

// register adds the HTML and JSON routes of the resource to mux.
func (res *resource[T, P]) register(mux *http.ServeMux) {
	handle := func(pattern string, h http.HandlerFunc) {
		if res.guard != nil {
			mux.Handle(pattern, res.guard(h))
			return
		}
		mux.Handle(pattern, h)
	}
	base := "/" + res.name
	api := "/api/" + res.name

	handle("GET "+base, res.handleList)
	handle("GET "+base+"/new", res.handleNew)
	handle("GET "+base+"/{id}/edit", res.handleEdit)
	handle("POST "+base, res.handleCreate)
	handle("POST "+base+"/{id}", res.handleUpdate)
	handle("POST "+base+"/{id}/delete", res.handleDelete)

	handle("GET "+api, res.handleList)
	handle("POST "+api, res.handleCreate)
	handle("GET "+api+"/{id}", res.handleGet)
	handle("PUT "+api+"/{id}", res.handleUpdate)
	handle("DELETE "+api+"/{id}", res.handleDelete)
}

// --- List ---

type columnView struct {
	Key      string
	Label    string
	Sortable bool
}

type rowView struct {
	ID      string
	Cells   []string
	Actions []actionView
}

type actionView struct {
	Label string
	Path  string
}

type filterView struct {
	Key      string
	Label    string
	Options  []string
	Selected string
}

// listView is the data of list.html.
type listView struct {
	Resource string
	Title    string
	Singular string
	Columns  []columnView
	Rows     []rowView
	Filters  []filterView
	Cards    []card
	Search   string
	Sort     listutil.SortParams
	Page     listutil.PageInfo
	PerPage  []int
	Query    url.Values
	Extra    any
}

// listResponse is the JSON shape of GET /api/{resource}.
type listResponse[T any] struct {
	Items   []T    `json:"items"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Cards   []card `json:"cards"`
}

func (res *resource[T, P]) sortable() []string {
	var cols []string
	for _, c := range res.columns {
		if c.Sortable {
			cols = append(cols, c.Key)
		}
	}
	return cols
}

func (res *resource[T, P]) filterKeys() []string {
	keys := make([]string, len(res.filters))
	for i, f := range res.filters {
		keys[i] = f.Key
	}
	return keys
}

func (res *resource[T, P]) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	params := listutil.ParseListParams(q, res.sortable(), res.filterKeys())
	if params.Sort == "" {
		params.SortParams = res.sort
	}

	all, err := res.svc.All(ctx)
	if err != nil {
		res.s.writeError(w, r, err)
		return
	}
	items := listutil.Filter(all, res.svc.Matcher(), params.FilterParams)
	listutil.SortBy(items, res.svc.Matcher(), params.SortParams)

	money := res.s.money(ctx)
	var cards []card
	if res.cards != nil {
		cards = res.cards(items, money)
	}
	page := listutil.NewPageInfo(params.Page, params.PerPage, len(items))
	visible := listutil.Paginate(items, page)

	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, listResponse[T]{
			Items:   visible,
			Total:   page.Total,
			Page:    page.Page,
			PerPage: page.PerPage,
			Cards:   cards,
		})
		return
	}

	view := listView{
		Resource: res.name,
		Title:    res.title,
		Singular: res.singular,
		Cards:    cards,
		Search:   params.Search,
		Sort:     params.SortParams,
		Page:     page,
		PerPage:  listutil.PerPageOptions,
		Query:    q,
	}
	for _, c := range res.columns {
		view.Columns = append(view.Columns, columnView{Key: c.Key, Label: c.Label, Sortable: c.Sortable})
	}
	for _, f := range res.filters {
		opts := f.Options
		if opts == nil {
			opts = listutil.Options(all, res.svc.Matcher(), f.Key)
		}
		view.Filters = append(view.Filters, filterView{Key: f.Key, Label: f.Label, Options: opts, Selected: params.Filters[f.Key]})
	}
	for _, rec := range visible {
		view.Rows = append(view.Rows, res.row(rec, money))
	}
	if res.name == "media" {
		view.Extra = mediaUploadView()
	}
	res.s.renderTemplate(w, r, "list.html", http.StatusOK, view)
}

func (res *resource[T, P]) row(rec T, money func(int64) string) rowView {
	id := P(&rec).Key()
	row := rowView{ID: id, Cells: make([]string, len(res.columns))}
	for i, c := range res.columns {
		if c.Money != nil {
			row.Cells[i] = money(c.Money(rec))
			continue
		}
		row.Cells[i] = c.Value(rec)
	}
	for _, a := range res.actions {
		if a.Show == nil || a.Show(rec) {
			row.Actions = append(row.Actions, actionView{Label: a.Label, Path: fmt.Sprintf(a.Path, id)})
		}
	}
	return row
}

// --- Get ---

func (res *resource[T, P]) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := res.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		res.s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// --- Forms ---

// formView is the data of form.html.
type formView struct {
	Resource string
	Title    string
	Singular string
	ID       string
	Action   string
	Form     *form.Form
	Record   any
	Error    string
}

func (res *resource[T, P]) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, f *form.Form, rec any) {
	action := "/" + res.name
	if id != "" {
		action += "/" + id
	}
	res.s.renderTemplate(w, r, "form.html", status, formView{
		Resource: res.name,
		Title:    res.title,
		Singular: res.singular,
		ID:       id,
		Action:   action,
		Form:     f,
		Record:   rec,
	})
}

func (res *resource[T, P]) handleNew(w http.ResponseWriter, r *http.Request) {
	res.renderForm(w, r, http.StatusOK, "", form.New(res.fields...), nil)
}

func (res *resource[T, P]) handleEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := res.svc.Get(r.Context(), id)
	if err != nil {
		res.s.writeError(w, r, err)
		return
	}
	res.renderForm(w, r, http.StatusOK, id, form.Edit(res.values(rec), res.fields...), rec)
}

// --- Create / Update ---

func (res *resource[T, P]) save(ctx context.Context, r *http.Request, id string, rec T) (T, error) {
	switch {
	case id == "" && res.create != nil:
		return res.create(ctx, r, rec)
	case id == "":
		return res.svc.Create(ctx, rec)
	case res.update != nil:
		return res.update(ctx, r, id, rec)
	default:
		return res.svc.Update(ctx, id, rec)
	}
}

func (res *resource[T, P]) handleCreate(w http.ResponseWriter, r *http.Request) {
	if isJSONBody(r) {
		var rec T
		if err := strictDecode(w, r, &rec); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		saved, err := res.save(r.Context(), r, "", rec)
		if err != nil {
			res.s.writeError(w, r, err)
			return
		}
		slog.Info("record_event", "event", "created", "resource", res.name, "id", P(&saved).Key())
		writeJSON(w, http.StatusCreated, saved)
		return
	}
	var zero T
	res.submitForm(w, r, "", zero, form.New(res.fields...))
}

func (res *resource[T, P]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	existing, err := res.svc.Get(ctx, id)
	if err != nil {
		res.s.writeError(w, r, err)
		return
	}
	if isJSONBody(r) {
		rec := existing
		if err := strictDecode(w, r, &rec); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		saved, err := res.save(ctx, r, id, rec)
		if err != nil {
			res.s.writeError(w, r, err)
			return
		}
		slog.Info("record_event", "event", "updated", "resource", res.name, "id", id)
		writeJSON(w, http.StatusOK, saved)
		return
	}
	res.submitForm(w, r, id, existing, form.Edit(res.values(existing), res.fields...))
}

// submitForm binds the posted form and saves it. Field errors re-render the
// form with 422; anything else goes through writeError.
func (res *resource[T, P]) submitForm(w http.ResponseWriter, r *http.Request, id string, base T, f *form.Form) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	f.Bind(r.PostForm)

	var saved T
	err := f.Submit(r.Context(), func(ctx context.Context, v form.Values) error {
		rec, err := res.build(base, v)
		if err != nil {
			return err
		}
		saved, err = res.save(ctx, r, id, rec)
		return err
	})

	var fields validation.Errors
	switch {
	case err == nil:
	case errors.As(err, &fields) && isHTMLRequest(r):
		f.Fail(fields)
		var rec any
		if id != "" {
			rec = base
		}
		res.renderForm(w, r, http.StatusUnprocessableEntity, id, f, rec)
		return
	default:
		res.s.writeError(w, r, err)
		return
	}

	event := "created"
	if id != "" {
		event = "updated"
	}
	slog.Info("record_event", "event", event, "resource", res.name, "id", P(&saved).Key())
	done(w, r, "/"+res.name, http.StatusOK, saved)
}

// --- Delete ---

func (res *resource[T, P]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := res.svc.Delete(r.Context(), id); err != nil {
		res.s.writeError(w, r, err)
		return
	}
	slog.Info("record_event", "event", "deleted", "resource", res.name, "id", id)
	done(w, r, "/"+res.name, http.StatusNoContent, nil)
}

// --- Value parsing for build funcs ---

// parser collects parse failures of submitted values as field errors.
type parser struct {
	errs validation.Errors
}

func newParser() *parser {
	return &parser{errs: validation.Errors{}}
}

// date parses a YYYY-MM-DD field; blank gives the zero time.
func (p *parser) date(v form.Values, name string) time.Time {
	raw := v.Get(name)
	if raw == "" {
		return time.Time{}
	}
	t, err := format.ParseDate(raw)
	if err != nil {
		p.errs.Add(name, "must be a date (YYYY-MM-DD)")
	}
	return t
}

// amount parses a decimal money field into minor units; blank gives 0.
func (p *parser) amount(v form.Values, name string) int64 {
	raw := v.Get(name)
	if raw == "" {
		return 0
	}
	n, err := format.ParseAmount(raw)
	if err != nil {
		p.errs.Add(name, "must be an amount like 25.00")
	}
	return n
}

func (p *parser) err() error {
	return p.errs.Err()
}

// money returns the currency formatter for the configured church currency.
func (s *server) money(ctx context.Context) func(int64) string {
	code := s.settings(ctx).CurrencyCode
	return func(minor int64) string { return format.Currency(minor, code) }
}
