// Package form collects and validates the fields of one record for create or edit.
// A Form never persists anything; it hands the assembled Values to a submit handler.
package form

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"steward/internal/domain/validation"
)

// Kind selects the input control rendered for a field.
type Kind string

// Input kinds.
const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindTel      Kind = "tel"
	KindDate     Kind = "date"
	KindAmount   Kind = "amount"
	KindSelect   Kind = "select"
	KindTextarea Kind = "textarea"
	KindCheckbox Kind = "checkbox"
)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission of the same form has not finished.
var ErrSubmitInFlight = errors.New("form submission already in progress")

// Field declares one input.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Required    bool
	Options     []string
	Placeholder string
	// Transform turns the raw string into a list, e.g. SplitList for tags.
	Transform func(string) []string
}

// Values is the plain record assembled at submit time. Every declared field
// is present in Fields; fields with a Transform also appear in Lists.
type Values struct {
	Fields map[string]string
	Lists  map[string][]string
}

// Get returns the raw value of a field.
func (v Values) Get(name string) string {
	return v.Fields[name]
}

// List returns the transformed value of a field.
func (v Values) List(name string) []string {
	return v.Lists[name]
}

// Bool interprets a checkbox value.
func (v Values) Bool(name string) bool {
	switch v.Fields[name] {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// SplitList splits a comma-separated string into trimmed, non-empty items.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of SplitList for pre-populating an edit form.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// Form holds the in-progress state of one entry form.
type Form struct {
	fields  []Field
	editing bool
	initial map[string]string

	mu     sync.Mutex
	values map[string]string
	errs   validation.Errors

	submitting atomic.Bool
}

// New returns an empty form in create mode.
func New(fields ...Field) *Form {
	return newForm(nil, false, fields)
}

// Edit returns a form in edit mode pre-populated with values.
func Edit(values map[string]string, fields ...Field) *Form {
	return newForm(values, true, fields)
}

func newForm(values map[string]string, editing bool, fields []Field) *Form {
	initial := make(map[string]string, len(fields))
	for _, f := range fields {
		initial[f.Name] = values[f.Name]
	}
	f := &Form{fields: fields, editing: editing, initial: initial}
	f.values = copyMap(initial)
	return f
}

// Fields returns the declared fields in order.
func (f *Form) Fields() []Field {
	return f.fields
}

// IsEdit reports whether the form edits an existing record.
func (f *Form) IsEdit() bool {
	return f.editing
}

// Value returns the current value of a field.
func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// Set changes the current value of a declared field. Unknown names are ignored.
func (f *Form) Set(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.initial[name]; ok {
		f.values[name] = value
	}
}

// Bind copies posted values into the form. Unchecked checkboxes are absent
// from a posted form, so they are cleared.
func (f *Form) Bind(posted url.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fd := range f.fields {
		if fd.Kind == KindCheckbox {
			f.values[fd.Name] = posted.Get(fd.Name)
			continue
		}
		if vs, ok := posted[fd.Name]; ok && len(vs) > 0 {
			f.values[fd.Name] = vs[0]
		}
	}
}

// Errors returns the field errors of the last submission.
func (f *Form) Errors() validation.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs
}

// Fail records errors raised after submission (for example by the store)
// so they render next to the fields.
func (f *Form) Fail(errs validation.Errors) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = errs
}

// Cancel discards in-progress edits and restores the initial values.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = copyMap(f.initial)
	f.errs = nil
}

// Submit validates required fields and calls handler once with the assembled
// Values. When a required field is blank, handler is not called and the
// returned error is a validation.Errors. A handler error is returned as is
// and the form keeps its values.
// PRE: handler is non-nil
// POST: at most one handler call per Submit; ErrSubmitInFlight on overlap
func (f *Form) Submit(ctx context.Context, handler func(context.Context, Values) error) error {
	if !f.submitting.CompareAndSwap(false, true) {
		return ErrSubmitInFlight
	}
	defer f.submitting.Store(false)

	f.mu.Lock()
	snapshot := copyMap(f.values)
	errs := validation.Errors{}
	for _, fd := range f.fields {
		if fd.Required {
			errs.Required(fd.Name, snapshot[fd.Name])
		}
	}
	if len(errs) > 0 {
		f.errs = errs
		f.mu.Unlock()
		return errs
	}
	f.errs = nil
	f.mu.Unlock()

	values := Values{Fields: snapshot, Lists: make(map[string][]string)}
	for _, fd := range f.fields {
		if fd.Transform != nil {
			values.Lists[fd.Name] = fd.Transform(snapshot[fd.Name])
		}
	}
	return handler(ctx, values)
}

// Row is a field with its current value and error, ready to render.
type Row struct {
	Field
	Value string
	Error string
}

// Rows returns every field with its value and error for templates.
func (f *Form) Rows() []Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := make([]Row, 0, len(f.fields))
	for _, fd := range f.fields {
		rows = append(rows, Row{Field: fd, Value: f.values[fd.Name], Error: f.errs[fd.Name]})
	}
	return rows
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
