package validation

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalid is matched by every Errors value through errors.Is.
var ErrInvalid = errors.New("validation failed")

// Errors maps a field name to the reason it was rejected.
type Errors map[string]string

// Required records a "required" error when value is blank.
// Only presence is checked; formats are left to the input control.
func (e Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e[field] = "is required"
	}
}

// RequiredPositive records an error when a required amount was not entered.
func (e Errors) RequiredPositive(field string, value int64) {
	if value <= 0 {
		e[field] = "is required"
	}
}

// Add records a custom message for field.
func (e Errors) Add(field, msg string) {
	e[field] = msg
}

// Has reports whether field failed validation.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Err returns nil when nothing was recorded, otherwise e itself.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Fields returns the failed field names in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, f+" "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalid) true for any Errors value.
func (e Errors) Is(target error) bool {
	return target == ErrInvalid
}
