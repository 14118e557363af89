package form

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"testing"

	"steward/internal/domain/validation"
)

func sermonFields() []Field {
	return []Field{
		{Name: "title", Label: "Title", Kind: KindText, Required: true},
		{Name: "preacher", Label: "Preacher", Kind: KindText, Required: true},
		{Name: "status", Label: "Status", Kind: KindSelect, Required: true, Options: []string{"Draft", "Published"}},
		{Name: "tags", Label: "Tags", Kind: KindText, Transform: SplitList},
		{Name: "notes", Label: "Notes", Kind: KindTextarea},
	}
}

// TestSplitList verifies trimming and dropping of empty items.
func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a, b,,c ", []string{"a", "b", "c"}},
		{"", []string{}},
		{" , ,", []string{}},
		{"grace", []string{"grace"}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

// TestSubmit_MissingRequiredBlocksHandler verifies presence-only validation.
func TestSubmit_MissingRequiredBlocksHandler(t *testing.T) {
	f := New(sermonFields()...)
	f.Set("title", "Faith")
	f.Set("preacher", "   ")

	calls := 0
	err := f.Submit(context.Background(), func(context.Context, Values) error {
		calls++
		return nil
	})
	if calls != 0 {
		t.Fatalf("handler called %d times, want 0", calls)
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("err = %v, want validation.Errors", err)
	}
	if !errs.Has("preacher") || !errs.Has("status") || errs.Has("title") {
		t.Errorf("errs = %v", errs)
	}
	if !f.Errors().Has("preacher") {
		t.Error("form should keep errors for rendering")
	}
}

// TestSubmit_CallsHandlerOnce verifies the assembled record and tag transform.
func TestSubmit_CallsHandlerOnce(t *testing.T) {
	f := New(sermonFields()...)
	f.Bind(url.Values{
		"title":    {"Faith"},
		"preacher": {"Pastor Ade"},
		"status":   {"Draft"},
		"tags":     {" hope, faith ,, love"},
		"unknown":  {"ignored"},
	})

	calls := 0
	var got Values
	err := f.Submit(context.Background(), func(_ context.Context, v Values) error {
		calls++
		got = v
		return nil
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if calls != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}
	if len(got.Fields) != len(sermonFields()) {
		t.Errorf("fields = %v, want every declared field", got.Fields)
	}
	if _, ok := got.Fields["unknown"]; ok {
		t.Error("undeclared field leaked into values")
	}
	if got.Get("notes") != "" {
		t.Errorf("notes = %q", got.Get("notes"))
	}
	if !reflect.DeepEqual(got.List("tags"), []string{"hope", "faith", "love"}) {
		t.Errorf("tags = %#v", got.List("tags"))
	}
}

// TestSubmit_HandlerErrorKeepsValues verifies no half-submitted state.
func TestSubmit_HandlerErrorKeepsValues(t *testing.T) {
	f := Edit(map[string]string{"title": "Old", "preacher": "P", "status": "Draft"}, sermonFields()...)
	f.Set("title", "New")
	boom := errors.New("store unavailable")

	err := f.Submit(context.Background(), func(context.Context, Values) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if f.Value("title") != "New" {
		t.Errorf("title = %q, want the unsaved edit kept", f.Value("title"))
	}
	// the form can be submitted again
	if err := f.Submit(context.Background(), func(context.Context, Values) error { return nil }); err != nil {
		t.Errorf("retry: %v", err)
	}
}

// TestSubmit_InFlight verifies a second concurrent submit is rejected.
func TestSubmit_InFlight(t *testing.T) {
	f := Edit(map[string]string{"title": "T", "preacher": "P", "status": "Draft"}, sermonFields()...)
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)

	go func() {
		done <- f.Submit(context.Background(), func(context.Context, Values) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	if err := f.Submit(context.Background(), func(context.Context, Values) error { return nil }); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("second submit err = %v, want ErrSubmitInFlight", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Errorf("first submit: %v", err)
	}
}

// TestCancel verifies edits are discarded.
func TestCancel(t *testing.T) {
	f := Edit(map[string]string{"title": "Original"}, sermonFields()...)
	if !f.IsEdit() {
		t.Error("Edit should be edit mode")
	}
	f.Set("title", "Changed")
	f.Fail(validation.Errors{"title": "taken"})
	f.Cancel()
	if f.Value("title") != "Original" {
		t.Errorf("title = %q, want Original", f.Value("title"))
	}
	if len(f.Errors()) != 0 {
		t.Errorf("errors = %v, want none", f.Errors())
	}

	c := New(sermonFields()...)
	c.Set("title", "Draft text")
	c.Cancel()
	if c.Value("title") != "" || c.IsEdit() {
		t.Errorf("create form after cancel = %q", c.Value("title"))
	}
}

// TestBind_Checkbox verifies unchecked boxes clear.
func TestBind_Checkbox(t *testing.T) {
	f := Edit(map[string]string{"recurring": "on"}, Field{Name: "recurring", Kind: KindCheckbox})
	f.Bind(url.Values{})
	if f.Value("recurring") != "" {
		t.Errorf("recurring = %q, want cleared", f.Value("recurring"))
	}
}

// TestRows verifies template rows carry values and errors.
func TestRows(t *testing.T) {
	f := New(sermonFields()...)
	f.Set("title", "Faith")
	_ = f.Submit(context.Background(), func(context.Context, Values) error { return nil })
	rows := f.Rows()
	if rows[0].Value != "Faith" || rows[0].Error != "" {
		t.Errorf("title row = %+v", rows[0])
	}
	if rows[1].Error != "is required" {
		t.Errorf("preacher row error = %q", rows[1].Error)
	}
}
