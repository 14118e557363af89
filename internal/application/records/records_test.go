package records_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"steward/internal/adapters/storage/memory"
	"steward/internal/application/listutil"
	"steward/internal/application/records"
	"steward/internal/domain/validation"
	"steward/internal/domain/visitor"
)

var visitorMatcher = listutil.Matcher[visitor.Visitor]{
	Search: []func(visitor.Visitor) string{func(v visitor.Visitor) string { return v.Name }},
	Fields: map[string]func(visitor.Visitor) string{"status": func(v visitor.Visitor) string { return v.Status }},
}

func newService(seed ...visitor.Visitor) *records.Service[visitor.Visitor, *visitor.Visitor] {
	n := 0
	return records.NewService[visitor.Visitor, *visitor.Visitor]("visitors", memory.New[visitor.Visitor](seed...), visitorMatcher,
		records.WithIDs[visitor.Visitor, *visitor.Visitor](func() string {
			n++
			return fmt.Sprintf("v-%d", n)
		}),
		records.WithDefaults(func(v *visitor.Visitor, _ time.Time) {
			if v.Status == "" {
				v.Status = visitor.StatusNew
			}
		}),
	)
}

var visit = time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)

// failingStore simulates a storage outage.
type failingStore struct{ err error }

func (f failingStore) List(context.Context) ([]visitor.Visitor, error) { return nil, f.err }
func (f failingStore) Get(context.Context, string) (visitor.Visitor, error) {
	return visitor.Visitor{}, f.err
}
func (f failingStore) Save(context.Context, visitor.Visitor) error { return f.err }
func (f failingStore) Delete(context.Context, string) error        { return f.err }

// TestCreate verifies id assignment, defaults and validation.
func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	got, err := svc.Create(ctx, visitor.Visitor{ID: "client-chosen", Name: "Esther", VisitDate: visit})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != "v-1" {
		t.Errorf("ID = %q, want v-1", got.ID)
	}
	if got.Status != visitor.StatusNew {
		t.Errorf("Status = %q, want default New", got.Status)
	}

	_, err = svc.Create(ctx, visitor.Visitor{Name: " "})
	if !errors.Is(err, records.ErrValidation) || !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	var errs validation.Errors
	if !errors.As(err, &errs) || !errs.Has("name") || !errs.Has("visit_date") {
		t.Errorf("field errors = %v", errs)
	}
	all, _ := svc.All(ctx)
	if len(all) != 1 {
		t.Errorf("invalid record was written: %d records", len(all))
	}
}

// TestCreate_IDsAreUnique verifies the default UUID generator.
func TestCreate_IDsAreUnique(t *testing.T) {
	ctx := context.Background()
	svc := records.NewService[visitor.Visitor, *visitor.Visitor]("visitors", memory.New[visitor.Visitor](), visitorMatcher)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		v, err := svc.Create(ctx, visitor.Visitor{Name: "x", Status: visitor.StatusNew, VisitDate: visit})
		if err != nil {
			t.Fatal(err)
		}
		if seen[v.ID] {
			t.Fatalf("duplicate id %s", v.ID)
		}
		seen[v.ID] = true
	}
}

// TestUpdate verifies the path id wins and unknown ids are not found.
func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newService(visitor.Visitor{ID: "a", Name: "Ann", Status: visitor.StatusNew, VisitDate: visit})

	got, err := svc.Update(ctx, "a", visitor.Visitor{ID: "other", Name: "Anne", Status: visitor.StatusContacted, VisitDate: visit})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ID != "a" || got.Name != "Anne" {
		t.Errorf("updated = %+v", got)
	}
	if _, err := svc.Get(ctx, "other"); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("body id created a record: %v", err)
	}

	if _, err := svc.Update(ctx, "missing", got); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, "a", visitor.Visitor{}); !errors.Is(err, records.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	stored, _ := svc.Get(ctx, "a")
	if stored.Name != "Anne" {
		t.Errorf("failed update changed the record: %+v", stored)
	}
}

// TestDelete verifies removal and not-found.
func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(visitor.Visitor{ID: "a", Name: "Ann", Status: visitor.StatusNew, VisitDate: visit})
	if err := svc.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "a"); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

// TestList verifies filtering through the matcher.
func TestList(t *testing.T) {
	ctx := context.Background()
	svc := newService(
		visitor.Visitor{ID: "1", Name: "Ann", Status: visitor.StatusNew},
		visitor.Visitor{ID: "2", Name: "Bob", Status: visitor.StatusConverted},
		visitor.Visitor{ID: "3", Name: "Annette", Status: visitor.StatusConverted},
	)
	got, err := svc.List(ctx, listutil.FilterParams{Search: "ann", Filters: map[string]string{"status": visitor.StatusConverted}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("List = %+v", got)
	}

	empty := newService()
	got, err = empty.List(ctx, listutil.FilterParams{})
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("empty List = %#v, %v", got, err)
	}
}

// TestStoreFailuresAreWrapped verifies collaborator errors surface unchanged in kind.
func TestStoreFailuresAreWrapped(t *testing.T) {
	ctx := context.Background()
	outage := errors.New("disk I/O error")
	svc := records.NewService[visitor.Visitor, *visitor.Visitor]("visitors", failingStore{err: outage}, visitorMatcher)

	if _, err := svc.List(ctx, listutil.FilterParams{}); !errors.Is(err, outage) || !errors.Is(err, records.ErrUnavailable) {
		t.Errorf("List err = %v", err)
	}
	if _, err := svc.Create(ctx, visitor.Visitor{Name: "x", Status: "New", VisitDate: visit}); !errors.Is(err, outage) {
		t.Errorf("Create err = %v", err)
	}
	if err := svc.Delete(ctx, "x"); !errors.Is(err, outage) || errors.Is(err, records.ErrNotFound) {
		t.Errorf("Delete err = %v", err)
	}
}

// TestNotFoundIsNotUnavailable verifies a missing record is not reported as an outage.
func TestNotFoundIsNotUnavailable(t *testing.T) {
	svc := records.NewService[visitor.Visitor, *visitor.Visitor]("visitors", memory.New[visitor.Visitor](), visitorMatcher)
	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, records.ErrNotFound) || errors.Is(err, records.ErrUnavailable) {
		t.Errorf("Get err = %v", err)
	}
}

// TestGuard verifies direct store access reports outages like the service does.
func TestGuard(t *testing.T) {
	ctx := context.Background()
	outage := errors.New("database is locked")
	g := records.Guard[visitor.Visitor](failingStore{err: outage})

	if err := g.Save(ctx, visitor.Visitor{ID: "a"}); !errors.Is(err, records.ErrUnavailable) || !errors.Is(err, outage) {
		t.Errorf("Save err = %v", err)
	}
	if _, err := g.List(ctx); !errors.Is(err, records.ErrUnavailable) {
		t.Errorf("List err = %v", err)
	}

	mem := records.Guard[visitor.Visitor](memory.New[visitor.Visitor]())
	if _, err := mem.Get(ctx, "missing"); !errors.Is(err, records.ErrNotFound) || errors.Is(err, records.ErrUnavailable) {
		t.Errorf("Get err = %v", err)
	}
	if records.Guard(mem) != mem {
		t.Error("Guard should not wrap twice")
	}
}
