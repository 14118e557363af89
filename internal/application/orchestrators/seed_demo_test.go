package orchestrators

import (
	"context"
	"testing"
	"time"

	"steward/internal/adapters/storage/memory"
	"steward/internal/domain/attendance"
	"steward/internal/domain/donation"
	"steward/internal/domain/email"
	"steward/internal/domain/media"
	"steward/internal/domain/member"
	"steward/internal/domain/offering"
	"steward/internal/domain/prayer"
	"steward/internal/domain/sermon"
	"steward/internal/domain/tithe"
	"steward/internal/domain/visitor"
)

// TestDemoData_Valid verifies every demo record passes its own validation.
func TestDemoData_Valid(t *testing.T) {
	d := DemoData(time.Date(2026, 5, 6, 12, 0, 0, 0, time.UTC))
	check := func(kind string, n int, validate func(i int) error) {
		t.Helper()
		if n == 0 {
			t.Errorf("no demo %s", kind)
		}
		for i := 0; i < n; i++ {
			if err := validate(i); err != nil {
				t.Errorf("%s[%d]: %v", kind, i, err)
			}
		}
	}
	check("members", len(d.Members), func(i int) error { return d.Members[i].Validate() })
	check("visitors", len(d.Visitors), func(i int) error { return d.Visitors[i].Validate() })
	check("attendance", len(d.Attendance), func(i int) error { return d.Attendance[i].Validate() })
	check("tithes", len(d.Tithes), func(i int) error { return d.Tithes[i].Validate() })
	check("offerings", len(d.Offerings), func(i int) error { return d.Offerings[i].Validate() })
	check("donations", len(d.Donations), func(i int) error { return d.Donations[i].Validate() })
	check("sermons", len(d.Sermons), func(i int) error { return d.Sermons[i].Validate() })
	check("media", len(d.Media), func(i int) error { return d.Media[i].Validate() })
	check("prayers", len(d.Prayers), func(i int) error { return d.Prayers[i].Validate() })
	check("emails", len(d.Emails), func(i int) error { return d.Emails[i].Validate() })

	ids := make(map[string]bool)
	for _, m := range d.Members {
		if ids[m.ID] {
			t.Errorf("duplicate id %s", m.ID)
		}
		ids[m.ID] = true
	}
}

// TestSeedDemo_Idempotent verifies non-empty stores are left alone.
func TestSeedDemo_Idempotent(t *testing.T) {
	ctx := context.Background()
	members := memory.New[member.Member](member.Member{ID: "existing", Name: "Only One", Status: member.StatusActive})
	visitors := memory.New[visitor.Visitor]()
	deps := DemoSeedDeps{
		Members:    members,
		Visitors:   visitors,
		Attendance: memory.New[attendance.Attendance](),
		Tithes:     memory.New[tithe.Tithe](),
		Offerings:  memory.New[offering.Offering](),
		Donations:  memory.New[donation.Donation](),
		Sermons:    memory.New[sermon.Sermon](),
		Media:      memory.New[media.File](),
		Prayers:    memory.New[prayer.Request](),
		Emails:     memory.New[email.Email](),
	}
	now := time.Date(2026, 5, 6, 12, 0, 0, 0, time.UTC)
	if err := ExecuteSeedDemo(ctx, deps, now); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if all, _ := members.List(ctx); len(all) != 1 {
		t.Errorf("members = %d, want the existing record only", len(all))
	}
	first, _ := visitors.List(ctx)
	if len(first) == 0 {
		t.Fatal("visitors were not seeded")
	}
	if err := ExecuteSeedDemo(ctx, deps, now); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if second, _ := visitors.List(ctx); len(second) != len(first) {
		t.Errorf("visitors = %d after reseed, want %d", len(second), len(first))
	}
}
