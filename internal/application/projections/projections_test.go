package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"steward/internal/adapters/storage/memory"
	"steward/internal/domain/attendance"
	"steward/internal/domain/donation"
	"steward/internal/domain/email"
	"steward/internal/domain/member"
	"steward/internal/domain/offering"
	"steward/internal/domain/prayer"
	"steward/internal/domain/sermon"
	"steward/internal/domain/tithe"
	"steward/internal/domain/visitor"
)

var now = time.Date(2026, 5, 17, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// failingLister simulates a storage outage.
type failingLister[T any] struct{ err error }

func (f failingLister[T]) List(context.Context) ([]T, error) { return nil, f.err }

func givingDeps() GetFinanceReportDeps {
	return GetFinanceReportDeps{
		Tithes: memory.New[tithe.Tithe](
			tithe.Tithe{ID: "t1", MemberName: "Grace", Amount: 10000, Method: tithe.MethodCash, Date: date(2026, 5, 3)},
			tithe.Tithe{ID: "t2", MemberName: "Sam", Amount: 20000, Method: tithe.MethodCard, Date: date(2026, 4, 12)},
			tithe.Tithe{ID: "t3", MemberName: "Old", Amount: 99900, Method: tithe.MethodCard, Date: date(2025, 1, 5)},
		),
		Offerings: memory.New[offering.Offering](
			offering.Offering{ID: "o1", ServiceType: attendance.ServiceSunday, Date: date(2026, 5, 10), CashAmount: 30000, DigitalAmount: 10000},
		),
		Donations: memory.New[donation.Donation](
			donation.Donation{ID: "d1", DonorName: "Ruth", Amount: 30000, Fund: donation.FundBuilding, Status: donation.StatusCompleted, Date: date(2026, 3, 1)},
			donation.Donation{ID: "d2", DonorName: "Pending", Amount: 50000, Fund: donation.FundMissions, Status: donation.StatusPending, Date: date(2026, 5, 1)},
		),
	}
}

func TestGifts(t *testing.T) {
	d := givingDeps()
	tithes, _ := d.Tithes.List(context.Background())
	offerings, _ := d.Offerings.List(context.Background())
	donations, _ := d.Donations.List(context.Background())

	gifts := Gifts(tithes, offerings, donations)
	// 3 tithes, offering split in two, pending donation dropped
	if len(gifts) != 6 {
		t.Fatalf("gifts = %d, want 6", len(gifts))
	}
	for i := 1; i < len(gifts); i++ {
		if gifts[i].Date.After(gifts[i-1].Date) {
			t.Errorf("gifts not newest first at %d", i)
		}
	}
}

func TestGetFinanceReport(t *testing.T) {
	period := LastMonths(now, 3) // Mar 1 .. May 31
	r, err := GetFinanceReport(context.Background(), GetFinanceReportQuery{Period: period}, givingDeps())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if r.Summary.Total != 100000 || r.Summary.Count != 5 {
		t.Errorf("summary = %+v", r.Summary)
	}
	if len(r.Monthly) != 3 || r.Monthly[0].Label() != "Mar 2026" || r.Monthly[2].Total != 50000 {
		t.Errorf("monthly = %+v", r.Monthly)
	}
	if len(r.Settlement) != 2 || r.Settlement[0].Amount != 40000 || r.Settlement[1].Amount != 60000 || r.Settlement[0].Rounded != 40 {
		t.Errorf("settlement = %+v", r.Settlement)
	}
	var sum int64
	for _, s := range r.BySource {
		sum += s.Amount
	}
	if sum != r.Summary.Total {
		t.Errorf("sources sum to %d, total %d", sum, r.Summary.Total)
	}
}

func TestGetFinanceReport_LoadFailure(t *testing.T) {
	deps := givingDeps()
	outage := errors.New("database is locked")
	deps.Offerings = failingLister[offering.Offering]{err: outage}
	if _, err := GetFinanceReport(context.Background(), GetFinanceReportQuery{Period: LastMonths(now, 1)}, deps); !errors.Is(err, outage) {
		t.Errorf("err = %v, want outage", err)
	}
}

func TestGetAttendanceReport(t *testing.T) {
	store := memory.New[attendance.Attendance](
		attendance.Attendance{ID: "1", ServiceDate: date(2026, 5, 10), ServiceType: attendance.ServiceSunday, PersonName: "A", Kind: attendance.KindMember},
		attendance.Attendance{ID: "2", ServiceDate: date(2026, 5, 10), ServiceType: attendance.ServiceSunday, PersonName: "B", Kind: attendance.KindVisitor},
		attendance.Attendance{ID: "3", ServiceDate: date(2026, 5, 13), ServiceType: attendance.ServiceMidweek, PersonName: "A", Kind: attendance.KindMember},
		attendance.Attendance{ID: "4", ServiceDate: date(2026, 5, 3), ServiceType: attendance.ServiceSunday, PersonName: "C"},
		attendance.Attendance{ID: "5", ServiceDate: date(2025, 12, 7), ServiceType: attendance.ServiceSunday, PersonName: "Old", Kind: attendance.KindMember},
	)
	r, err := GetAttendanceReport(context.Background(), GetAttendanceReportQuery{Period: LastMonths(now, 2)}, GetAttendanceReportDeps{Attendance: store})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if r.CheckIns != 4 || r.Services != 3 || r.AveragePerService < 1.33 || r.AveragePerService > 1.34 {
		t.Errorf("report = %d check-ins, %d services, avg %.2f", r.CheckIns, r.Services, r.AveragePerService)
	}
	if first := r.Rows[0]; !first.Date.Equal(date(2026, 5, 13)) || first.Members != 1 {
		t.Errorf("first row = %+v", first)
	}
	if row := r.Rows[1]; row.Members != 1 || row.Visitors != 1 || row.Total != 2 {
		t.Errorf("sunday row = %+v", row)
	}
	if row := r.Rows[2]; row.Guests != 1 {
		t.Errorf("blank kind should count as guest: %+v", row)
	}
	if len(r.Monthly) != 2 || r.Monthly[1].Total != 4 {
		t.Errorf("monthly = %+v", r.Monthly)
	}
}

func TestGetDashboard(t *testing.T) {
	giving := givingDeps()
	deps := GetDashboardDeps{
		Members: memory.New[member.Member](
			member.Member{ID: "m1", Name: "A", Status: member.StatusActive},
			member.Member{ID: "m2", Name: "B", Status: member.StatusInactive},
		),
		Visitors: memory.New[visitor.Visitor](
			visitor.Visitor{ID: "v1", Name: "New", Status: visitor.StatusNew, VisitDate: date(2026, 5, 10)},
			visitor.Visitor{ID: "v2", Name: "Old", Status: visitor.StatusNew, VisitDate: date(2026, 4, 10)},
		),
		Attendance: memory.New[attendance.Attendance](
			attendance.Attendance{ID: "1", ServiceDate: date(2026, 5, 10), ServiceType: attendance.ServiceSunday, PersonName: "A", Kind: attendance.KindMember},
		),
		Tithes:    giving.Tithes,
		Offerings: giving.Offerings,
		Donations: giving.Donations,
		Sermons: memory.New[sermon.Sermon](
			sermon.Sermon{ID: "s1", Title: "One", Date: date(2026, 4, 5)},
			sermon.Sermon{ID: "s2", Title: "Two", Date: date(2026, 4, 12)},
			sermon.Sermon{ID: "s3", Title: "Three", Date: date(2026, 4, 19)},
			sermon.Sermon{ID: "s4", Title: "Four", Date: date(2026, 4, 26)},
		),
		Prayers: memory.New[prayer.Request](
			prayer.Request{ID: "p1", Status: prayer.StatusPending},
			prayer.Request{ID: "p2", Status: prayer.StatusAnswered},
		),
		Emails: memory.New[email.Email](
			email.Email{ID: "e1", Folder: email.FolderInbox},
			email.Email{ID: "e2", Folder: email.FolderInbox, Read: true},
			email.Email{ID: "e3", Folder: email.FolderDrafts},
		),
		Now: func() time.Time { return now },
	}

	r, err := GetDashboard(context.Background(), deps)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if r.Members != 2 || r.ActiveMembers != 1 || r.Visitors != 2 || r.VisitorsThisMonth != 1 {
		t.Errorf("people = %+v", r)
	}
	if r.LastService == nil || r.LastService.Total != 1 {
		t.Errorf("last service = %+v", r.LastService)
	}
	// May: tithe 10000 + offering 40000
	if r.GivingThisMonth != 50000 {
		t.Errorf("giving this month = %d", r.GivingThisMonth)
	}
	if len(r.GivingSeries) != GivingMonths || r.GivingSeries[GivingMonths-1].Total != 50000 {
		t.Errorf("series = %+v", r.GivingSeries)
	}
	if r.PendingPrayers != 1 || r.UnreadMail != 1 {
		t.Errorf("pending = %d, unread = %d", r.PendingPrayers, r.UnreadMail)
	}
	if len(r.RecentSermons) != 3 || r.RecentSermons[0].Title != "Four" {
		t.Errorf("recent sermons = %+v", r.RecentSermons)
	}

	deps.Prayers = failingLister[prayer.Request]{err: errors.New("timeout")}
	if _, err := GetDashboard(context.Background(), deps); err == nil {
		t.Error("expected the dashboard to fail when one collection fails")
	}
}

func TestPeriod(t *testing.T) {
	p := LastMonths(now, 6)
	if !p.From.Equal(date(2025, 12, 1)) || !p.To.Equal(date(2026, 5, 31)) || p.Months() != 6 {
		t.Errorf("period = %v .. %v (%d months)", p.From, p.To, p.Months())
	}
	if !p.Contains(date(2026, 5, 31).Add(23*time.Hour)) || p.Contains(date(2026, 6, 1)) || p.Contains(date(2025, 11, 30)) {
		t.Error("Contains bounds are wrong")
	}
	if !(Period{}).Contains(now) {
		t.Error("open period should contain everything")
	}
}
