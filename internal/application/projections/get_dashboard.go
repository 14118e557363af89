package projections

import (
	"context"
	"sort"
	"time"

	"steward/internal/application/stats"
	"steward/internal/domain/attendance"
	"steward/internal/domain/donation"
	"steward/internal/domain/email"
	"steward/internal/domain/member"
	"steward/internal/domain/offering"
	"steward/internal/domain/prayer"
	"steward/internal/domain/sermon"
	"steward/internal/domain/tithe"
	"steward/internal/domain/visitor"

	"golang.org/x/sync/errgroup"
)

// GivingMonths is the length of the dashboard giving series.
const GivingMonths = 6

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Members    Lister[member.Member]
	Visitors   Lister[visitor.Visitor]
	Attendance Lister[attendance.Attendance]
	Tithes     Lister[tithe.Tithe]
	Offerings  Lister[offering.Offering]
	Donations  Lister[donation.Donation]
	Sermons    Lister[sermon.Sermon]
	Prayers    Lister[prayer.Request]
	Emails     Lister[email.Email]
	Now        func() time.Time
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Members           int
	ActiveMembers     int
	Visitors          int
	VisitorsThisMonth int

	LastService     *ServiceRow // nil before the first check-in
	GivingThisMonth int64
	GivingSeries    []stats.Point[int64]
	GivingBySource  []stats.Share[int64] // this month

	PendingPrayers int
	UnreadMail     int
	RecentSermons  []sermon.Sermon // up to three, newest first
}

// GetDashboard loads every collection concurrently and derives the overview cards.
// POST: GivingSeries has GivingMonths points ending with the current month
// INVARIANT: a failed load fails the whole dashboard
func GetDashboard(ctx context.Context, deps GetDashboardDeps) (DashboardResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	today := now()

	var (
		members   []member.Member
		visitors  []visitor.Visitor
		checkIns  []attendance.Attendance
		tithes    []tithe.Tithe
		offerings []offering.Offering
		donations []donation.Donation
		sermons   []sermon.Sermon
		prayers   []prayer.Request
		emails    []email.Email
	)
	g, gctx := errgroup.WithContext(ctx)
	load(gctx, g, "members", deps.Members, &members)
	load(gctx, g, "visitors", deps.Visitors, &visitors)
	load(gctx, g, "attendance", deps.Attendance, &checkIns)
	load(gctx, g, "tithes", deps.Tithes, &tithes)
	load(gctx, g, "offerings", deps.Offerings, &offerings)
	load(gctx, g, "donations", deps.Donations, &donations)
	load(gctx, g, "sermons", deps.Sermons, &sermons)
	load(gctx, g, "prayer requests", deps.Prayers, &prayers)
	load(gctx, g, "mail", deps.Emails, &emails)
	if err := g.Wait(); err != nil {
		return DashboardResult{}, err
	}

	var r DashboardResult
	thisMonth := LastMonths(today, 1)

	r.Members = len(members)
	for _, m := range members {
		if m.IsActive() {
			r.ActiveMembers++
		}
	}
	r.Visitors = len(visitors)
	r.VisitorsThisMonth = len(within(visitors, thisMonth, func(v visitor.Visitor) time.Time { return v.VisitDate }))

	if rows := ServiceRows(checkIns); len(rows) > 0 {
		r.LastService = &rows[0]
	}

	gifts := Gifts(tithes, offerings, donations)
	monthGifts := within(gifts, thisMonth, giftDate)
	r.GivingThisMonth = stats.Summarize(monthGifts, giftAmount).Total
	r.GivingBySource = stats.Breakdown(monthGifts, giftSource, giftAmount)
	series := within(gifts, LastMonths(today, GivingMonths), giftDate)
	r.GivingSeries = stats.Fill(stats.Monthly(series, giftDate, giftAmount), today, GivingMonths)

	for _, p := range prayers {
		if p.Status == prayer.StatusPending {
			r.PendingPrayers++
		}
	}
	for _, e := range emails {
		if e.Folder == email.FolderInbox && !e.Read {
			r.UnreadMail++
		}
	}

	sort.SliceStable(sermons, func(i, j int) bool { return sermons[i].Date.After(sermons[j].Date) })
	r.RecentSermons = sermons[:min(3, len(sermons))]
	return r, nil
}

// load lists one collection inside the group.
func load[T any](ctx context.Context, g *errgroup.Group, what string, src Lister[T], dst *[]T) {
	g.Go(func() error {
		items, err := src.List(ctx)
		if err != nil {
			return wrapLoad(what, err)
		}
		*dst = items
		return nil
	})
}
