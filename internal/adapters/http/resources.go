package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"steward/internal/adapters/filestore"
	"steward/internal/application/form"
	"steward/internal/application/format"
	"steward/internal/application/listutil"
	"steward/internal/application/orchestrators"
	"steward/internal/application/stats"
	"steward/internal/domain/attendance"
	"steward/internal/domain/donation"
	emailDomain "steward/internal/domain/email"
	"steward/internal/domain/media"
	"steward/internal/domain/member"
	"steward/internal/domain/offering"
	"steward/internal/domain/prayer"
	"steward/internal/domain/sermon"
	"steward/internal/domain/tithe"
	"steward/internal/domain/visitor"
)

type registrar interface {
	register(mux *http.ServeMux)
}

// resources returns every resource page in navigation order.
func (s *server) resources() []registrar {
	return []registrar{
		s.memberResource(),
		s.visitorResource(),
		s.attendanceResource(),
		s.titheResource(),
		s.offeringResource(),
		s.donationResource(),
		s.sermonResource(),
		s.mediaResource(),
		s.prayerResource(),
		s.mailResource(),
	}
}

var genders = []string{"Female", "Male"}

func newestFirst(col string) listutil.SortParams {
	return listutil.SortParams{Sort: col, Dir: "desc"}
}

// --- Card helpers ---

func countCard(label string, n int) card {
	return card{Label: label, Value: strconv.Itoa(n)}
}

func sharesCard[N stats.Number](label string, shares []stats.Share[N], value func(N) string) card {
	c := card{Label: label, Value: strconv.Itoa(len(shares))}
	for _, sh := range shares {
		c.Shares = append(c.Shares, shareView{Label: sh.Label, Value: value(sh.Amount), Percent: sh.Rounded})
	}
	return c
}

func itoa(n int) string { return strconv.Itoa(n) }

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func checkbox(b bool) string {
	if b {
		return "on"
	}
	return ""
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// --- Members ---

func (s *server) memberResource() *resource[member.Member, *member.Member] {
	return &resource[member.Member, *member.Member]{
		s: s, name: "members", title: "Members", singular: "Member",
		svc: s.services.Members,
		columns: []column[member.Member]{
			{Key: "name", Label: "Name", Value: func(m member.Member) string { return m.Name }, Sortable: true},
			{Key: "email", Label: "Email", Value: func(m member.Member) string { return m.Email }},
			{Key: "phone", Label: "Phone", Value: func(m member.Member) string { return m.Phone }},
			{Key: "ministry", Label: "Ministry", Value: func(m member.Member) string { return m.Ministry }, Sortable: true},
			{Key: "status", Label: "Status", Value: func(m member.Member) string { return m.Status }, Sortable: true},
			{Key: "joined", Label: "Joined", Value: func(m member.Member) string { return format.Date(m.JoinedOn) }, Sortable: true},
		},
		filters: []filter{
			{Key: "ministry", Label: "Ministry", Options: member.Ministries},
			{Key: "status", Label: "Status", Options: member.Statuses},
			{Key: "gender", Label: "Gender", Options: genders},
		},
		sort: listutil.SortParams{Sort: "name", Dir: "asc"},
		actions: []action[member.Member]{
			{Label: "Deactivate", Path: "/members/%s/deactivate", Show: func(m member.Member) bool { return m.IsActive() }},
			{Label: "Reactivate", Path: "/members/%s/reactivate", Show: func(m member.Member) bool { return !m.IsActive() }},
		},
		fields: []form.Field{
			{Name: "name", Label: "Full name", Kind: form.KindText, Required: true},
			{Name: "email", Label: "Email", Kind: form.KindEmail},
			{Name: "phone", Label: "Phone", Kind: form.KindTel},
			{Name: "gender", Label: "Gender", Kind: form.KindSelect, Options: genders},
			{Name: "ministry", Label: "Ministry", Kind: form.KindSelect, Options: member.Ministries},
			{Name: "status", Label: "Status", Kind: form.KindSelect, Required: true, Options: member.Statuses},
			{Name: "joined_on", Label: "Joined on", Kind: form.KindDate},
			{Name: "address", Label: "Address", Kind: form.KindTextarea},
		},
		values: func(m member.Member) map[string]string {
			return map[string]string{
				"name": m.Name, "email": m.Email, "phone": m.Phone, "gender": m.Gender,
				"ministry": m.Ministry, "status": m.Status, "joined_on": format.DateInput(m.JoinedOn), "address": m.Address,
			}
		},
		build: func(m member.Member, v form.Values) (member.Member, error) {
			p := newParser()
			m.Name = v.Get("name")
			m.Email = v.Get("email")
			m.Phone = v.Get("phone")
			m.Gender = v.Get("gender")
			m.Ministry = v.Get("ministry")
			m.Status = v.Get("status")
			m.Address = v.Get("address")
			m.JoinedOn = p.date(v, "joined_on")
			return m, p.err()
		},
		cards: func(items []member.Member, _ func(int64) string) []card {
			active := 0
			for _, m := range items {
				if m.IsActive() {
					active++
				}
			}
			return []card{
				countCard("Total members", len(items)),
				countCard("Active", active),
				countCard("Inactive", len(items)-active),
				sharesCard("Ministries", stats.Counts(items, func(m member.Member) string { return m.Ministry }), itoa),
			}
		},
	}
}

// --- Visitors ---

func (s *server) visitorResource() *resource[visitor.Visitor, *visitor.Visitor] {
	return &resource[visitor.Visitor, *visitor.Visitor]{
		s: s, name: "visitors", title: "Visitors", singular: "Visitor",
		svc: s.services.Visitors,
		columns: []column[visitor.Visitor]{
			{Key: "name", Label: "Name", Value: func(v visitor.Visitor) string { return v.Name }, Sortable: true},
			{Key: "email", Label: "Email", Value: func(v visitor.Visitor) string { return v.Email }},
			{Key: "phone", Label: "Phone", Value: func(v visitor.Visitor) string { return v.Phone }},
			{Key: "visit_date", Label: "Visited", Value: func(v visitor.Visitor) string { return format.Date(v.VisitDate) }, Sortable: true},
			{Key: "status", Label: "Status", Value: func(v visitor.Visitor) string { return v.Status }, Sortable: true},
			{Key: "invited_by", Label: "Invited by", Value: func(v visitor.Visitor) string { return v.InvitedBy }},
		},
		filters: []filter{{Key: "status", Label: "Status", Options: visitor.Statuses}},
		sort:    newestFirst("visit_date"),
		fields: []form.Field{
			{Name: "name", Label: "Full name", Kind: form.KindText, Required: true},
			{Name: "email", Label: "Email", Kind: form.KindEmail},
			{Name: "phone", Label: "Phone", Kind: form.KindTel},
			{Name: "visit_date", Label: "Visit date", Kind: form.KindDate, Required: true},
			{Name: "status", Label: "Status", Kind: form.KindSelect, Options: visitor.Statuses},
			{Name: "invited_by", Label: "Invited by", Kind: form.KindText},
			{Name: "interests", Label: "Interests", Kind: form.KindText, Placeholder: "Choir, Youth", Transform: form.SplitList},
			{Name: "notes", Label: "Notes", Kind: form.KindTextarea},
		},
		actions: []action[visitor.Visitor]{{
			Label: "Convert to member",
			Path:  "/visitors/%s/convert",
			Show:  func(v visitor.Visitor) bool { return v.Status != visitor.StatusConverted },
		}},
		values: func(v visitor.Visitor) map[string]string {
			return map[string]string{
				"name": v.Name, "email": v.Email, "phone": v.Phone, "visit_date": format.DateInput(v.VisitDate),
				"status": v.Status, "invited_by": v.InvitedBy, "interests": form.JoinList(v.Interests), "notes": v.Notes,
			}
		},
		build: func(vis visitor.Visitor, v form.Values) (visitor.Visitor, error) {
			p := newParser()
			vis.Name = v.Get("name")
			vis.Email = v.Get("email")
			vis.Phone = v.Get("phone")
			vis.VisitDate = p.date(v, "visit_date")
			if st := v.Get("status"); st != "" {
				vis.Status = st
			}
			vis.InvitedBy = v.Get("invited_by")
			vis.Interests = v.List("interests")
			vis.Notes = v.Get("notes")
			return vis, p.err()
		},
		cards: func(items []visitor.Visitor, _ func(int64) string) []card {
			now := s.now()
			thisMonth, converted := 0, 0
			for _, v := range items {
				if sameMonth(v.VisitDate, now) {
					thisMonth++
				}
				if v.Status == visitor.StatusConverted {
					converted++
				}
			}
			return []card{
				countCard("Total visitors", len(items)),
				countCard("New this month", thisMonth),
				{Label: "Converted", Value: format.Percent(stats.Round(stats.Percent(converted, len(items)))), Hint: itoa(converted) + " became members"},
				sharesCard("By status", stats.Counts(items, func(v visitor.Visitor) string { return v.Status }), itoa),
			}
		},
	}
}

// --- Attendance ---

func (s *server) checkInDeps() orchestrators.CheckInDeps {
	return orchestrators.CheckInDeps{
		AttendanceStore: s.deps.Stores.Attendance,
		MemberStore:     s.deps.Stores.Members,
		VisitorStore:    s.deps.Stores.Visitors,
		Now:             s.now,
	}
}

func (s *server) attendanceResource() *resource[attendance.Attendance, *attendance.Attendance] {
	return &resource[attendance.Attendance, *attendance.Attendance]{
		s: s, name: "attendance", title: "Attendance", singular: "Check-in",
		svc: s.services.Attendance,
		columns: []column[attendance.Attendance]{
			{Key: "service_date", Label: "Date", Value: func(a attendance.Attendance) string { return format.Date(a.ServiceDate) }, Sortable: true},
			{Key: "service_type", Label: "Service", Value: func(a attendance.Attendance) string { return a.ServiceType }, Sortable: true},
			{Key: "name", Label: "Person", Value: func(a attendance.Attendance) string { return a.PersonName }, Sortable: true},
			{Key: "kind", Label: "Kind", Value: func(a attendance.Attendance) string { return a.Kind }, Sortable: true},
			{Key: "checked_in", Label: "Checked in", Value: func(a attendance.Attendance) string { return format.Ago(a.CheckedInAt) }},
		},
		filters: []filter{
			{Key: "service_type", Label: "Service", Options: attendance.ServiceTypes},
			{Key: "kind", Label: "Kind", Options: attendance.Kinds},
		},
		sort: newestFirst("service_date"),
		fields: []form.Field{
			{Name: "service_date", Label: "Service date", Kind: form.KindDate, Required: true},
			{Name: "service_type", Label: "Service", Kind: form.KindSelect, Required: true, Options: attendance.ServiceTypes},
			{Name: "kind", Label: "Kind", Kind: form.KindSelect, Options: attendance.Kinds},
			{Name: "person_id", Label: "Member or visitor ID", Kind: form.KindText},
			{Name: "person_name", Label: "Name", Kind: form.KindText},
		},
		values: func(a attendance.Attendance) map[string]string {
			return map[string]string{
				"service_date": format.DateInput(a.ServiceDate), "service_type": a.ServiceType,
				"kind": a.Kind, "person_id": a.PersonID, "person_name": a.PersonName,
			}
		},
		build: func(a attendance.Attendance, v form.Values) (attendance.Attendance, error) {
			p := newParser()
			a.ServiceDate = p.date(v, "service_date")
			a.ServiceType = v.Get("service_type")
			a.Kind = v.Get("kind")
			a.PersonID = v.Get("person_id")
			a.PersonName = v.Get("person_name")
			return a, p.err()
		},
		create: func(ctx context.Context, _ *http.Request, a attendance.Attendance) (attendance.Attendance, error) {
			return orchestrators.ExecuteCheckIn(ctx, orchestrators.CheckInInput{
				ServiceType: a.ServiceType,
				ServiceDate: a.ServiceDate,
				Kind:        a.Kind,
				PersonID:    a.PersonID,
				PersonName:  a.PersonName,
			}, s.checkInDeps())
		},
		cards: func(items []attendance.Attendance, _ func(int64) string) []card {
			return []card{
				countCard("Check-ins", len(items)),
				sharesCard("Members vs visitors", stats.Counts(items, func(a attendance.Attendance) string { return a.Kind }), itoa),
				sharesCard("By service", stats.Counts(items, func(a attendance.Attendance) string { return a.ServiceType }), itoa),
			}
		},
	}
}

// --- Tithes ---

func (s *server) titheResource() *resource[tithe.Tithe, *tithe.Tithe] {
	return &resource[tithe.Tithe, *tithe.Tithe]{
		s: s, name: "tithes", title: "Tithes", singular: "Tithe",
		svc:   s.services.Tithes,
		guard: financeOnly,
		columns: []column[tithe.Tithe]{
			{Key: "date", Label: "Date", Value: func(t tithe.Tithe) string { return format.Date(t.Date) }, Sortable: true},
			{Key: "name", Label: "Member", Value: func(t tithe.Tithe) string { return t.MemberName }, Sortable: true},
			{Key: "amount", Label: "Amount", Money: func(t tithe.Tithe) int64 { return t.Amount }, Sortable: true},
			{Key: "method", Label: "Method", Value: func(t tithe.Tithe) string { return t.Method }, Sortable: true},
			{Key: "reference", Label: "Reference", Value: func(t tithe.Tithe) string { return t.Reference }},
		},
		filters: []filter{{Key: "method", Label: "Method", Options: tithe.Methods}},
		sort:    newestFirst("date"),
		fields: []form.Field{
			{Name: "member_name", Label: "Member", Kind: form.KindText, Required: true},
			{Name: "member_id", Label: "Member ID", Kind: form.KindText},
			{Name: "amount", Label: "Amount", Kind: form.KindAmount, Required: true, Placeholder: "0.00"},
			{Name: "method", Label: "Method", Kind: form.KindSelect, Required: true, Options: tithe.Methods},
			{Name: "date", Label: "Date", Kind: form.KindDate, Required: true},
			{Name: "reference", Label: "Reference", Kind: form.KindText},
			{Name: "notes", Label: "Notes", Kind: form.KindTextarea},
		},
		values: func(t tithe.Tithe) map[string]string {
			return map[string]string{
				"member_name": t.MemberName, "member_id": t.MemberID, "amount": format.Decimal(t.Amount),
				"method": t.Method, "date": format.DateInput(t.Date), "reference": t.Reference, "notes": t.Notes,
			}
		},
		build: func(t tithe.Tithe, v form.Values) (tithe.Tithe, error) {
			p := newParser()
			t.MemberName = v.Get("member_name")
			t.MemberID = v.Get("member_id")
			t.Amount = p.amount(v, "amount")
			t.Method = v.Get("method")
			t.Date = p.date(v, "date")
			t.Reference = v.Get("reference")
			t.Notes = v.Get("notes")
			return t, p.err()
		},
		cards: func(items []tithe.Tithe, money func(int64) string) []card {
			sum := stats.Summarize(items, func(t tithe.Tithe) int64 { return t.Amount })
			return []card{
				{Label: "Total tithes", Value: money(sum.Total)},
				{Label: "Average", Value: money(int64(sum.Average))},
				countCard("Count", sum.Count),
				sharesCard("Cash vs digital", stats.Split(items,
					stats.Part[tithe.Tithe, int64]{Label: "Cash", Amount: tithe.Tithe.CashAmount},
					stats.Part[tithe.Tithe, int64]{Label: "Digital", Amount: tithe.Tithe.DigitalAmount},
				), money),
			}
		},
	}
}

// --- Offerings ---

func (s *server) offeringResource() *resource[offering.Offering, *offering.Offering] {
	return &resource[offering.Offering, *offering.Offering]{
		s: s, name: "offerings", title: "Offerings", singular: "Offering",
		svc:   s.services.Offerings,
		guard: financeOnly,
		columns: []column[offering.Offering]{
			{Key: "date", Label: "Date", Value: func(o offering.Offering) string { return format.Date(o.Date) }, Sortable: true},
			{Key: "service_type", Label: "Service", Value: func(o offering.Offering) string { return o.ServiceType }, Sortable: true},
			{Key: "cash", Label: "Cash", Money: func(o offering.Offering) int64 { return o.CashAmount }},
			{Key: "digital", Label: "Digital", Money: func(o offering.Offering) int64 { return o.DigitalAmount }},
			{Key: "total", Label: "Total", Money: func(o offering.Offering) int64 { return o.Total() }, Sortable: true},
			{Key: "counted_by", Label: "Counted by", Value: func(o offering.Offering) string { return o.CountedBy }},
		},
		filters: []filter{{Key: "service_type", Label: "Service", Options: attendance.ServiceTypes}},
		sort:    newestFirst("date"),
		fields: []form.Field{
			{Name: "service_type", Label: "Service", Kind: form.KindSelect, Required: true, Options: attendance.ServiceTypes},
			{Name: "date", Label: "Date", Kind: form.KindDate, Required: true},
			{Name: "cash_amount", Label: "Cash", Kind: form.KindAmount, Placeholder: "0.00"},
			{Name: "digital_amount", Label: "Digital", Kind: form.KindAmount, Placeholder: "0.00"},
			{Name: "counted_by", Label: "Counted by", Kind: form.KindText},
			{Name: "notes", Label: "Notes", Kind: form.KindTextarea},
		},
		values: func(o offering.Offering) map[string]string {
			return map[string]string{
				"service_type": o.ServiceType, "date": format.DateInput(o.Date),
				"cash_amount": format.Decimal(o.CashAmount), "digital_amount": format.Decimal(o.DigitalAmount),
				"counted_by": o.CountedBy, "notes": o.Notes,
			}
		},
		build: func(o offering.Offering, v form.Values) (offering.Offering, error) {
			p := newParser()
			o.ServiceType = v.Get("service_type")
			o.Date = p.date(v, "date")
			o.CashAmount = p.amount(v, "cash_amount")
			o.DigitalAmount = p.amount(v, "digital_amount")
			o.CountedBy = v.Get("counted_by")
			o.Notes = v.Get("notes")
			return o, p.err()
		},
		cards: func(items []offering.Offering, money func(int64) string) []card {
			sum := stats.Summarize(items, offering.Offering.Total)
			return []card{
				{Label: "Total offerings", Value: money(sum.Total), Hint: itoa(sum.Count) + " services"},
				{Label: "Average per service", Value: money(int64(sum.Average))},
				sharesCard("Cash vs digital", stats.Split(items,
					stats.Part[offering.Offering, int64]{Label: "Cash", Amount: func(o offering.Offering) int64 { return o.CashAmount }},
					stats.Part[offering.Offering, int64]{Label: "Digital", Amount: func(o offering.Offering) int64 { return o.DigitalAmount }},
				), money),
			}
		},
	}
}

// --- Donations ---

func completedAmount(d donation.Donation) int64 {
	if d.Status != donation.StatusCompleted {
		return 0
	}
	return d.Amount
}

func (s *server) donationResource() *resource[donation.Donation, *donation.Donation] {
	return &resource[donation.Donation, *donation.Donation]{
		s: s, name: "donations", title: "Online Giving", singular: "Donation",
		svc:   s.services.Donations,
		guard: financeOnly,
		columns: []column[donation.Donation]{
			{Key: "date", Label: "Date", Value: func(d donation.Donation) string { return format.Date(d.Date) }, Sortable: true},
			{Key: "name", Label: "Donor", Value: func(d donation.Donation) string { return d.DonorName }, Sortable: true},
			{Key: "amount", Label: "Amount", Money: func(d donation.Donation) int64 { return d.Amount }, Sortable: true},
			{Key: "fund", Label: "Fund", Value: func(d donation.Donation) string { return d.Fund }, Sortable: true},
			{Key: "channel", Label: "Channel", Value: func(d donation.Donation) string { return d.Channel }},
			{Key: "status", Label: "Status", Value: func(d donation.Donation) string { return d.Status }, Sortable: true},
			{Key: "recurring", Label: "Recurring", Value: func(d donation.Donation) string { return yesNo(d.Recurring) }},
		},
		filters: []filter{
			{Key: "fund", Label: "Fund", Options: donation.Funds},
			{Key: "channel", Label: "Channel", Options: donation.Channels},
			{Key: "status", Label: "Status", Options: donation.Statuses},
		},
		sort: newestFirst("date"),
		fields: []form.Field{
			{Name: "donor_name", Label: "Donor", Kind: form.KindText, Required: true},
			{Name: "donor_email", Label: "Email", Kind: form.KindEmail},
			{Name: "amount", Label: "Amount", Kind: form.KindAmount, Required: true, Placeholder: "0.00"},
			{Name: "fund", Label: "Fund", Kind: form.KindSelect, Required: true, Options: donation.Funds},
			{Name: "channel", Label: "Channel", Kind: form.KindSelect, Options: donation.Channels},
			{Name: "status", Label: "Status", Kind: form.KindSelect, Options: donation.Statuses},
			{Name: "recurring", Label: "Recurring gift", Kind: form.KindCheckbox},
			{Name: "date", Label: "Date", Kind: form.KindDate, Required: true},
		},
		values: func(d donation.Donation) map[string]string {
			return map[string]string{
				"donor_name": d.DonorName, "donor_email": d.DonorEmail, "amount": format.Decimal(d.Amount),
				"fund": d.Fund, "channel": d.Channel, "status": d.Status, "recurring": checkbox(d.Recurring),
				"date": format.DateInput(d.Date),
			}
		},
		build: func(d donation.Donation, v form.Values) (donation.Donation, error) {
			p := newParser()
			d.DonorName = v.Get("donor_name")
			d.DonorEmail = v.Get("donor_email")
			d.Amount = p.amount(v, "amount")
			d.Fund = v.Get("fund")
			d.Channel = v.Get("channel")
			if st := v.Get("status"); st != "" {
				d.Status = st
			}
			d.Recurring = v.Bool("recurring")
			d.Date = p.date(v, "date")
			return d, p.err()
		},
		cards: func(items []donation.Donation, money func(int64) string) []card {
			var completed []donation.Donation
			recurring := 0
			for _, d := range items {
				if d.Status == donation.StatusCompleted {
					completed = append(completed, d)
				}
				if d.Recurring {
					recurring++
				}
			}
			sum := stats.Summarize(completed, completedAmount)
			return []card{
				{Label: "Total received", Value: money(sum.Total), Hint: itoa(sum.Count) + " completed"},
				{Label: "Average gift", Value: money(int64(sum.Average))},
				countCard("Recurring donors", recurring),
				sharesCard("By fund", stats.Breakdown(completed, func(d donation.Donation) string { return d.Fund }, completedAmount), money),
			}
		},
	}
}

// --- Sermons ---

func (s *server) sermonResource() *resource[sermon.Sermon, *sermon.Sermon] {
	return &resource[sermon.Sermon, *sermon.Sermon]{
		s: s, name: "sermons", title: "Sermons", singular: "Sermon",
		svc: s.services.Sermons,
		columns: []column[sermon.Sermon]{
			{Key: "date", Label: "Date", Value: func(sm sermon.Sermon) string { return format.Date(sm.Date) }, Sortable: true},
			{Key: "title", Label: "Title", Value: func(sm sermon.Sermon) string { return sm.Title }, Sortable: true},
			{Key: "preacher", Label: "Preacher", Value: func(sm sermon.Sermon) string { return sm.Preacher }, Sortable: true},
			{Key: "series", Label: "Series", Value: func(sm sermon.Sermon) string { return sm.Series }, Sortable: true},
			{Key: "scripture", Label: "Scripture", Value: func(sm sermon.Sermon) string { return sm.Scripture }},
			{Key: "status", Label: "Status", Value: func(sm sermon.Sermon) string { return sm.Status }, Sortable: true},
		},
		filters: []filter{
			{Key: "series", Label: "Series"},
			{Key: "preacher", Label: "Preacher"},
			{Key: "status", Label: "Status", Options: sermon.Statuses},
		},
		sort: newestFirst("date"),
		fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.KindText, Required: true},
			{Name: "preacher", Label: "Preacher", Kind: form.KindText, Required: true},
			{Name: "date", Label: "Date", Kind: form.KindDate, Required: true},
			{Name: "series", Label: "Series", Kind: form.KindText},
			{Name: "scripture", Label: "Scripture", Kind: form.KindText, Placeholder: "John 3:16"},
			{Name: "tags", Label: "Tags", Kind: form.KindText, Placeholder: "faith, hope", Transform: form.SplitList},
			{Name: "media_url", Label: "Media URL", Kind: form.KindText},
			{Name: "status", Label: "Status", Kind: form.KindSelect, Options: sermon.Statuses},
			{Name: "notes", Label: "Notes (markdown)", Kind: form.KindTextarea},
		},
		values: func(sm sermon.Sermon) map[string]string {
			return map[string]string{
				"title": sm.Title, "preacher": sm.Preacher, "date": format.DateInput(sm.Date), "series": sm.Series,
				"scripture": sm.Scripture, "tags": form.JoinList(sm.Tags), "media_url": sm.MediaURL,
				"status": sm.Status, "notes": sm.Notes,
			}
		},
		build: func(sm sermon.Sermon, v form.Values) (sermon.Sermon, error) {
			p := newParser()
			sm.Title = v.Get("title")
			sm.Preacher = v.Get("preacher")
			sm.Date = p.date(v, "date")
			sm.Series = v.Get("series")
			sm.Scripture = v.Get("scripture")
			sm.Tags = v.List("tags")
			sm.MediaURL = v.Get("media_url")
			if st := v.Get("status"); st != "" {
				sm.Status = st
			}
			sm.Notes = v.Get("notes")
			return sm, p.err()
		},
		cards: func(items []sermon.Sermon, _ func(int64) string) []card {
			published := 0
			for _, sm := range items {
				if sm.IsPublished() {
					published++
				}
			}
			series := func(sm sermon.Sermon) string {
				if sm.Series == "" {
					return "Standalone"
				}
				return sm.Series
			}
			return []card{
				countCard("Sermons", len(items)),
				countCard("Published", published),
				sharesCard("By series", stats.Counts(items, series), itoa),
			}
		},
	}
}

// --- Media ---

type mediaUpload struct {
	Categories []string
	MaxSize    string
}

func mediaUploadView() mediaUpload {
	return mediaUpload{Categories: media.Categories, MaxSize: format.Bytes(filestore.MaxUploadSize)}
}

func (s *server) mediaResource() *resource[media.File, *media.File] {
	return &resource[media.File, *media.File]{
		s: s, name: "media", title: "Media Library", singular: "Media file",
		svc: s.services.Media,
		columns: []column[media.File]{
			{Key: "uploaded", Label: "Uploaded", Value: func(f media.File) string { return format.Date(f.UploadedAt) }, Sortable: true},
			{Key: "title", Label: "Title", Value: func(f media.File) string { return f.Title }, Sortable: true},
			{Key: "category", Label: "Category", Value: func(f media.File) string { return f.Category }, Sortable: true},
			{Key: "size", Label: "Size", Value: func(f media.File) string { return format.Bytes(f.Size) }, Sortable: true},
			{Key: "type", Label: "Type", Value: func(f media.File) string { return f.MimeType }},
			{Key: "uploaded_by", Label: "Uploaded by", Value: func(f media.File) string { return f.UploadedBy }},
		},
		filters: []filter{{Key: "category", Label: "Category", Options: media.Categories}},
		sort:    newestFirst("uploaded"),
		fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.KindText, Required: true},
			{Name: "category", Label: "Category", Kind: form.KindSelect, Required: true, Options: media.Categories},
			{Name: "url", Label: "URL", Kind: form.KindText},
			{Name: "tags", Label: "Tags", Kind: form.KindText, Transform: form.SplitList},
		},
		values: func(f media.File) map[string]string {
			return map[string]string{"title": f.Title, "category": f.Category, "url": f.URL, "tags": form.JoinList(f.Tags)}
		},
		build: func(f media.File, v form.Values) (media.File, error) {
			f.Title = v.Get("title")
			f.Category = v.Get("category")
			f.URL = v.Get("url")
			f.Tags = v.List("tags")
			return f, nil
		},
		cards: func(items []media.File, _ func(int64) string) []card {
			size := stats.Summarize(items, func(f media.File) int64 { return f.Size })
			return []card{
				countCard("Files", len(items)),
				{Label: "Storage used", Value: format.Bytes(size.Total)},
				sharesCard("By category", stats.Counts(items, func(f media.File) string { return f.Category }), itoa),
			}
		},
	}
}

// --- Prayer requests ---

func (s *server) prayerResource() *resource[prayer.Request, *prayer.Request] {
	return &resource[prayer.Request, *prayer.Request]{
		s: s, name: "prayer-requests", title: "Prayer Requests", singular: "Prayer request",
		svc: s.services.Prayers,
		columns: []column[prayer.Request]{
			{Key: "submitted", Label: "Submitted", Value: func(r prayer.Request) string { return format.Date(r.SubmittedAt) }, Sortable: true},
			{Key: "name", Label: "Name", Value: func(r prayer.Request) string { return r.Name }, Sortable: true},
			{Key: "request", Label: "Request", Value: func(r prayer.Request) string {
				if r.Confidential {
					return "Confidential"
				}
				return truncate(r.Request, 80)
			}},
			{Key: "category", Label: "Category", Value: func(r prayer.Request) string { return r.Category }, Sortable: true},
			{Key: "status", Label: "Status", Value: func(r prayer.Request) string { return r.Status }, Sortable: true},
			{Key: "updates", Label: "Updates", Value: func(r prayer.Request) string { return itoa(len(r.Updates)) }},
		},
		filters: []filter{
			{Key: "category", Label: "Category", Options: prayer.Categories},
			{Key: "status", Label: "Status", Options: prayer.Statuses},
		},
		sort: newestFirst("submitted"),
		fields: []form.Field{
			{Name: "name", Label: "Name", Kind: form.KindText, Required: true},
			{Name: "email", Label: "Email", Kind: form.KindEmail},
			{Name: "request", Label: "Request", Kind: form.KindTextarea, Required: true},
			{Name: "category", Label: "Category", Kind: form.KindSelect, Required: true, Options: prayer.Categories},
			{Name: "status", Label: "Status", Kind: form.KindSelect, Options: prayer.Statuses},
			{Name: "confidential", Label: "Confidential", Kind: form.KindCheckbox},
		},
		values: func(r prayer.Request) map[string]string {
			return map[string]string{
				"name": r.Name, "email": r.Email, "request": r.Request, "category": r.Category,
				"status": r.Status, "confidential": checkbox(r.Confidential),
			}
		},
		build: func(r prayer.Request, v form.Values) (prayer.Request, error) {
			r.Name = v.Get("name")
			r.Email = v.Get("email")
			r.Request = v.Get("request")
			r.Category = v.Get("category")
			if st := v.Get("status"); st != "" {
				r.Status = st
			}
			r.Confidential = v.Bool("confidential")
			return r, nil
		},
		cards: func(items []prayer.Request, _ func(int64) string) []card {
			pending, answered := 0, 0
			for _, r := range items {
				switch r.Status {
				case prayer.StatusPending:
					pending++
				case prayer.StatusAnswered:
					answered++
				}
			}
			return []card{
				countCard("Requests", len(items)),
				countCard("Pending", pending),
				{Label: "Answered", Value: format.Percent(stats.Round(stats.Percent(answered, len(items)))), Hint: itoa(answered) + " answered"},
				sharesCard("By category", stats.Counts(items, func(r prayer.Request) string { return r.Category }), itoa),
			}
		},
	}
}

// --- Mail ---

func (s *server) composeDeps() orchestrators.ComposeEmailDeps {
	return orchestrators.ComposeEmailDeps{EmailStore: s.deps.Stores.Emails, Now: s.now}
}

func (s *server) mailResource() *resource[emailDomain.Email, *emailDomain.Email] {
	compose := func(ctx context.Context, id string, e emailDomain.Email) (emailDomain.Email, error) {
		from := e.From
		if from == "" {
			from = s.deps.Config.MailFrom
		}
		return orchestrators.ExecuteComposeEmail(ctx, orchestrators.ComposeEmailInput{
			EmailID: id,
			From:    from,
			To:      e.To,
			Subject: e.Subject,
			Body:    e.Body,
		}, s.composeDeps())
	}
	return &resource[emailDomain.Email, *emailDomain.Email]{
		s: s, name: "mail", title: "Mail", singular: "Message",
		svc: s.services.Emails,
		columns: []column[emailDomain.Email]{
			{Key: "created", Label: "Date", Value: func(e emailDomain.Email) string { return format.Date(e.CreatedAt) }, Sortable: true},
			{Key: "folder", Label: "Folder", Value: func(e emailDomain.Email) string { return e.Folder }, Sortable: true},
			{Key: "to", Label: "To", Value: func(e emailDomain.Email) string { return strings.Join(e.To, ", ") }},
			{Key: "subject", Label: "Subject", Value: func(e emailDomain.Email) string { return e.Subject }, Sortable: true},
			{Key: "status", Label: "Status", Value: func(e emailDomain.Email) string {
				if e.LastError != "" {
					return fmt.Sprintf("%s (%s)", e.Status, e.LastError)
				}
				return e.Status
			}, Sortable: true},
		},
		filters: []filter{
			{Key: "folder", Label: "Folder", Options: emailDomain.Folders},
			{Key: "status", Label: "Status", Options: []string{emailDomain.StatusDraft, emailDomain.StatusSent, emailDomain.StatusFailed}},
		},
		sort: newestFirst("created"),
		fields: []form.Field{
			{Name: "to", Label: "To", Kind: form.KindText, Required: true, Placeholder: "a@example.com, b@example.com", Transform: form.SplitList},
			{Name: "subject", Label: "Subject", Kind: form.KindText, Required: true},
			{Name: "body", Label: "Message (markdown)", Kind: form.KindTextarea, Required: true},
		},
		actions: []action[emailDomain.Email]{{
			Label: "Send",
			Path:  "/mail/%s/send",
			Show:  func(e emailDomain.Email) bool { return e.CanSend() == nil },
		}},
		values: func(e emailDomain.Email) map[string]string {
			return map[string]string{"to": form.JoinList(e.To), "subject": e.Subject, "body": e.Body}
		},
		build: func(e emailDomain.Email, v form.Values) (emailDomain.Email, error) {
			e.To = v.List("to")
			e.Subject = v.Get("subject")
			e.Body = v.Get("body")
			return e, nil
		},
		create: func(ctx context.Context, _ *http.Request, e emailDomain.Email) (emailDomain.Email, error) {
			return compose(ctx, "", e)
		},
		update: func(ctx context.Context, _ *http.Request, id string, e emailDomain.Email) (emailDomain.Email, error) {
			return compose(ctx, id, e)
		},
		cards: func(items []emailDomain.Email, _ func(int64) string) []card {
			unread := 0
			for _, e := range items {
				if !e.Read {
					unread++
				}
			}
			return []card{
				countCard("Unread", unread),
				sharesCard("By folder", stats.Counts(items, func(e emailDomain.Email) string { return e.Folder }), itoa),
			}
		},
	}
}
