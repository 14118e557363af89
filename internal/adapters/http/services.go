package web

import (
	"cmp"
	"strings"
	"time"

	"steward/internal/application/listutil"
	"steward/internal/application/records"
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

// Services holds one data-access service per resource.
type Services struct {
	Members    *records.Service[member.Member, *member.Member]
	Visitors   *records.Service[visitor.Visitor, *visitor.Visitor]
	Attendance *records.Service[attendance.Attendance, *attendance.Attendance]
	Tithes     *records.Service[tithe.Tithe, *tithe.Tithe]
	Offerings  *records.Service[offering.Offering, *offering.Offering]
	Donations  *records.Service[donation.Donation, *donation.Donation]
	Sermons    *records.Service[sermon.Sermon, *sermon.Sermon]
	Media      *records.Service[media.File, *media.File]
	Prayers    *records.Service[prayer.Request, *prayer.Request]
	Emails     *records.Service[emailDomain.Email, *emailDomain.Email]
}

// NewServices wraps every store in its service with the resource's matcher and create defaults.
func NewServices(st Stores, now func() time.Time) Services {
	return Services{
		Members: records.NewService("members", st.Members, memberMatcher,
			records.WithClock[member.Member, *member.Member](now),
			records.WithDefaults(func(m *member.Member, at time.Time) {
				if m.Status == "" {
					m.Status = member.StatusActive
				}
				if m.JoinedOn.IsZero() {
					m.JoinedOn = at
				}
			})),
		Visitors: records.NewService("visitors", st.Visitors, visitorMatcher,
			records.WithClock[visitor.Visitor, *visitor.Visitor](now),
			records.WithDefaults(func(v *visitor.Visitor, at time.Time) {
				if v.Status == "" {
					v.Status = visitor.StatusNew
				}
				if v.VisitDate.IsZero() {
					v.VisitDate = at
				}
			})),
		Attendance: records.NewService("attendance", st.Attendance, attendanceMatcher,
			records.WithClock[attendance.Attendance, *attendance.Attendance](now),
			records.WithDefaults(func(a *attendance.Attendance, at time.Time) {
				if a.Kind == "" {
					a.Kind = attendance.KindGuest
				}
				if a.CheckedInAt.IsZero() {
					a.CheckedInAt = at
				}
			})),
		Tithes:    records.NewService("tithes", st.Tithes, titheMatcher, records.WithClock[tithe.Tithe, *tithe.Tithe](now)),
		Offerings: records.NewService("offerings", st.Offerings, offeringMatcher, records.WithClock[offering.Offering, *offering.Offering](now)),
		Donations: records.NewService("donations", st.Donations, donationMatcher,
			records.WithClock[donation.Donation, *donation.Donation](now),
			records.WithDefaults(func(d *donation.Donation, _ time.Time) {
				if d.Status == "" {
					d.Status = donation.StatusPending
				}
			})),
		Sermons: records.NewService("sermons", st.Sermons, sermonMatcher,
			records.WithClock[sermon.Sermon, *sermon.Sermon](now),
			records.WithDefaults(func(s *sermon.Sermon, _ time.Time) {
				if s.Status == "" {
					s.Status = sermon.StatusDraft
				}
			})),
		Media: records.NewService("media", st.Media, mediaMatcher,
			records.WithClock[media.File, *media.File](now),
			records.WithDefaults(func(f *media.File, at time.Time) {
				if f.UploadedAt.IsZero() {
					f.UploadedAt = at
				}
			})),
		Prayers: records.NewService("prayer-requests", st.Prayers, prayerMatcher,
			records.WithClock[prayer.Request, *prayer.Request](now),
			records.WithDefaults(func(r *prayer.Request, at time.Time) {
				if r.Status == "" {
					r.Status = prayer.StatusPending
				}
				if r.SubmittedAt.IsZero() {
					r.SubmittedAt = at
				}
			})),
		Emails: records.NewService("mail", st.Emails, mailMatcher,
			records.WithClock[emailDomain.Email, *emailDomain.Email](now),
			records.WithDefaults(func(e *emailDomain.Email, at time.Time) {
				if e.Folder == "" {
					e.Folder = emailDomain.FolderDrafts
				}
				if e.Status == "" {
					e.Status = emailDomain.StatusDraft
				}
				if e.Folder != emailDomain.FolderInbox {
					e.Read = true
				}
				e.CreatedAt = at
			})),
	}
}

// --- Matchers ---

func byDate[T any](get func(T) time.Time) func(a, b T) int {
	return func(a, b T) int { return get(a).Compare(get(b)) }
}

func byAmount[T any](get func(T) int64) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(get(a), get(b)) }
}

func lower(s string) string { return strings.ToLower(s) }

var memberMatcher = listutil.Matcher[member.Member]{
	Search: []func(member.Member) string{
		func(m member.Member) string { return m.Name },
		func(m member.Member) string { return m.Email },
		func(m member.Member) string { return m.Phone },
	},
	Fields: map[string]func(member.Member) string{
		"name":     func(m member.Member) string { return lower(m.Name) },
		"ministry": func(m member.Member) string { return m.Ministry },
		"status":   func(m member.Member) string { return m.Status },
		"gender":   func(m member.Member) string { return m.Gender },
	},
	Compare: map[string]func(a, b member.Member) int{
		"joined": byDate(func(m member.Member) time.Time { return m.JoinedOn }),
	},
}

var visitorMatcher = listutil.Matcher[visitor.Visitor]{
	Search: []func(visitor.Visitor) string{
		func(v visitor.Visitor) string { return v.Name },
		func(v visitor.Visitor) string { return v.Email },
		func(v visitor.Visitor) string { return v.InvitedBy },
	},
	Fields: map[string]func(visitor.Visitor) string{
		"name":   func(v visitor.Visitor) string { return lower(v.Name) },
		"status": func(v visitor.Visitor) string { return v.Status },
	},
	Compare: map[string]func(a, b visitor.Visitor) int{
		"visit_date": byDate(func(v visitor.Visitor) time.Time { return v.VisitDate }),
	},
}

var attendanceMatcher = listutil.Matcher[attendance.Attendance]{
	Search: []func(attendance.Attendance) string{
		func(a attendance.Attendance) string { return a.PersonName },
	},
	Fields: map[string]func(attendance.Attendance) string{
		"name":         func(a attendance.Attendance) string { return lower(a.PersonName) },
		"service_type": func(a attendance.Attendance) string { return a.ServiceType },
		"kind":         func(a attendance.Attendance) string { return a.Kind },
	},
	Compare: map[string]func(a, b attendance.Attendance) int{
		"service_date": byDate(func(a attendance.Attendance) time.Time { return a.ServiceDate }),
	},
}

var titheMatcher = listutil.Matcher[tithe.Tithe]{
	Search: []func(tithe.Tithe) string{
		func(t tithe.Tithe) string { return t.MemberName },
		func(t tithe.Tithe) string { return t.Reference },
	},
	Fields: map[string]func(tithe.Tithe) string{
		"name":   func(t tithe.Tithe) string { return lower(t.MemberName) },
		"method": func(t tithe.Tithe) string { return t.Method },
	},
	Compare: map[string]func(a, b tithe.Tithe) int{
		"amount": byAmount(func(t tithe.Tithe) int64 { return t.Amount }),
		"date":   byDate(func(t tithe.Tithe) time.Time { return t.Date }),
	},
}

var offeringMatcher = listutil.Matcher[offering.Offering]{
	Search: []func(offering.Offering) string{
		func(o offering.Offering) string { return o.ServiceType },
		func(o offering.Offering) string { return o.CountedBy },
	},
	Fields: map[string]func(offering.Offering) string{
		"service_type": func(o offering.Offering) string { return o.ServiceType },
	},
	Compare: map[string]func(a, b offering.Offering) int{
		"total": byAmount(offering.Offering.Total),
		"date":  byDate(func(o offering.Offering) time.Time { return o.Date }),
	},
}

var donationMatcher = listutil.Matcher[donation.Donation]{
	Search: []func(donation.Donation) string{
		func(d donation.Donation) string { return d.DonorName },
		func(d donation.Donation) string { return d.DonorEmail },
	},
	Fields: map[string]func(donation.Donation) string{
		"name":    func(d donation.Donation) string { return lower(d.DonorName) },
		"fund":    func(d donation.Donation) string { return d.Fund },
		"channel": func(d donation.Donation) string { return d.Channel },
		"status":  func(d donation.Donation) string { return d.Status },
	},
	Compare: map[string]func(a, b donation.Donation) int{
		"amount": byAmount(func(d donation.Donation) int64 { return d.Amount }),
		"date":   byDate(func(d donation.Donation) time.Time { return d.Date }),
	},
}

var sermonMatcher = listutil.Matcher[sermon.Sermon]{
	Search: []func(sermon.Sermon) string{
		func(s sermon.Sermon) string { return s.Title },
		func(s sermon.Sermon) string { return s.Preacher },
		func(s sermon.Sermon) string { return s.Scripture },
		func(s sermon.Sermon) string { return strings.Join(s.Tags, " ") },
	},
	Fields: map[string]func(sermon.Sermon) string{
		"title":    func(s sermon.Sermon) string { return lower(s.Title) },
		"series":   func(s sermon.Sermon) string { return s.Series },
		"preacher": func(s sermon.Sermon) string { return s.Preacher },
		"status":   func(s sermon.Sermon) string { return s.Status },
	},
	Compare: map[string]func(a, b sermon.Sermon) int{
		"date": byDate(func(s sermon.Sermon) time.Time { return s.Date }),
	},
}

var mediaMatcher = listutil.Matcher[media.File]{
	Search: []func(media.File) string{
		func(f media.File) string { return f.Title },
		func(f media.File) string { return strings.Join(f.Tags, " ") },
	},
	Fields: map[string]func(media.File) string{
		"title":    func(f media.File) string { return lower(f.Title) },
		"category": func(f media.File) string { return f.Category },
	},
	Compare: map[string]func(a, b media.File) int{
		"size":     byAmount(func(f media.File) int64 { return f.Size }),
		"uploaded": byDate(func(f media.File) time.Time { return f.UploadedAt }),
	},
}

var prayerMatcher = listutil.Matcher[prayer.Request]{
	Search: []func(prayer.Request) string{
		func(r prayer.Request) string { return r.Name },
		func(r prayer.Request) string { return r.Request },
	},
	Fields: map[string]func(prayer.Request) string{
		"name":     func(r prayer.Request) string { return lower(r.Name) },
		"category": func(r prayer.Request) string { return r.Category },
		"status":   func(r prayer.Request) string { return r.Status },
	},
	Compare: map[string]func(a, b prayer.Request) int{
		"submitted": byDate(func(r prayer.Request) time.Time { return r.SubmittedAt }),
	},
}

var mailMatcher = listutil.Matcher[emailDomain.Email]{
	Search: []func(emailDomain.Email) string{
		func(e emailDomain.Email) string { return e.Subject },
		func(e emailDomain.Email) string { return e.From },
		func(e emailDomain.Email) string { return strings.Join(e.To, " ") },
	},
	Fields: map[string]func(emailDomain.Email) string{
		"folder":  func(e emailDomain.Email) string { return e.Folder },
		"status":  func(e emailDomain.Email) string { return e.Status },
		"subject": func(e emailDomain.Email) string { return lower(e.Subject) },
	},
	Compare: map[string]func(a, b emailDomain.Email) int{
		"created": byDate(func(e emailDomain.Email) time.Time { return e.CreatedAt }),
	},
}
