package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

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

	"github.com/google/uuid"
)

// Demo is a coherent set of sample records for every resource.
type Demo struct {
	Members    []member.Member
	Visitors   []visitor.Visitor
	Attendance []attendance.Attendance
	Tithes     []tithe.Tithe
	Offerings  []offering.Offering
	Donations  []donation.Donation
	Sermons    []sermon.Sermon
	Media      []media.File
	Prayers    []prayer.Request
	Emails     []email.Email
}

// DemoData builds sample records dated relative to now, spread over the last six months.
func DemoData(now time.Time) Demo {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	// Sundays, most recent first
	sunday := today.AddDate(0, 0, -int(today.Weekday()))
	sundays := make([]time.Time, 26)
	for i := range sundays {
		sundays[i] = sunday.AddDate(0, 0, -7*i)
	}
	id := func() string { return uuid.New().String() }

	var d Demo

	people := []struct {
		name, email, phone, gender, ministry, status string
		monthsAgo                                    int
	}{
		{"Grace Mensah", "grace.mensah@example.com", "+1 555 0101", "Female", "Choir", member.StatusActive, 40},
		{"Samuel Okoro", "samuel.okoro@example.com", "+1 555 0102", "Male", "Ushering", member.StatusActive, 30},
		{"Ruth Adeyemi", "ruth.adeyemi@example.com", "+1 555 0103", "Female", "Children", member.StatusActive, 24},
		{"David Chen", "david.chen@example.com", "+1 555 0104", "Male", "Media", member.StatusActive, 18},
		{"Esther Kamau", "esther.kamau@example.com", "+1 555 0105", "Female", "Hospitality", member.StatusActive, 14},
		{"Joshua Williams", "joshua.w@example.com", "+1 555 0106", "Male", "Youth", member.StatusActive, 9},
		{"Mary Johnson", "mary.johnson@example.com", "+1 555 0107", "Female", "Prayer", member.StatusInactive, 60},
		{"Peter Boateng", "peter.boateng@example.com", "+1 555 0108", "Male", "None", member.StatusActive, 3},
	}
	for _, p := range people {
		d.Members = append(d.Members, member.Member{
			ID: id(), Name: p.name, Email: p.email, Phone: p.phone, Gender: p.gender,
			Ministry: p.ministry, Status: p.status, JoinedOn: today.AddDate(0, -p.monthsAgo, 0),
			Address: "12 Church Street",
		})
	}

	d.Visitors = []visitor.Visitor{
		{ID: id(), Name: "Linda Park", Email: "linda.park@example.com", VisitDate: sundays[0], Status: visitor.StatusNew, InvitedBy: "Grace Mensah", Interests: []string{"Choir", "Bible Study"}},
		{ID: id(), Name: "Michael Brown", Phone: "+1 555 0201", VisitDate: sundays[1], Status: visitor.StatusContacted, Interests: []string{"Youth"}},
		{ID: id(), Name: "Aisha Bello", Email: "aisha.bello@example.com", VisitDate: sundays[3], Status: visitor.StatusFollowUp, InvitedBy: "Samuel Okoro", Notes: "Asked about membership class."},
		{ID: id(), Name: "Tom Harris", VisitDate: sundays[8], Status: visitor.StatusConverted, Interests: []string{"Media"}},
	}

	for i, s := range sundays[:8] {
		for j, m := range d.Members {
			if !m.IsActive() || (i+j)%4 == 0 {
				continue
			}
			d.Attendance = append(d.Attendance, attendance.Attendance{
				ID: id(), ServiceDate: s, ServiceType: attendance.ServiceSunday, PersonID: m.ID,
				PersonName: m.Name, Kind: attendance.KindMember, CheckedInAt: s.Add(9*time.Hour + time.Duration(j)*time.Minute),
			})
		}
	}
	for _, v := range d.Visitors {
		d.Attendance = append(d.Attendance, attendance.Attendance{
			ID: id(), ServiceDate: v.VisitDate, ServiceType: attendance.ServiceSunday, PersonID: v.ID,
			PersonName: v.Name, Kind: attendance.KindVisitor, CheckedInAt: v.VisitDate.Add(9 * time.Hour),
		})
	}
	midweek := sundays[0].AddDate(0, 0, 3)
	if midweek.After(today) {
		midweek = midweek.AddDate(0, 0, -7)
	}
	d.Attendance = append(d.Attendance,
		attendance.Attendance{ID: id(), ServiceDate: midweek, ServiceType: attendance.ServiceMidweek, PersonName: "Kofi Asante", Kind: attendance.KindGuest, CheckedInAt: midweek.Add(18 * time.Hour)},
	)

	methods := tithe.Methods
	for i := 0; i < 6; i++ {
		for j, m := range d.Members[:6] {
			d.Tithes = append(d.Tithes, tithe.Tithe{
				ID: id(), MemberID: m.ID, MemberName: m.Name,
				Amount: int64(5000 + 2500*j + 1000*i), Method: methods[(i+j)%len(methods)],
				Date: sundays[i*4].AddDate(0, 0, -j), Reference: fmt.Sprintf("T-%03d", i*10+j),
			})
		}
	}

	for i, s := range sundays[:12] {
		d.Offerings = append(d.Offerings, offering.Offering{
			ID: id(), ServiceType: attendance.ServiceSunday, Date: s,
			CashAmount: int64(42000 + 1500*i), DigitalAmount: int64(31000 + 900*i),
			CountedBy: "Samuel Okoro",
		})
	}

	donors := []struct {
		name, email, fund, channel, status string
		amount                             int64
		recurring                          bool
	}{
		{"Grace Mensah", "grace.mensah@example.com", donation.FundBuilding, donation.ChannelCard, donation.StatusCompleted, 50000, true},
		{"Anonymous", "", donation.FundGeneral, donation.ChannelTransfer, donation.StatusCompleted, 120000, false},
		{"David Chen", "david.chen@example.com", donation.FundMissions, donation.ChannelMobile, donation.StatusPending, 15000, false},
		{"Esther Kamau", "esther.kamau@example.com", donation.FundWelfare, donation.ChannelCard, donation.StatusCompleted, 25000, true},
		{"Samuel Okoro", "samuel.okoro@example.com", donation.FundGeneral, donation.ChannelCard, donation.StatusFailed, 10000, false},
		{"Ruth Adeyemi", "ruth.adeyemi@example.com", donation.FundBuilding, donation.ChannelTransfer, donation.StatusCompleted, 75000, false},
	}
	for i, dn := range donors {
		d.Donations = append(d.Donations, donation.Donation{
			ID: id(), DonorName: dn.name, DonorEmail: dn.email, Amount: dn.amount, Fund: dn.fund,
			Channel: dn.channel, Status: dn.status, Recurring: dn.recurring, Date: today.AddDate(0, -i, -2*i),
		})
	}

	sermons := []struct{ title, preacher, series, scripture, status string }{
		{"Walking in Faith", "Pastor John Mensah", "Foundations", "Hebrews 11:1-6", sermon.StatusPublished},
		{"The Good Shepherd", "Pastor John Mensah", "I Am", "John 10:11-18", sermon.StatusPublished},
		{"Bread of Life", "Rev. Sarah Owusu", "I Am", "John 6:35-40", sermon.StatusPublished},
		{"Light of the World", "Rev. Sarah Owusu", "I Am", "John 8:12", sermon.StatusDraft},
	}
	for i, s := range sermons {
		d.Sermons = append(d.Sermons, sermon.Sermon{
			ID: id(), Title: s.title, Preacher: s.preacher, Date: sundays[i], Series: s.series,
			Scripture: s.scripture, Status: s.status, Tags: []string{"sunday"},
			Notes: "## Outline\n1. Read the passage\n2. Reflect\n3. Respond",
		})
	}

	d.Media = []media.File{
		{ID: id(), Title: "Walking in Faith (audio)", Category: media.CategoryAudio, URL: "/uploads/demo/walking-in-faith.mp3", Size: 24_500_000, MimeType: "audio/mpeg", Tags: []string{"sermon"}, UploadedBy: "admin@church.com", UploadedAt: sundays[0].Add(14 * time.Hour)},
		{ID: id(), Title: "Easter Service", Category: media.CategoryVideo, URL: "/uploads/demo/easter.mp4", Size: 640_000_000, MimeType: "video/mp4", Tags: []string{"service", "easter"}, UploadedBy: "admin@church.com", UploadedAt: sundays[5].Add(15 * time.Hour)},
		{ID: id(), Title: "Church Picnic", Category: media.CategoryImage, URL: "/uploads/demo/picnic.jpg", Size: 3_200_000, MimeType: "image/jpeg", Tags: []string{"events"}, UploadedBy: "david.chen@example.com", UploadedAt: sundays[2].Add(16 * time.Hour)},
		{ID: id(), Title: "Quarterly Bulletin", Category: media.CategoryDocument, URL: "/uploads/demo/bulletin.pdf", Size: 850_000, MimeType: "application/pdf", Tags: []string{"bulletin"}, UploadedBy: "admin@church.com", UploadedAt: sundays[1].Add(10 * time.Hour)},
	}

	d.Prayers = []prayer.Request{
		{ID: id(), Name: "Mary Johnson", Request: "Healing for my mother after surgery.", Category: prayer.CategoryHealing, Status: prayer.StatusPraying, SubmittedAt: sundays[1],
			Updates: []prayer.Update{{At: sundays[1].AddDate(0, 0, 2), Author: "Prayer Team", Note: "Visited at the hospital."}}},
		{ID: id(), Name: "Joshua Williams", Email: "joshua.w@example.com", Request: "Guidance for university applications.", Category: prayer.CategoryGuidance, Status: prayer.StatusPending, SubmittedAt: sundays[0]},
		{ID: id(), Name: "Esther Kamau", Request: "Thank God for a safe delivery!", Category: prayer.CategoryThanksgiving, Status: prayer.StatusAnswered, SubmittedAt: sundays[4]},
		{ID: id(), Name: "Anonymous", Request: "Provision for rent this month.", Category: prayer.CategoryFinance, Status: prayer.StatusPending, Confidential: true, SubmittedAt: sundays[2]},
	}

	d.Emails = []email.Email{
		{ID: id(), Folder: email.FolderInbox, From: "grace.mensah@example.com", To: []string{"office@church.com"}, Subject: "Choir rehearsal schedule", Body: "Can we move rehearsal to Thursday?", Status: email.StatusSent, CreatedAt: today.Add(-26 * time.Hour)},
		{ID: id(), Folder: email.FolderInbox, From: "linda.park@example.com", To: []string{"office@church.com"}, Subject: "Thank you for Sunday", Body: "I really enjoyed the service.", Status: email.StatusSent, Read: true, Starred: true, CreatedAt: today.Add(-50 * time.Hour)},
		{ID: id(), Folder: email.FolderSent, From: "office@church.com", To: []string{"members@church.com"}, Subject: "This week at church", Body: "**Midweek service** is on Wednesday at 6:30 PM.", Status: email.StatusSent, Read: true, CreatedAt: today.Add(-72 * time.Hour), SentAt: today.Add(-72 * time.Hour)},
		{ID: id(), Folder: email.FolderDrafts, From: "office@church.com", To: []string{"volunteers@church.com"}, Subject: "Volunteer roster", Body: "Draft roster attached.", Status: email.StatusDraft, Read: true, CreatedAt: today.Add(-3 * time.Hour)},
	}

	return d
}

// DemoSeedDeps holds the stores seeded with demo data.
type DemoSeedDeps struct {
	Members    seedStore[member.Member]
	Visitors   seedStore[visitor.Visitor]
	Attendance seedStore[attendance.Attendance]
	Tithes     seedStore[tithe.Tithe]
	Offerings  seedStore[offering.Offering]
	Donations  seedStore[donation.Donation]
	Sermons    seedStore[sermon.Sermon]
	Media      seedStore[media.File]
	Prayers    seedStore[prayer.Request]
	Emails     seedStore[email.Email]
}

type seedStore[T any] interface {
	List(ctx context.Context) ([]T, error)
	Save(ctx context.Context, rec T) error
}

// ExecuteSeedDemo fills every empty store with demo records.
// It is idempotent: a store that already holds records is left alone.
// PRE: Database is migrated
// POST: every store has at least one record
func ExecuteSeedDemo(ctx context.Context, deps DemoSeedDeps, now time.Time) error {
	d := DemoData(now)
	steps := []func() (int, error){
		func() (int, error) { return seedIfEmpty(ctx, deps.Members, d.Members) },
		func() (int, error) { return seedIfEmpty(ctx, deps.Visitors, d.Visitors) },
		func() (int, error) { return seedIfEmpty(ctx, deps.Attendance, d.Attendance) },
		func() (int, error) { return seedIfEmpty(ctx, deps.Tithes, d.Tithes) },
		func() (int, error) { return seedIfEmpty(ctx, deps.Offerings, d.Offerings) },
		func() (int, error) { return seedIfEmpty(ctx, deps.Donations, d.Donations) },
		func() (int, error) { return seedIfEmpty(ctx, deps.Sermons, d.Sermons) },
		func() (int, error) { return seedIfEmpty(ctx, deps.Media, d.Media) },
		func() (int, error) { return seedIfEmpty(ctx, deps.Prayers, d.Prayers) },
		func() (int, error) { return seedIfEmpty(ctx, deps.Emails, d.Emails) },
	}
	created := 0
	for _, step := range steps {
		n, err := step()
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		created += n
	}
	if created > 0 {
		slog.Info("seed_event", "event", "demo_seeded", "records", created)
	}
	return nil
}

func seedIfEmpty[T any](ctx context.Context, store seedStore[T], items []T) (int, error) {
	if store == nil {
		return 0, nil
	}
	existing, err := store.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, rec := range items {
		if err := store.Save(ctx, rec); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}
