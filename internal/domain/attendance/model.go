package attendance

import (
	"errors"
	"time"

	"steward/internal/domain/validation"
)

// Service types.
const (
	ServiceSunday  = "Sunday Service"
	ServiceMidweek = "Midweek Service"
	ServiceYouth   = "Youth Service"
	ServicePrayer  = "Prayer Meeting"
)

// Kinds of attendee.
const (
	KindMember  = "member"
	KindVisitor = "visitor"
	KindGuest   = "guest"
)

// ServiceTypes lists every service type.
var ServiceTypes = []string{ServiceSunday, ServiceMidweek, ServiceYouth, ServicePrayer}

// Kinds lists every attendee kind.
var Kinds = []string{KindMember, KindVisitor, KindGuest}

// ErrAlreadyCheckedIn is returned when a person is checked in twice for one service.
var ErrAlreadyCheckedIn = errors.New("already checked in for this service")

// Attendance is one person's check-in for one service.
type Attendance struct {
	ID          string
	ServiceDate time.Time
	ServiceType string
	PersonID    string
	PersonName  string
	Kind        string
	CheckedInAt time.Time
}

// Key returns the record identifier.
func (a *Attendance) Key() string { return a.ID }

// SetKey assigns the record identifier.
func (a *Attendance) SetKey(id string) { a.ID = id }

// Validate checks required fields are present.
func (a *Attendance) Validate() error {
	errs := validation.Errors{}
	errs.Required("person_name", a.PersonName)
	errs.Required("service_type", a.ServiceType)
	if a.ServiceDate.IsZero() {
		errs.Add("service_date", "is required")
	}
	return errs.Err()
}

// SameService reports whether other records the same person at the same service.
// People without an ID are matched by name.
func (a *Attendance) SameService(other Attendance) bool {
	if a.ServiceType != other.ServiceType || !sameDay(a.ServiceDate, other.ServiceDate) {
		return false
	}
	if a.PersonID != "" || other.PersonID != "" {
		return a.PersonID == other.PersonID
	}
	return a.PersonName == other.PersonName
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
