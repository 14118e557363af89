package visitor

import (
	"errors"
	"slices"
	"time"

	"steward/internal/domain/validation"
)

// Status values, in follow-up order.
const (
	StatusNew       = "New"
	StatusContacted = "Contacted"
	StatusFollowUp  = "Follow-up"
	StatusConverted = "Converted"
)

// Statuses lists every visitor status.
var Statuses = []string{StatusNew, StatusContacted, StatusFollowUp, StatusConverted}

// ErrAlreadyConverted is returned when converting a visitor twice.
var ErrAlreadyConverted = errors.New("visitor has already been converted to a member")

// Visitor is a first-time or returning guest being followed up.
type Visitor struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	VisitDate time.Time
	Status    string
	InvitedBy string
	Interests []string
	Notes     string
}

// Key returns the record identifier.
func (v *Visitor) Key() string { return v.ID }

// Clone returns a copy that shares no slices with v.
func (v Visitor) Clone() Visitor {
	v.Interests = slices.Clone(v.Interests)
	return v
}

// SetKey assigns the record identifier.
func (v *Visitor) SetKey(id string) { v.ID = id }

// Validate checks required fields are present.
func (v *Visitor) Validate() error {
	errs := validation.Errors{}
	errs.Required("name", v.Name)
	errs.Required("status", v.Status)
	if v.VisitDate.IsZero() {
		errs.Add("visit_date", "is required")
	}
	return errs.Err()
}

// MarkConverted records that the visitor joined as a member.
// PRE: visitor is not already converted
// POST: Status is Converted
func (v *Visitor) MarkConverted() error {
	if v.Status == StatusConverted {
		return ErrAlreadyConverted
	}
	v.Status = StatusConverted
	return nil
}
