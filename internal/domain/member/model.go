package member

import (
	"errors"
	"time"

	"steward/internal/domain/validation"
)

// Status values.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Ministries a member can serve in.
var Ministries = []string{"Choir", "Ushering", "Children", "Youth", "Media", "Hospitality", "Prayer", "None"}

// Statuses lists every member status.
var Statuses = []string{StatusActive, StatusInactive}

// Domain errors
var (
	ErrAlreadyInactive = errors.New("member is already inactive")
	ErrAlreadyActive   = errors.New("member is already active")
)

// Member is a registered member of the congregation.
type Member struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Gender   string
	Ministry string
	Status   string
	Address  string
	JoinedOn time.Time
}

// Key returns the record identifier.
func (m *Member) Key() string { return m.ID }

// SetKey assigns the record identifier.
func (m *Member) SetKey(id string) { m.ID = id }

// Validate checks required fields are present.
// PRE: Member struct is initialized
// POST: Returns validation.Errors naming every missing field, nil otherwise
func (m *Member) Validate() error {
	errs := validation.Errors{}
	errs.Required("name", m.Name)
	errs.Required("status", m.Status)
	return errs.Err()
}

// IsActive returns true if the member is currently active.
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// Deactivate marks the member inactive.
// PRE: Member is active
// POST: Status is Inactive
func (m *Member) Deactivate() error {
	if m.Status == StatusInactive {
		return ErrAlreadyInactive
	}
	m.Status = StatusInactive
	return nil
}

// Reactivate marks the member active again.
func (m *Member) Reactivate() error {
	if m.Status == StatusActive {
		return ErrAlreadyActive
	}
	m.Status = StatusActive
	return nil
}
