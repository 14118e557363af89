package offering

import (
	"time"

	"steward/internal/domain/validation"
)

// Offering is the counted offering of one service, in minor currency units.
type Offering struct {
	ID            string
	ServiceType   string
	Date          time.Time
	CashAmount    int64
	DigitalAmount int64
	CountedBy     string
	Notes         string
}

// Key returns the record identifier.
func (o *Offering) Key() string { return o.ID }

// SetKey assigns the record identifier.
func (o *Offering) SetKey(id string) { o.ID = id }

// Validate checks required fields are present.
// INVARIANT: at least one of the two amounts must be entered
func (o *Offering) Validate() error {
	errs := validation.Errors{}
	errs.Required("service_type", o.ServiceType)
	if o.Date.IsZero() {
		errs.Add("date", "is required")
	}
	if o.CashAmount <= 0 && o.DigitalAmount <= 0 {
		errs.Add("cash_amount", "is required")
	}
	return errs.Err()
}

// Total returns cash plus digital.
func (o Offering) Total() int64 {
	return o.CashAmount + o.DigitalAmount
}
