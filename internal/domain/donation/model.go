package donation

import (
	"time"

	"steward/internal/domain/validation"
)

// Funds a donation can be designated to.
const (
	FundGeneral  = "General"
	FundBuilding = "Building Fund"
	FundMissions = "Missions"
	FundWelfare  = "Welfare"
)

// Channels for online giving.
const (
	ChannelCard     = "Card"
	ChannelTransfer = "Bank Transfer"
	ChannelMobile   = "Mobile Money"
)

// Status values. Payments are never processed here; Pending is the initial state.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
	StatusFailed    = "Failed"
)

var (
	Funds    = []string{FundGeneral, FundBuilding, FundMissions, FundWelfare}
	Channels = []string{ChannelCard, ChannelTransfer, ChannelMobile}
	Statuses = []string{StatusPending, StatusCompleted, StatusFailed}
)

// Donation is an online gift, in minor currency units.
type Donation struct {
	ID         string
	DonorName  string
	DonorEmail string
	Amount     int64
	Fund       string
	Channel    string
	Status     string
	Recurring  bool
	Date       time.Time
}

// Key returns the record identifier.
func (d *Donation) Key() string { return d.ID }

// SetKey assigns the record identifier.
func (d *Donation) SetKey(id string) { d.ID = id }

// Validate checks required fields are present.
func (d *Donation) Validate() error {
	errs := validation.Errors{}
	errs.Required("donor_name", d.DonorName)
	errs.Required("fund", d.Fund)
	errs.RequiredPositive("amount", d.Amount)
	if d.Date.IsZero() {
		errs.Add("date", "is required")
	}
	return errs.Err()
}
