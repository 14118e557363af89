package tithe

import (
	"time"

	"steward/internal/domain/validation"
)

// Payment methods.
const (
	MethodCash     = "Cash"
	MethodTransfer = "Bank Transfer"
	MethodCard     = "Card"
	MethodMobile   = "Mobile Money"
	MethodCheque   = "Cheque"
)

// Methods lists every payment method.
var Methods = []string{MethodCash, MethodTransfer, MethodCard, MethodMobile, MethodCheque}

// Tithe is a member's tithe payment. Amount is in minor currency units.
type Tithe struct {
	ID         string
	MemberID   string
	MemberName string
	Amount     int64
	Method     string
	Date       time.Time
	Reference  string
	Notes      string
}

// Key returns the record identifier.
func (t *Tithe) Key() string { return t.ID }

// SetKey assigns the record identifier.
func (t *Tithe) SetKey(id string) { t.ID = id }

// Validate checks required fields are present.
func (t *Tithe) Validate() error {
	errs := validation.Errors{}
	errs.Required("member_name", t.MemberName)
	errs.Required("method", t.Method)
	errs.RequiredPositive("amount", t.Amount)
	if t.Date.IsZero() {
		errs.Add("date", "is required")
	}
	return errs.Err()
}

// IsCash reports whether the tithe was paid in cash.
func (t Tithe) IsCash() bool {
	return t.Method == MethodCash
}

// CashAmount returns the amount when paid in cash, zero otherwise.
func (t Tithe) CashAmount() int64 {
	if t.IsCash() {
		return t.Amount
	}
	return 0
}

// DigitalAmount returns the amount when paid by any non-cash method.
func (t Tithe) DigitalAmount() int64 {
	if t.IsCash() {
		return 0
	}
	return t.Amount
}
