package settings

import (
	"time"

	"golang.org/x/text/currency"

	"steward/internal/domain/validation"
)

// DefaultCurrency is used until the church configures its own.
const DefaultCurrency = "USD"

// Settings is the church profile shown across the dashboard.
type Settings struct {
	ChurchName   string
	Address      string
	Phone        string
	Email        string
	CurrencyCode string
	Timezone     string
	ServiceTimes string
	UpdatedAt    time.Time
}

// Defaults returns the settings used before anything is saved.
func Defaults() Settings {
	return Settings{
		ChurchName:   "Grace Community Church",
		CurrencyCode: DefaultCurrency,
		Timezone:     "UTC",
		ServiceTimes: "Sunday 9:00 AM, Wednesday 6:30 PM",
	}
}

// Validate checks required fields and that the currency and timezone are recognised.
func (s *Settings) Validate() error {
	errs := validation.Errors{}
	errs.Required("church_name", s.ChurchName)
	errs.Required("currency_code", s.CurrencyCode)
	if s.CurrencyCode != "" {
		if _, err := currency.ParseISO(s.CurrencyCode); err != nil {
			errs.Add("currency_code", "is not an ISO 4217 code")
		}
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			errs.Add("timezone", "is not a known timezone")
		}
	}
	return errs.Err()
}

// Location returns the configured timezone, falling back to UTC.
func (s Settings) Location() *time.Location {
	if loc, err := time.LoadLocation(s.Timezone); err == nil && s.Timezone != "" {
		return loc
	}
	return time.UTC
}
