package projections

import (
	"sort"
	"time"

	"steward/internal/domain/donation"
	"steward/internal/domain/offering"
	"steward/internal/domain/tithe"
)

// Sources of giving.
const (
	SourceTithe    = "Tithes"
	SourceOffering = "Offerings"
	SourceDonation = "Donations"
)

// Settlement kinds of a gift.
const (
	Cash    = "Cash"
	Digital = "Digital"
)

// Gift is one received amount, whatever record it came from.
type Gift struct {
	Date       time.Time
	Source     string
	Name       string // member, service or donor
	Method     string
	Settlement string // Cash or Digital
	Fund       string
	Amount     int64
}

// Gifts flattens tithes, offerings and completed donations into one list, newest first.
// An offering contributes one gift per non-zero amount.
func Gifts(tithes []tithe.Tithe, offerings []offering.Offering, donations []donation.Donation) []Gift {
	gifts := make([]Gift, 0, len(tithes)+2*len(offerings)+len(donations))
	for _, t := range tithes {
		settlement := Digital
		if t.IsCash() {
			settlement = Cash
		}
		gifts = append(gifts, Gift{Date: t.Date, Source: SourceTithe, Name: t.MemberName, Method: t.Method, Settlement: settlement, Fund: donation.FundGeneral, Amount: t.Amount})
	}
	for _, o := range offerings {
		if o.CashAmount != 0 {
			gifts = append(gifts, Gift{Date: o.Date, Source: SourceOffering, Name: o.ServiceType, Method: Cash, Settlement: Cash, Fund: donation.FundGeneral, Amount: o.CashAmount})
		}
		if o.DigitalAmount != 0 {
			gifts = append(gifts, Gift{Date: o.Date, Source: SourceOffering, Name: o.ServiceType, Method: Digital, Settlement: Digital, Fund: donation.FundGeneral, Amount: o.DigitalAmount})
		}
	}
	for _, d := range donations {
		if d.Status != donation.StatusCompleted {
			continue
		}
		gifts = append(gifts, Gift{Date: d.Date, Source: SourceDonation, Name: d.DonorName, Method: d.Channel, Settlement: Digital, Fund: d.Fund, Amount: d.Amount})
	}
	sort.SliceStable(gifts, func(i, j int) bool { return gifts[i].Date.After(gifts[j].Date) })
	return gifts
}

func giftAmount(g Gift) int64 { return g.Amount }
func giftDate(g Gift) time.Time { return g.Date }
func giftSource(g Gift) string { return g.Source }
func giftFund(g Gift) string { return g.Fund }
func giftSettlement(g Gift) string { return g.Settlement }
