package projections

import (
	"context"
	"fmt"

	"steward/internal/application/stats"
	"steward/internal/domain/donation"
	"steward/internal/domain/offering"
	"steward/internal/domain/tithe"

	"golang.org/x/sync/errgroup"
)

// GetFinanceReportQuery carries input for the finance report.
type GetFinanceReportQuery struct {
	Period Period
}

// GetFinanceReportDeps holds dependencies for the finance report.
type GetFinanceReportDeps struct {
	Tithes    Lister[tithe.Tithe]
	Offerings Lister[offering.Offering]
	Donations Lister[donation.Donation]
}

// FinanceReport is giving over a period.
type FinanceReport struct {
	Period     Period
	Summary    stats.Summary[int64]
	BySource   []stats.Share[int64]
	ByFund     []stats.Share[int64]
	Settlement []stats.Share[int64] // Cash vs Digital
	Monthly    []stats.Point[int64] // one point per month of the period
	Gifts      []Gift               // newest first
}

// GetFinanceReport loads every giving record concurrently and aggregates the period.
// PRE: query.Period has both bounds set
// POST: Monthly covers every month of the period, zero-filled
// INVARIANT: a failed load fails the whole report
func GetFinanceReport(ctx context.Context, query GetFinanceReportQuery, deps GetFinanceReportDeps) (FinanceReport, error) {
	var (
		tithes    []tithe.Tithe
		offerings []offering.Offering
		donations []donation.Donation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tithes, err = deps.Tithes.List(gctx)
		return wrapLoad("tithes", err)
	})
	g.Go(func() (err error) {
		offerings, err = deps.Offerings.List(gctx)
		return wrapLoad("offerings", err)
	})
	g.Go(func() (err error) {
		donations, err = deps.Donations.List(gctx)
		return wrapLoad("donations", err)
	})
	if err := g.Wait(); err != nil {
		return FinanceReport{}, err
	}

	gifts := within(Gifts(tithes, offerings, donations), query.Period, giftDate)
	return FinanceReport{
		Period:   query.Period,
		Summary:  stats.Summarize(gifts, giftAmount),
		BySource: stats.Breakdown(gifts, giftSource, giftAmount),
		ByFund:   stats.Breakdown(gifts, giftFund, giftAmount),
		Settlement: stats.Split(gifts,
			stats.Part[Gift, int64]{Label: Cash, Amount: settled(Cash)},
			stats.Part[Gift, int64]{Label: Digital, Amount: settled(Digital)},
		),
		Monthly: stats.Fill(stats.Monthly(gifts, giftDate, giftAmount), query.Period.To, query.Period.Months()),
		Gifts:   gifts,
	}, nil
}

func settled(kind string) func(Gift) int64 {
	return func(g Gift) int64 {
		if g.Settlement == kind {
			return g.Amount
		}
		return 0
	}
}

func wrapLoad(what string, err error) error {
	if err != nil {
		return fmt.Errorf("load %s: %w", what, err)
	}
	return nil
}
