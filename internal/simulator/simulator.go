// Package simulator walks a purchase schedule against a historical price
// map and produces the resolved purchase records. The nominal amount and
// fee percentage are constant across the run: a DCA plan is a single fixed
// strategy, not a per-date decision.
package simulator

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/johnayoung/go-dca-simulator/internal/errs"
	"github.com/johnayoung/go-dca-simulator/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Simulator computes purchase records from a schedule and a price map.
type Simulator struct {
	logger *slog.Logger
}

// New creates a Simulator. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{logger: logger}
}

// Simulate produces one PurchaseRecord per scheduled date that has a
// closing price in prices, in schedule order. Dates absent from the map
// are returned as gap notices and contribute nothing to the cumulative
// totals; a missing price is never treated as zero and never substituted
// with a neighboring day's close.
//
// For each resolved date:
//
//	fee  = amount * feePercent / 100
//	sats = (amount - fee) / price * 1e8
//
// TotalInvested and TotalSats accumulate over resolved dates only, so the
// k-th record's TotalInvested equals k * amount.
func (s *Simulator) Simulate(dates []time.Time, pair string, amount, feePercent decimal.Decimal, prices models.PriceMap) ([]models.PurchaseRecord, []errs.GapNotice) {
	fee := amount.Mul(feePercent).Div(hundred)

	records := make([]models.PurchaseRecord, 0, len(dates))
	var gaps []errs.GapNotice

	totalInvested := decimal.Zero
	totalSats := decimal.Zero

	for _, date := range dates {
		price, ok := prices.Lookup(date)
		if !ok {
			gap := errs.GapNotice{Date: date, Pair: pair}
			gaps = append(gaps, gap)
			s.logger.Warn("no closing price for scheduled date, skipping",
				"pair", pair,
				"date", date.Format(models.DateFormat))
			continue
		}

		sats := amount.Sub(fee).Div(price).Mul(models.SatsPerCoin)
		totalInvested = totalInvested.Add(amount)
		totalSats = totalSats.Add(sats)

		records = append(records, models.PurchaseRecord{
			Date:          date,
			DCAAmount:     amount.String(),
			Price:         price.String(),
			Sats:          sats.String(),
			Fee:           fee.String(),
			TotalInvested: totalInvested.String(),
			TotalSats:     totalSats.String(),
		})
	}

	s.logger.Info("simulation complete",
		"pair", pair,
		"scheduled", len(dates),
		"resolved", len(records),
		"skipped", len(gaps))

	return records, gaps
}
