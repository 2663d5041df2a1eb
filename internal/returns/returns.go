// Package returns aggregates persisted purchase records into the
// return-on-investment summary. It always re-derives its numbers from the
// record store output rather than from in-memory simulator state, so the
// store remains the single source of truth for reporting.
package returns

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/johnayoung/go-dca-simulator/internal/errs"
	"github.com/johnayoung/go-dca-simulator/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Summary is the aggregate outcome of a DCA run valued at a current price.
type Summary struct {
	ROIPercent    decimal.Decimal
	Buys          int
	TotalInvested decimal.Decimal
	TotalSats     decimal.Decimal
	TotalFees     decimal.Decimal
	CurrentValue  decimal.Decimal
}

// ComputeROI folds the records into totals and values the accumulated
// subunits at currentPrice:
//
//	currentValue = totalSats / 1e8 * currentPrice
//	roiPercent   = (currentValue - totalInvested) / totalInvested * 100
//
// The computation is pure and idempotent: the same records and price always
// yield the same summary. An empty record set returns
// errs.ErrEmptyPortfolio rather than dividing by a zero investment.
func ComputeROI(records []models.PurchaseRecord, currentPrice decimal.Decimal) (*Summary, error) {
	if len(records) == 0 {
		return nil, errs.ErrEmptyPortfolio
	}
	if currentPrice.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("current price must be greater than 0, got %s", currentPrice)
	}

	totalInvested := decimal.Zero
	totalSats := decimal.Zero
	totalFees := decimal.Zero

	for i := range records {
		amount, err := records[i].GetDCAAmountDecimal()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		sats, err := records[i].GetSatsDecimal()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		fee, err := records[i].GetFeeDecimal()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		totalInvested = totalInvested.Add(amount)
		totalSats = totalSats.Add(sats)
		totalFees = totalFees.Add(fee)
	}

	currentValue := totalSats.Div(models.SatsPerCoin).Mul(currentPrice)
	roi := currentValue.Sub(totalInvested).Div(totalInvested).Mul(hundred)

	return &Summary{
		ROIPercent:    roi,
		Buys:          len(records),
		TotalInvested: totalInvested,
		TotalSats:     totalSats,
		TotalFees:     totalFees,
		CurrentValue:  currentValue,
	}, nil
}
