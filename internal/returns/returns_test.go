package returns

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnayoung/go-dca-simulator/internal/errs"
	"github.com/johnayoung/go-dca-simulator/internal/models"
)

func record(day int, amount, price, sats, fee, totalInvested, totalSats string) models.PurchaseRecord {
	return models.PurchaseRecord{
		Date:          time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
		DCAAmount:     amount,
		Price:         price,
		Sats:          sats,
		Fee:           fee,
		TotalInvested: totalInvested,
		TotalSats:     totalSats,
	}
}

func TestComputeROI(t *testing.T) {
	// Two 1000 purchases at 40000 with a 1% fee, then the price doubles.
	records := []models.PurchaseRecord{
		record(1, "1000", "40000", "2475000", "10", "1000", "2475000"),
		record(2, "1000", "40000", "2475000", "10", "2000", "4950000"),
	}

	summary, err := ComputeROI(records, decimal.NewFromInt(80000))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Buys)
	assert.True(t, decimal.NewFromInt(2000).Equal(summary.TotalInvested))
	assert.True(t, decimal.NewFromInt(20).Equal(summary.TotalFees))
	assert.True(t, decimal.NewFromInt(4950000).Equal(summary.TotalSats))

	// 4950000 sats = 0.0495 BTC; at 80000 that is 3960.
	assert.True(t, decimal.NewFromInt(3960).Equal(summary.CurrentValue), "got %s", summary.CurrentValue)
	// (3960 - 2000) / 2000 * 100 = 98%
	assert.Equal(t, "98.00", summary.ROIPercent.StringFixed(2))
}

func TestComputeROIIdempotent(t *testing.T) {
	records := []models.PurchaseRecord{
		record(1, "250", "30000", "825000", "2.5", "250", "825000"),
		record(8, "250", "32000", "773437.5", "2.5", "500", "1598437.5"),
	}
	price := decimal.NewFromInt(45000)

	first, err := ComputeROI(records, price)
	require.NoError(t, err)
	second, err := ComputeROI(records, price)
	require.NoError(t, err)

	assert.True(t, first.ROIPercent.Equal(second.ROIPercent))
	assert.True(t, first.TotalFees.Equal(second.TotalFees))
	assert.True(t, first.CurrentValue.Equal(second.CurrentValue))
	assert.Equal(t, first.Buys, second.Buys)
}

func TestComputeROIEmptyPortfolio(t *testing.T) {
	summary, err := ComputeROI(nil, decimal.NewFromInt(50000))
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, errs.ErrEmptyPortfolio)

	summary, err = ComputeROI([]models.PurchaseRecord{}, decimal.NewFromInt(50000))
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, errs.ErrEmptyPortfolio)
}

func TestComputeROIRejectsNonPositivePrice(t *testing.T) {
	records := []models.PurchaseRecord{
		record(1, "100", "40000", "247500", "1", "100", "247500"),
	}
	_, err := ComputeROI(records, decimal.Zero)
	assert.Error(t, err)
	_, err = ComputeROI(records, decimal.NewFromInt(-5))
	assert.Error(t, err)
}

func TestComputeROIRejectsMalformedRecord(t *testing.T) {
	records := []models.PurchaseRecord{
		record(1, "not-a-number", "40000", "247500", "1", "100", "247500"),
	}
	_, err := ComputeROI(records, decimal.NewFromInt(50000))
	assert.Error(t, err)
}

func TestComputeROINegativeReturn(t *testing.T) {
	// One purchase at 40000, price halves.
	records := []models.PurchaseRecord{
		record(1, "1000", "40000", "2475000", "10", "1000", "2475000"),
	}
	summary, err := ComputeROI(records, decimal.NewFromInt(20000))
	require.NoError(t, err)
	assert.True(t, summary.ROIPercent.IsNegative())
	// 0.02475 BTC at 20000 = 495; ROI = (495-1000)/1000*100 = -50.5%
	assert.Equal(t, "-50.50", summary.ROIPercent.StringFixed(2))
}
