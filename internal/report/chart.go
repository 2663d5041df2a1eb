package report

import (
	"fmt"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/johnayoung/go-dca-simulator/internal/models"
	"github.com/johnayoung/go-dca-simulator/internal/returns"
)

// RenderChart writes a PNG plotting cumulative nominal investment and
// cumulative value (each purchase valued at its own historical price)
// against purchase date. The legend carries the ROI and the run totals.
func RenderChart(path string, records []models.PurchaseRecord, s *returns.Summary) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to chart")
	}

	dates := make([]time.Time, 0, len(records))
	invested := make([]float64, 0, len(records))
	value := make([]float64, 0, len(records))

	for i := range records {
		r := &records[i]
		totalInvested, err := r.GetTotalInvestedDecimal()
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		historicalValue, err := r.HistoricalValue()
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		dates = append(dates, r.Date)
		invested = append(invested, totalInvested.InexactFloat64())
		value = append(value, historicalValue.InexactFloat64())
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("Nom. Investment vs Current Value (%d buys, %s fees)",
			s.Buys, money(s.TotalFees)),
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis: chart.YAxis{
			Name: "USD",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    fmt.Sprintf("Invested USD (%s)", money(s.TotalInvested)),
				XValues: dates,
				YValues: invested,
			},
			chart.TimeSeries{
				Name:    fmt.Sprintf("Current Value (ROI: %s%%, now %s)", s.ROIPercent.StringFixed(2), money(s.CurrentValue)),
				XValues: dates,
				YValues: value,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer file.Close()

	if err := graph.Render(chart.PNG, file); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
