// Package report renders the persisted purchase records for humans: a
// console table of every purchase, a summary block of the run's outcome,
// and a chart image comparing nominal investment against portfolio value.
// Everything here reads from the record store output; nothing reaches back
// into the simulator.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/johnayoung/go-dca-simulator/internal/models"
	"github.com/johnayoung/go-dca-simulator/internal/returns"
)

// WriteTable renders all records as a bordered console table in date
// order. An empty record set prints a short notice instead of an empty
// grid.
func WriteTable(w io.Writer, records []models.PurchaseRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No purchases recorded.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Buy Date", "DCA Amount", "Historical Price", "Sats", "Fee", "Total Invested", "Total Sats"})
	table.SetAutoFormatHeaders(false)
	for i := range records {
		r := &records[i]
		table.Append([]string{
			r.Date.Format(models.DateFormat),
			r.DCAAmount,
			r.Price,
			r.Sats,
			r.Fee,
			r.TotalInvested,
			r.TotalSats,
		})
	}
	table.Render()
}

// WriteSummary prints the run outcome block: ROI, purchase count, nominal
// investment, sats and whole-coin totals, fees, and current value.
func WriteSummary(w io.Writer, s *returns.Summary) {
	coins := s.TotalSats.Div(models.SatsPerCoin)

	fmt.Fprintf(w, "ROI: %s%%\n", s.ROIPercent.StringFixed(2))
	fmt.Fprintf(w, "Number of Purchases: %d\n", s.Buys)
	fmt.Fprintf(w, "Nom. Investment: $%s\n", s.TotalInvested.StringFixed(2))
	fmt.Fprintf(w, "Sats Purchased: %s\n", s.TotalSats.Round(0))
	fmt.Fprintf(w, "BTC Purchased: %s\n", coins.StringFixed(8))
	fmt.Fprintf(w, "Total Fees: $%s\n", s.TotalFees.StringFixed(2))
	fmt.Fprintf(w, "Current Value: $%s\n", s.CurrentValue.StringFixed(2))
}

// money formats a decimal for axis labels and legends.
func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
