// Package models provides the data structures and validation for the DCA
// simulation: the schedule configuration, the per-purchase record, and the
// date-indexed price map supplied by the price source.
//
// Monetary and unit quantities are carried as decimal strings and parsed
// with shopspring/decimal on demand. The record store must round-trip
// records exactly in textual form, so the string is the canonical
// representation and decimal.Decimal is the calculation view.
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SatsPerCoin is the number of subunits per whole unit of the asset.
// Bitcoin is divisible to 1e-8, so one coin is 1e8 satoshis.
var SatsPerCoin = decimal.NewFromInt(100_000_000)

// DateFormat is the calendar-day key format used for price lookups and for
// the persisted record store.
const DateFormat = "2006-01-02"

// Frequency enumerates the supported purchase cadences.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency converts a user-supplied string into a Frequency.
// Matching is case-insensitive to tolerate interactive input.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(normalize(s)) {
	case FrequencyDaily:
		return FrequencyDaily, nil
	case FrequencyWeekly:
		return FrequencyWeekly, nil
	case FrequencyMonthly:
		return FrequencyMonthly, nil
	default:
		return "", fmt.Errorf("unrecognized frequency %q, want daily, weekly or monthly", s)
	}
}

func normalize(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// ScheduleConfig holds the parameters that drive buy-date generation.
// It is immutable once constructed; Validate is called at the input
// boundary before any date is generated.
type ScheduleConfig struct {
	Frequency      Frequency `json:"frequency"`
	DurationMonths int       `json:"duration_months"`
}

// Validate checks the schedule configuration. DurationMonths must be a
// positive integer and Frequency one of the supported cadences.
func (c ScheduleConfig) Validate() error {
	if _, err := ParseFrequency(string(c.Frequency)); err != nil {
		return err
	}
	if c.DurationMonths <= 0 {
		return fmt.Errorf("duration must be a positive number of months, got %d", c.DurationMonths)
	}
	return nil
}

// PriceMap maps an ISO calendar date (YYYY-MM-DD, UTC) to that day's
// closing price as a decimal string. Entries may be missing for specific
// dates; such dates are dropped from the simulation, not interpolated.
type PriceMap map[string]string

// Lookup returns the closing price for a calendar date, if present.
func (p PriceMap) Lookup(date time.Time) (decimal.Decimal, bool) {
	s, ok := p[date.UTC().Format(DateFormat)]
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// PurchaseRecord is one resolved purchase: a scheduled date that had a
// known closing price. Records are created once, are immutable after
// creation, and are ordered by date ascending. The cumulative fields are a
// running fold over all prior records in date order.
type PurchaseRecord struct {
	Date          time.Time `json:"date"`
	DCAAmount     string    `json:"dca_amount"`
	Price         string    `json:"price"`
	Sats          string    `json:"sats"`
	Fee           string    `json:"fee"`
	TotalInvested string    `json:"total_invested"`
	TotalSats     string    `json:"total_sats"`
}

// Validate performs validation on the record's decimal fields and date.
func (r *PurchaseRecord) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("purchase record date cannot be zero")
	}
	fields := map[string]string{
		"dca_amount":     r.DCAAmount,
		"price":          r.Price,
		"sats":           r.Sats,
		"fee":            r.Fee,
		"total_invested": r.TotalInvested,
		"total_sats":     r.TotalSats,
	}
	for name, value := range fields {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
		if d.IsNegative() {
			return fmt.Errorf("%s must not be negative, got %s", name, value)
		}
	}
	price, _ := decimal.NewFromString(r.Price)
	if price.IsZero() {
		return fmt.Errorf("price must be greater than 0")
	}
	return nil
}

// GetDCAAmountDecimal returns the nominal purchase amount for calculations.
func (r *PurchaseRecord) GetDCAAmountDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(r.DCAAmount)
}

// GetPriceDecimal returns the historical closing price for calculations.
func (r *PurchaseRecord) GetPriceDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(r.Price)
}

// GetSatsDecimal returns the subunits acquired by this purchase.
func (r *PurchaseRecord) GetSatsDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(r.Sats)
}

// GetFeeDecimal returns the fee paid on this purchase.
func (r *PurchaseRecord) GetFeeDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(r.Fee)
}

// GetTotalInvestedDecimal returns the cumulative nominal investment up to
// and including this purchase.
func (r *PurchaseRecord) GetTotalInvestedDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(r.TotalInvested)
}

// GetTotalSatsDecimal returns the cumulative subunits acquired up to and
// including this purchase.
func (r *PurchaseRecord) GetTotalSatsDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(r.TotalSats)
}

// HistoricalValue returns the cumulative holdings valued at this record's
// own closing price, the series plotted against TotalInvested on the chart.
func (r *PurchaseRecord) HistoricalValue() (decimal.Decimal, error) {
	totalSats, err := r.GetTotalSatsDecimal()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse total sats: %w", err)
	}
	price, err := r.GetPriceDecimal()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse price: %w", err)
	}
	return totalSats.Div(SatsPerCoin).Mul(price), nil
}

// String returns a human-readable representation of the record.
func (r *PurchaseRecord) String() string {
	return fmt.Sprintf("Purchase{Date: %s, Amount: %s, Price: %s, Sats: %s, Fee: %s}",
		r.Date.Format(DateFormat), r.DCAAmount, r.Price, r.Sats, r.Fee)
}
