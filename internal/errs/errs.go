// Package errs defines the error taxonomy shared by all DCA simulator
// components. Errors are detected at the boundary closest to their cause:
// input validation at collection time, price-source failures immediately
// after the fetch call. A missing price for a single scheduled date is not
// an error at all; it is reported as a GapNotice and the date is skipped.
package errs

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyPortfolio is returned when an ROI is requested over a record set
// with zero resolved purchases. Division by a zero total investment is a
// defined failure, never a NaN.
var ErrEmptyPortfolio = errors.New("empty portfolio: no purchases to compute ROI from")

// ValidationError represents malformed or out-of-range user input.
// It is recovered locally by re-prompting and never surfaces as a crash.
type ValidationError struct {
	Field   string // Field is the name of the input that failed validation
	Message string // Message describes the constraint that was violated
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidation creates a ValidationError for the given input field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PriceUnavailableError indicates the price source returned no usable data,
// either for a historical range or for the latest quote. It is terminal for
// the run: no record store, report, or chart is produced after it.
type PriceUnavailableError struct {
	Pair string // Pair is the asset symbol the fetch was issued for
	Op   string // Op is the fetch operation, "range" or "latest"
	Err  error  // Err is the underlying cause, nil when the source simply had no data
}

// Error implements the error interface for PriceUnavailableError.
func (e *PriceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("price unavailable for %s (%s): %v", e.Pair, e.Op, e.Err)
	}
	return fmt.Sprintf("price unavailable for %s (%s): source returned no data", e.Pair, e.Op)
}

// Unwrap returns the underlying cause so callers can use errors.Is/As.
func (e *PriceUnavailableError) Unwrap() error {
	return e.Err
}

// NewPriceUnavailable creates a PriceUnavailableError for the given pair and
// fetch operation.
func NewPriceUnavailable(pair, op string, err error) *PriceUnavailableError {
	return &PriceUnavailableError{Pair: pair, Op: op, Err: err}
}

// IsPriceUnavailable reports whether err is (or wraps) a
// PriceUnavailableError.
func IsPriceUnavailable(err error) bool {
	var pe *PriceUnavailableError
	return errors.As(err, &pe)
}

// GapNotice records a scheduled purchase date with no corresponding closing
// price, typically a non-trading day in the source's calendar. It is a
// warning, not an error: the date contributes nothing to the simulation and
// the run continues.
type GapNotice struct {
	Date time.Time // Date is the scheduled purchase date that had no price
	Pair string    // Pair is the asset symbol the price was missing for
}

// String returns the console-facing notice for a skipped date.
func (g GapNotice) String() string {
	return fmt.Sprintf("historical price not found for date %s", g.Date.Format("2006-01-02"))
}
