// Package prompt collects and validates the strategy inputs interactively.
// Each prompt loops until the supplied value satisfies its constraint, the
// same retry-until-valid contract the command line flags are checked
// against. The reader and writer are injected so tests can script a
// session.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/johnayoung/go-dca-simulator/internal/errs"
	"github.com/johnayoung/go-dca-simulator/internal/models"
)

// Prompter reads strategy inputs from an interactive session.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Prompter reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Frequency prompts until one of daily, weekly or monthly is entered.
func (p *Prompter) Frequency() (models.Frequency, error) {
	for {
		fmt.Fprint(p.out, "Please provide DCA frequency (Daily, Weekly, Monthly): ")
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		freq, err := models.ParseFrequency(line)
		if err != nil {
			fmt.Fprintln(p.out, "Invalid input. Please enter daily, weekly or monthly.")
			continue
		}
		return freq, nil
	}
}

// Amount prompts until a positive decimal purchase amount is entered.
func (p *Prompter) Amount() (decimal.Decimal, error) {
	for {
		fmt.Fprint(p.out, "Please provide DCA amount (positive number): ")
		line, err := p.readLine()
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := decimal.NewFromString(line)
		if err != nil || !amount.IsPositive() {
			fmt.Fprintln(p.out, "Invalid input. Please enter a positive number.")
			continue
		}
		return amount, nil
	}
}

// FeePercent prompts until a positive fee percentage is entered.
func (p *Prompter) FeePercent() (decimal.Decimal, error) {
	for {
		fmt.Fprint(p.out, "Exchange fees in % (e.g. 1 or 0.5, excluding the % sign): ")
		line, err := p.readLine()
		if err != nil {
			return decimal.Zero, err
		}
		fee, err := decimal.NewFromString(strings.TrimSuffix(line, "%"))
		if err != nil || !fee.IsPositive() {
			fmt.Fprintln(p.out, "Invalid input. Please enter a positive number.")
			continue
		}
		return fee, nil
	}
}

// DurationMonths prompts until a positive whole number of months is
// entered.
func (p *Prompter) DurationMonths() (int, error) {
	for {
		fmt.Fprint(p.out, "Please provide DCA duration in months (positive number): ")
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		months, err := strconv.Atoi(line)
		if err != nil || months <= 0 {
			fmt.Fprintln(p.out, "Invalid input. Please enter a positive number.")
			continue
		}
		return months, nil
	}
}

func (p *Prompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Validation helpers shared with the flag-parsing boundary.

// ValidateAmount checks a flag-supplied purchase amount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValidation("amount", "must be a positive number")
	}
	return nil
}

// ValidateFeePercent checks a flag-supplied fee percentage.
func ValidateFeePercent(fee decimal.Decimal) error {
	if !fee.IsPositive() {
		return errs.NewValidation("fee", "must be a positive percentage")
	}
	return nil
}

// ValidateDuration checks a flag-supplied duration in months.
func ValidateDuration(months int) error {
	if months <= 0 {
		return errs.NewValidation("duration", "must be a positive number of months")
	}
	return nil
}
