// dca computes the historical return of a periodic fixed-amount bitcoin
// purchase strategy. Given a frequency, a per-purchase amount, an exchange
// fee and a duration, it fetches historical daily closes, simulates the
// accumulation net of fees, persists the purchases to the record store,
// and reports the ROI against the current market price as a console table,
// a summary block, and a chart image.
//
// Usage:
//
//	dca --frequency monthly --amount 100 --fee 1 --duration 36
//
// Any omitted strategy flag is collected interactively.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/johnayoung/go-dca-simulator/internal/config"
	"github.com/johnayoung/go-dca-simulator/internal/errs"
	"github.com/johnayoung/go-dca-simulator/internal/exchange"
	"github.com/johnayoung/go-dca-simulator/internal/logger"
	"github.com/johnayoung/go-dca-simulator/internal/models"
	"github.com/johnayoung/go-dca-simulator/internal/prompt"
	"github.com/johnayoung/go-dca-simulator/internal/report"
	"github.com/johnayoung/go-dca-simulator/internal/runner"
	"github.com/johnayoung/go-dca-simulator/internal/storage"
)

const version = "1.0.0"

var (
	flagFrequency string
	flagAmount    float64
	flagFee       float64
	flagDuration  int
	flagPair      string
	flagStore     string
	flagStorePath string
	flagChart     string
	flagConfig    string
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:     "dca",
	Short:   "Calculate the ROI of a bitcoin DCA strategy",
	Version: version,
	Long: `dca simulates a dollar-cost averaging strategy against historical
market prices and reports its return versus the current price.

Example:
  dca --frequency monthly --amount 100 --fee 1 --duration 36`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagFrequency, "frequency", "f", "", "purchase frequency: daily, weekly or monthly")
	rootCmd.Flags().Float64VarP(&flagAmount, "amount", "a", 0, "amount invested per purchase (positive)")
	rootCmd.Flags().Float64VarP(&flagFee, "fee", "e", 0, "exchange fee per purchase in percent (positive)")
	rootCmd.Flags().IntVarP(&flagDuration, "duration", "d", 0, "strategy duration in months (positive)")
	rootCmd.Flags().StringVar(&flagPair, "pair", "", "trading pair (default from config, BTC-USD)")
	rootCmd.Flags().StringVar(&flagStore, "store", "", "record store backend: csv, duckdb or memory")
	rootCmd.Flags().StringVar(&flagStorePath, "store-path", "", "record store file path")
	rootCmd.Flags().StringVar(&flagChart, "out", "", "chart image output path")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "config file path (default dca.json)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cfg)

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}

	freq, amount, fee, duration, err := collectInputs(cmd)
	if err != nil {
		return err
	}

	store, err := storage.New(storage.Config{Type: cfg.Storage.Type, Path: cfg.Storage.Path}, log)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source := exchange.NewCoinbaseSource(log)
	r := runner.New(source, store, log)

	result, err := r.Run(ctx, runner.Params{
		Frequency:      freq,
		Amount:         amount,
		FeePercent:     fee,
		DurationMonths: duration,
		Pair:           cfg.Pair,
		Now:            time.Now().UTC(),
	})
	if err != nil {
		if errs.IsPriceUnavailable(err) {
			fmt.Fprintln(os.Stderr, "Failed to retrieve bitcoin prices:", err)
			return err
		}
		if errors.Is(err, errs.ErrEmptyPortfolio) {
			fmt.Fprintln(os.Stderr, "No purchases could be made in the requested range; cannot compute ROI.")
			return err
		}
		return err
	}

	for _, gap := range result.Gaps {
		fmt.Println(gap.String())
	}

	report.WriteTable(os.Stdout, result.Records)
	report.WriteSummary(os.Stdout, result.Summary)

	if err := report.RenderChart(cfg.ChartPath, result.Records, result.Summary); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	fmt.Printf("Chart written to %s\n", cfg.ChartPath)

	return nil
}

// applyFlags lets command line flags override file and environment
// configuration.
func applyFlags(cfg *config.AppConfig) {
	if flagPair != "" {
		cfg.Pair = flagPair
	}
	if flagStore != "" {
		cfg.Storage.Type = flagStore
	}
	if flagStorePath != "" {
		cfg.Storage.Path = flagStorePath
	}
	if flagChart != "" {
		cfg.ChartPath = flagChart
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
}

// collectInputs resolves the four strategy inputs from flags, falling back
// to interactive prompting for anything missing or out of range.
func collectInputs(cmd *cobra.Command) (models.Frequency, decimal.Decimal, decimal.Decimal, int, error) {
	p := prompt.New(os.Stdin, os.Stdout)

	var freq models.Frequency
	var err error
	if flagFrequency != "" {
		freq, err = models.ParseFrequency(flagFrequency)
	}
	if flagFrequency == "" || err != nil {
		if freq, err = p.Frequency(); err != nil {
			return "", decimal.Zero, decimal.Zero, 0, err
		}
	}

	amount := decimal.NewFromFloat(flagAmount)
	if !cmd.Flags().Changed("amount") || prompt.ValidateAmount(amount) != nil {
		if amount, err = p.Amount(); err != nil {
			return "", decimal.Zero, decimal.Zero, 0, err
		}
	}

	fee := decimal.NewFromFloat(flagFee)
	if !cmd.Flags().Changed("fee") || prompt.ValidateFeePercent(fee) != nil {
		if fee, err = p.FeePercent(); err != nil {
			return "", decimal.Zero, decimal.Zero, 0, err
		}
	}

	duration := flagDuration
	if !cmd.Flags().Changed("duration") || prompt.ValidateDuration(duration) != nil {
		if duration, err = p.DurationMonths(); err != nil {
			return "", decimal.Zero, decimal.Zero, 0, err
		}
	}

	return freq, amount, fee, duration, nil
}
