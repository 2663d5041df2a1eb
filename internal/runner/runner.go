// Package runner wires the pipeline together: schedule generation, the
// historical price fetch, the purchase simulation, record persistence, and
// the final ROI valuation. Execution is synchronous and single-threaded;
// the only blocking points are the two price source calls, which honor the
// run context.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/johnayoung/go-dca-simulator/internal/errs"
	"github.com/johnayoung/go-dca-simulator/internal/exchange"
	"github.com/johnayoung/go-dca-simulator/internal/models"
	"github.com/johnayoung/go-dca-simulator/internal/returns"
	"github.com/johnayoung/go-dca-simulator/internal/schedule"
	"github.com/johnayoung/go-dca-simulator/internal/simulator"
	"github.com/johnayoung/go-dca-simulator/internal/storage"
)

// Params are the validated strategy inputs for a single run. Now is the
// instant of computation and is always injected so runs are reproducible.
type Params struct {
	Frequency      models.Frequency
	Amount         decimal.Decimal
	FeePercent     decimal.Decimal
	DurationMonths int
	Pair           string
	Now            time.Time
}

// Result is the outcome of a completed run. Records are re-read from the
// record store, not taken from the simulator, so what is reported is
// exactly what was persisted.
type Result struct {
	RunID   string
	Records []models.PurchaseRecord
	Gaps    []errs.GapNotice
	Summary *returns.Summary
}

// Runner executes DCA backtest runs against an injected price source and
// record store.
type Runner struct {
	source exchange.PriceSource
	store  storage.RecordStore
	logger *slog.Logger
}

// New creates a Runner. A nil logger falls back to slog.Default.
func New(source exchange.PriceSource, store storage.RecordStore, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{source: source, store: store, logger: logger}
}

// Run executes the full pipeline. A price source failure for the
// historical range aborts before anything is persisted; nothing is written
// on that path. The ROI valuation re-reads the store and fetches the
// latest quote, so a latest-price failure still leaves the persisted
// records intact for standalone reporting.
func (r *Runner) Run(ctx context.Context, p Params) (*Result, error) {
	runID := uuid.NewString()
	log := r.logger.With("run_id", runID, "pair", p.Pair)

	cfg := models.ScheduleConfig{Frequency: p.Frequency, DurationMonths: p.DurationMonths}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dates := schedule.Dates(p.Frequency, p.DurationMonths, p.Now)
	log.Info("generated purchase schedule",
		"frequency", string(p.Frequency),
		"duration_months", p.DurationMonths,
		"dates", len(dates))

	// The range fetch covers the whole window; the end is extended by a
	// day so the final scheduled date's close is included.
	prices, err := r.source.DailyCloses(ctx, p.Pair, dates[0], dates[len(dates)-1].AddDate(0, 0, 1))
	if err != nil {
		log.Error("historical price fetch failed", "error", err)
		return nil, err
	}

	sim := simulator.New(log)
	records, gaps := sim.Simulate(dates, p.Pair, p.Amount, p.FeePercent, prices)

	if err := r.store.SaveAll(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to persist purchase records: %w", err)
	}

	persisted, err := r.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload purchase records: %w", err)
	}

	latest, err := r.source.LatestPrice(ctx, p.Pair)
	if err != nil {
		log.Error("latest price fetch failed", "error", err)
		return nil, err
	}

	summary, err := returns.ComputeROI(persisted, latest)
	if err != nil {
		return nil, err
	}

	log.Info("run complete",
		"buys", summary.Buys,
		"roi_percent", summary.ROIPercent.StringFixed(2),
		"total_invested", summary.TotalInvested.String(),
		"total_fees", summary.TotalFees.String())

	return &Result{
		RunID:   runID,
		Records: persisted,
		Gaps:    gaps,
		Summary: summary,
	}, nil
}
