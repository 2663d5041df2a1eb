// Package exchange defines the price source consumed by the DCA simulator
// and its Coinbase implementation.
//
// The simulator needs exactly two operations from a market-data provider:
// a date-range lookup of daily closing prices and the most recent quote.
// The interface is deliberately small so tests can substitute a canned
// source without touching the network.
package exchange

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/johnayoung/go-dca-simulator/internal/models"
)

// PriceSource supplies historical daily closes and the latest quote for an
// asset pair.
//
// Implementations must surface "no data" explicitly: an empty range result
// returns an errs.PriceUnavailableError rather than an empty map, and a
// fetch failure is terminal for the run, never silently defaulted. The map
// returned by DailyCloses may be narrower than the requested range on
// trading-calendar gaps; callers skip the missing dates.
type PriceSource interface {
	// DailyCloses returns a map of ISO date to closing price for every
	// trading day the source has in [start, end].
	DailyCloses(ctx context.Context, pair string, start, end time.Time) (models.PriceMap, error)

	// LatestPrice returns the most recent available price for the pair.
	LatestPrice(ctx context.Context, pair string) (decimal.Decimal, error)
}

// HealthChecker verifies that a price source is reachable before a run
// commits to it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
