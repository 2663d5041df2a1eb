package exchange

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnayoung/go-dca-simulator/internal/errs"
)

const testPair = "BTC-USD"

// 2024-01-01 00:00:00 UTC
const testDayStart = int64(1704067200)

func newTestSource(t *testing.T, handler http.Handler) (*CoinbaseSource, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	source := NewCoinbaseSource(nil)
	source.baseURL = server.URL
	return source, server
}

func candlesResponse(days int, close string) map[string]any {
	candles := make([]map[string]any, 0, days)
	for i := 0; i < days; i++ {
		candles = append(candles, map[string]any{
			"start":  testDayStart + int64(i)*86400,
			"low":    "41000",
			"high":   "43000",
			"open":   "42000",
			"close":  close,
			"volume": "123.45",
		})
	}
	return map[string]any{"candles": candles}
}

func TestDailyCloses(t *testing.T) {
	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/candles")
		assert.Equal(t, "86400", r.URL.Query().Get("granularity"))
		json.NewEncoder(w).Encode(candlesResponse(3, "42500.5"))
	}))

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	prices, err := source.DailyCloses(context.Background(), testPair, start, start.AddDate(0, 0, 3))
	require.NoError(t, err)

	require.Len(t, prices, 3)
	assert.Equal(t, "42500.5", prices["2024-01-01"])
	assert.Equal(t, "42500.5", prices["2024-01-02"])
	assert.Equal(t, "42500.5", prices["2024-01-03"])
}

func TestDailyClosesEmptyRangeIsPriceUnavailable(t *testing.T) {
	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candles": []any{}})
	}))

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, err := source.DailyCloses(context.Background(), testPair, start, start.AddDate(0, 0, 7))
	require.Error(t, err)
	assert.True(t, errs.IsPriceUnavailable(err))
}

func TestDailyClosesInvalidRange(t *testing.T) {
	source, _ := newTestSource(t, http.NotFoundHandler())
	start := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	_, err := source.DailyCloses(context.Background(), testPair, start, start)
	assert.Error(t, err)
}

func TestDailyClosesChunksLongRanges(t *testing.T) {
	var requests atomic.Int32
	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		json.NewEncoder(w).Encode(candlesResponse(1, "40000"))
	}))

	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	// 400 days needs two chunks at 300 candles per request.
	_, err := source.DailyCloses(context.Background(), testPair, start, start.AddDate(0, 0, 400))
	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load())
}

func TestDailyClosesClientErrorIsPermanent(t *testing.T) {
	var requests atomic.Int32
	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, `{"error":"invalid product"}`, http.StatusNotFound)
	}))

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, err := source.DailyCloses(context.Background(), "NOPE-USD", start, start.AddDate(0, 0, 5))
	require.Error(t, err)
	assert.True(t, errs.IsPriceUnavailable(err))
	assert.Equal(t, int32(1), requests.Load(), "4xx must not be retried")
}

func TestDailyClosesRetriesServerErrors(t *testing.T) {
	var requests atomic.Int32
	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			http.Error(w, "temporarily broken", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(candlesResponse(2, "39000"))
	}))

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	prices, err := source.DailyCloses(context.Background(), testPair, start, start.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.GreaterOrEqual(t, requests.Load(), int32(2))
}

func TestLatestPrice(t *testing.T) {
	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/products/BTC-USD")
		json.NewEncoder(w).Encode(map[string]any{
			"product_id": "BTC-USD",
			"price":      "67890.12",
		})
	}))

	price, err := source.LatestPrice(context.Background(), testPair)
	require.NoError(t, err)
	assert.Equal(t, "67890.12", price.String())
}

func TestLatestPriceMissingIsPriceUnavailable(t *testing.T) {
	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"product_id": "BTC-USD"})
	}))

	_, err := source.LatestPrice(context.Background(), testPair)
	require.Error(t, err)
	assert.True(t, errs.IsPriceUnavailable(err))
}

func TestLatestPriceMalformedResponse(t *testing.T) {
	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price": `))
	}))

	_, err := source.LatestPrice(context.Background(), testPair)
	require.Error(t, err)
	assert.True(t, errs.IsPriceUnavailable(err))
}

func TestHealthCheck(t *testing.T) {
	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	assert.NoError(t, source.HealthCheck(context.Background()))

	failing, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	assert.Error(t, failing.HealthCheck(context.Background()))
}
