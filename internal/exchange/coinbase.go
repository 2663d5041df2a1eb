// Coinbase Advanced Trade implementation of the PriceSource interface.
//
// The adapter fetches daily candles in chunks that respect the API's
// per-request candle cap, rate-limits itself client-side, and retries
// transient failures with exponential backoff. Client errors (4xx other
// than 429) are permanent and abort the fetch immediately.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/johnayoung/go-dca-simulator/internal/errs"
	"github.com/johnayoung/go-dca-simulator/internal/models"
)

const (
	coinbaseBaseURL = "https://api.coinbase.com"

	productEndpoint = "/api/v3/brokerage/products/%s"
	candlesEndpoint = "/api/v3/brokerage/products/%s/candles"

	// Daily candles only; the simulator works at day granularity.
	dayGranularitySeconds = 86400

	maxCandlesPerRequest = 300
	requestTimeout       = 30 * time.Second

	maxRequestsPerSecond = 10
	rateLimitBurst       = 1

	initialRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 30 * time.Second
	retryMultiplier   = 2.0
	retryJitter       = 0.5

	healthCheckTimeout = 5 * time.Second
)

// CoinbaseSource implements PriceSource against the Coinbase Advanced
// Trade API.
type CoinbaseSource struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	logger      *slog.Logger
}

// NewCoinbaseSource creates a Coinbase price source with its own pooled
// HTTP client and client-side rate limiter.
func NewCoinbaseSource(logger *slog.Logger) *CoinbaseSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CoinbaseSource{
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		rateLimiter: rate.NewLimiter(rate.Limit(maxRequestsPerSecond), rateLimitBurst),
		baseURL:     coinbaseBaseURL,
		logger:      logger,
	}
}

// DailyCloses implements PriceSource. The requested range is split into
// chunks of at most 300 days, fetched oldest first, and folded into a
// single date-keyed map. A range that yields no candles at all is a
// PriceUnavailableError.
func (c *CoinbaseSource) DailyCloses(ctx context.Context, pair string, start, end time.Time) (models.PriceMap, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("invalid range: start %s is not before end %s",
			start.Format(models.DateFormat), end.Format(models.DateFormat))
	}

	c.logger.Debug("fetching daily closes",
		"pair", pair,
		"start", start.Format(models.DateFormat),
		"end", end.Format(models.DateFormat))

	prices := make(models.PriceMap)
	for chunkStart := start; chunkStart.Before(end); {
		chunkEnd := chunkStart.AddDate(0, 0, maxCandlesPerRequest)
		if chunkEnd.After(end) {
			chunkEnd = end
		}

		candles, err := c.fetchCandleChunk(ctx, pair, chunkStart, chunkEnd)
		if err != nil {
			return nil, errs.NewPriceUnavailable(pair, "range", err)
		}
		for _, candle := range candles {
			day := time.Unix(candle.Start, 0).UTC().Format(models.DateFormat)
			prices[day] = candle.Close
		}

		chunkStart = chunkEnd
	}

	if len(prices) == 0 {
		return nil, errs.NewPriceUnavailable(pair, "range", nil)
	}

	c.logger.Debug("fetched daily closes", "pair", pair, "days", len(prices))
	return prices, nil
}

// LatestPrice implements PriceSource using the product endpoint's current
// price field.
func (c *CoinbaseSource) LatestPrice(ctx context.Context, pair string) (decimal.Decimal, error) {
	requestURL := fmt.Sprintf(c.baseURL+productEndpoint, url.PathEscape(pair))

	body, err := c.getWithRetry(ctx, requestURL)
	if err != nil {
		return decimal.Zero, errs.NewPriceUnavailable(pair, "latest", err)
	}

	var product struct {
		ProductID string `json:"product_id"`
		Price     string `json:"price"`
	}
	if err := json.Unmarshal(body, &product); err != nil {
		return decimal.Zero, errs.NewPriceUnavailable(pair, "latest",
			fmt.Errorf("failed to parse product response: %w", err))
	}
	if product.Price == "" {
		return decimal.Zero, errs.NewPriceUnavailable(pair, "latest", nil)
	}

	price, err := decimal.NewFromString(product.Price)
	if err != nil {
		return decimal.Zero, errs.NewPriceUnavailable(pair, "latest",
			fmt.Errorf("invalid price %q: %w", product.Price, err))
	}

	c.logger.Debug("fetched latest price", "pair", pair, "price", price.String())
	return price, nil
}

// HealthCheck verifies the API is reachable with a lightweight request.
func (c *CoinbaseSource) HealthCheck(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(healthCtx, http.MethodGet, c.baseURL+"/api/v3/brokerage/products?limit=1", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}
	return nil
}

type coinbaseCandle struct {
	Start  int64  `json:"start"`
	Low    string `json:"low"`
	High   string `json:"high"`
	Open   string `json:"open"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
}

func (c *CoinbaseSource) fetchCandleChunk(ctx context.Context, pair string, start, end time.Time) ([]coinbaseCandle, error) {
	params := url.Values{}
	params.Add("start", strconv.FormatInt(start.Unix(), 10))
	params.Add("end", strconv.FormatInt(end.Unix(), 10))
	params.Add("granularity", strconv.Itoa(dayGranularitySeconds))

	requestURL := fmt.Sprintf(c.baseURL+candlesEndpoint, url.PathEscape(pair)) + "?" + params.Encode()

	body, err := c.getWithRetry(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var response struct {
		Candles []coinbaseCandle `json:"candles"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse candles response: %w", err)
	}
	return response.Candles, nil
}

// getWithRetry issues a GET with rate limiting and exponential backoff.
// 429 and 5xx responses are retried; other 4xx responses are permanent.
func (c *CoinbaseSource) getWithRetry(ctx context.Context, requestURL string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialRetryDelay
	policy.MaxInterval = maxRetryDelay
	policy.Multiplier = retryMultiplier
	policy.RandomizationFactor = retryJitter
	policy.MaxElapsedTime = 0 // bounded by the request context instead

	var result []byte
	operation := func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "go-dca-simulator/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			if wait := parseRetryAfter(resp.Header.Get("Retry-After")); wait > 0 {
				c.logger.Warn("rate limited by exchange, waiting", "retry_after", wait)
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return backoff.Permanent(ctx.Err())
				}
			}
			return fmt.Errorf("rate limited")
		case resp.StatusCode >= 500:
			return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("client error %d: %s", resp.StatusCode, string(body)))
		}

		result = body
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return result, nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := time.Parse(time.RFC1123, header); err == nil {
		return time.Until(t)
	}
	return 0
}
