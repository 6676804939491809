package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MarketDataClient fetches aggregated OHLCV bars from a Polygon-style
// aggregates API, following next_url pagination and backing off on rate
// limits.
type MarketDataClient struct {
	APIKey     string
	BaseURL    string
	Client     *http.Client
	MaxRetries int
	Throttle   time.Duration // pause between pages
	SleepOn429 time.Duration // base backoff, scaled by attempt
	Logger     *zap.Logger
}

// NewMarketDataClient creates a client. If baseURL is empty, defaults to
// "https://api.polygon.io".
func NewMarketDataClient(apiKey, baseURL string, logger *zap.Logger) *MarketDataClient {
	if baseURL == "" {
		baseURL = "https://api.polygon.io"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketDataClient{
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Client:     &http.Client{Timeout: 30 * time.Second},
		MaxRetries: 5,
		Throttle:   250 * time.Millisecond,
		SleepOn429: 5 * time.Second,
		Logger:     logger,
	}
}

// APIError is a non-2xx response from the data source, surfaced after
// retries are exhausted.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("market data API error %d: %s", e.StatusCode, e.Message)
}

// Agg is one aggregated bar as returned by the API.
type Agg struct {
	Timestamp int64   `json:"t"` // epoch milliseconds
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}

type aggsResponse struct {
	Results []Agg  `json:"results"`
	Status  string `json:"status"`
	NextURL string `json:"next_url,omitempty"`
}

// FetchAggs pulls all aggregates for ticker in [start, end] (YYYY-MM-DD) at
// the given multiplier/timespan resolution, following pagination.
func (c *MarketDataClient) FetchAggs(ctx context.Context, ticker string, multiplier int, timespan, start, end string) ([]Agg, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	u := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/%d/%s/%s/%s",
		c.BaseURL, url.PathEscape(ticker), multiplier, timespan, start, end)
	params := url.Values{
		"adjusted": {"true"},
		"sort":     {"asc"},
		"limit":    {"50000"},
	}

	var results []Agg
	pages := 0
	for u != "" {
		payload, err := c.getWithRetry(ctx, u, params)
		if err != nil {
			return nil, err
		}
		results = append(results, payload.Results...)
		pages++
		c.Logger.Debug("fetched aggregates page",
			zap.String("ticker", ticker),
			zap.Int("page", pages),
			zap.Int("bars", len(payload.Results)))

		u = payload.NextURL
		params = nil
		if u != "" {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.Throttle):
			}
		}
	}
	return results, nil
}

func (c *MarketDataClient) getWithRetry(ctx context.Context, rawURL string, params url.Values) (*aggsResponse, error) {
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Set(k, v)
			}
		}
		q.Set("apiKey", c.APIKey)
		req.URL.RawQuery = q.Encode()

		resp, err := c.Client.Do(req)
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.MaxRetries {
			wait := c.SleepOn429 * time.Duration(attempt+1)
			c.Logger.Warn("rate limited, backing off",
				zap.Int("attempt", attempt+1),
				zap.Duration("wait", wait))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		}

		var payload aggsResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("decode aggregates response: %w", err)
		}
		return &payload, nil
	}
}
