package collector

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"HoldingsView/internal/model"
)

// BackendFetcher calls the portfolio backend's history endpoint.
type BackendFetcher struct {
	client *resty.Client
	log    *zap.Logger
}

// NewBackendFetcher creates a fetcher with optional bearer token and proxy.
func NewBackendFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration, log *zap.Logger) *BackendFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &BackendFetcher{client: client, log: log}
}

func (f *BackendFetcher) Name() string { return "backend" }

func (f *BackendFetcher) FetchHistory(ctx context.Context, req HistoryRequest) (*model.HistoryPayload, error) {
	r := f.client.R().
		SetContext(ctx).
		SetPathParam("symbol", req.Symbol).
		SetQueryParam("period", req.Period).
		SetQueryParam("interval", req.Interval)
	if req.CalculateSMA {
		r.SetQueryParam("calculate_sma", strconv.FormatBool(true))
	}

	resp, err := r.Get("/history/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{Source: "backend", Code: resp.StatusCode(), Body: truncate(resp.String(), 256)}
	}

	payload := DecodePayload(resp.Body())
	if payload.History == nil {
		f.log.Warn("history payload without history array",
			zap.String("symbol", req.Symbol), zap.Int("bytes", len(resp.Body())))
	}
	return payload, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
