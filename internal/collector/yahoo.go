package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"HoldingsView/internal/model"
	"HoldingsView/internal/period"
)

// YahooFetcher reads history straight from the Yahoo Finance chart API and
// re-shapes it like the backend's history payload.
type YahooFetcher struct {
	client    *resty.Client
	log       *zap.Logger
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, timeout time.Duration, log *zap.Logger) *YahooFetcher {
	return newYahooFetcher("https://query1.finance.yahoo.com/v8/finance/chart", proxyURL, timeout, log)
}

func newYahooFetcher(baseURL, proxyURL string, timeout time.Duration, log *zap.Logger) *YahooFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &YahooFetcher{
		client: client,
		log:    log,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []any `json:"open"`
					High   []any `json:"high"`
					Low    []any `json:"low"`
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) FetchHistory(ctx context.Context, req HistoryRequest) (*model.HistoryPayload, error) {
	rng := period.SnapYahooRange(req.Period, req.Interval)
	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("symbol", f.yahooSymbol(req.Symbol)).
		SetQueryParam("interval", req.Interval).
		SetQueryParam("range", rng).
		Get("/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo fetch: %w", ErrTransport, err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{Source: "yahoo", Code: resp.StatusCode(), Body: truncate(resp.String(), 256)}
	}

	var chart yahooChart
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		f.log.Warn("yahoo decode failed", zap.String("symbol", req.Symbol), zap.Error(err))
		return &model.HistoryPayload{}, nil
	}
	if chart.Chart.Error != nil {
		f.log.Warn("yahoo api error", zap.String("symbol", req.Symbol), zap.String("description", chart.Chart.Error.Description))
		return &model.HistoryPayload{}, nil
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return &model.HistoryPayload{Period: rng}, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	loc, err := time.LoadLocation(result.Meta.ExchangeTimezoneName)
	if err != nil || result.Meta.ExchangeTimezoneName == "" {
		loc = time.UTC
	}
	layout := "2006-01-02"
	if period.PointsPerDay(req.Interval) > 1 {
		layout = "2006-01-02 15:04:05"
	}

	// Capitalized keys, as pandas emits them.
	records := make([]map[string]any, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		records[i] = map[string]any{
			"Date":   time.Unix(ts, 0).In(loc).Format(layout),
			"Open":   at(quote.Open, i),
			"High":   at(quote.High, i),
			"Low":    at(quote.Low, i),
			"Close":  at(quote.Close, i),
			"Volume": at(quote.Volume, i),
		}
	}
	history, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("yahoo encode history: %w", err)
	}
	return &model.HistoryPayload{History: history, Period: rng}, nil
}

func at(values []any, i int) any {
	if i < len(values) {
		return values[i]
	}
	return nil
}
