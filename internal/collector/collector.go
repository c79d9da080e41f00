package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"HoldingsView/internal/calculator"
	"HoldingsView/internal/model"
	"HoldingsView/internal/period"
	"HoldingsView/internal/recorder"
	"HoldingsView/internal/series"
)

// DefaultSMAWindows are the moving averages carried on every result.
var DefaultSMAWindows = []int{20, 50, 100, 150, 200}

// Source produces chart-ready series.
type Source interface {
	GetHistoricalSeries(ctx context.Context, symbol, displayPeriod, interval string) (*model.TimeSeriesResult, error)
}

// Settings tunes the indicator pipeline.
type Settings struct {
	SMAWindows []int
	// AlignToDates places indicator values on the dates of the closes they
	// were computed from instead of left-padding the compacted series.
	AlignToDates bool
}

// Collector orchestrates history fetching, normalization and indicator computation.
type Collector struct {
	Fetcher  HistoryFetcher
	Settings Settings
	Recorder recorder.Recorder
	Log      *zap.Logger
}

// NewCollector creates a new Collector. A nil recorder or logger is replaced by a no-op.
func NewCollector(fetcher HistoryFetcher, settings Settings, rec recorder.Recorder, log *zap.Logger) *Collector {
	if len(settings.SMAWindows) == 0 {
		settings.SMAWindows = DefaultSMAWindows
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{Fetcher: fetcher, Settings: settings, Recorder: rec, Log: log}
}

// MaxLookback is the longest indicator lookback the collector needs.
func (c *Collector) MaxLookback() int {
	lookback := calculator.RSIPeriod
	for _, w := range c.Settings.SMAWindows {
		if w > lookback {
			lookback = w
		}
	}
	return lookback
}

// GetHistoricalSeries fetches extra history for indicator lookback, computes
// the indicators over the full fetch and returns the display window.
// Transport failures are returned as errors; missing or malformed history
// is an empty result.
func (c *Collector) GetHistoricalSeries(ctx context.Context, symbol, displayPeriod, interval string) (*model.TimeSeriesResult, error) {
	started := time.Now()
	rec := &recorder.FetchRecord{
		Timestamp:     started,
		Symbol:        symbol,
		DisplayPeriod: displayPeriod,
		Interval:      interval,
	}
	defer func() {
		rec.Duration = time.Since(started)
		if err := c.Recorder.RecordFetch(rec); err != nil {
			c.Log.Error("record fetch", zap.String("symbol", symbol), zap.Error(err))
		}
	}()

	fetchPeriod := period.Extend(displayPeriod, c.MaxLookback())
	if clamped, adjusted := period.Clamp(fetchPeriod, interval); adjusted {
		c.Log.Info("fetch period clamped for interval",
			zap.String("symbol", symbol), zap.String("from", fetchPeriod),
			zap.String("to", clamped), zap.String("interval", interval))
		fetchPeriod = clamped
		rec.Adjusted = true
	}
	rec.FetchPeriod = fetchPeriod

	payload, err := c.Fetcher.FetchHistory(ctx, HistoryRequest{
		Symbol:       symbol,
		Period:       fetchPeriod,
		Interval:     interval,
		CalculateSMA: true,
	})
	if err != nil {
		rec.Error = err.Error()
		return nil, fmt.Errorf("fetch history %s: %w", symbol, err)
	}
	rec.ServedPeriod = payload.Period
	if payload.Adjusted {
		c.Log.Info("upstream adjusted the fetch period",
			zap.String("symbol", symbol), zap.String("requested", fetchPeriod),
			zap.String("served", payload.Period))
		rec.Adjusted = true
	}

	records, ok := series.DecodeHistory(payload.History)
	if !ok || len(records) == 0 {
		c.Log.Warn("no history data", zap.String("symbol", symbol), zap.String("period", fetchPeriod))
		return series.Empty(), nil
	}

	points := series.Normalize(records)
	channels := c.indicators(points, payload.SMA)
	for _, ch := range channels {
		if ch.Source == series.SourceServer {
			rec.ServerChannels = append(rec.ServerChannels, ch.Name)
		} else {
			rec.LocalChannels = append(rec.LocalChannels, ch.Name)
		}
	}

	keep := period.Estimate(displayPeriod, interval, len(points))
	res := series.Assemble(points, channels, keep)
	rec.FetchedPoints = len(points)
	rec.KeptPoints = res.Len()

	c.Log.Debug("series built",
		zap.String("symbol", symbol), zap.String("fetch_period", fetchPeriod),
		zap.Int("fetched", len(points)), zap.Int("kept", res.Len()))
	return res, nil
}

// indicators builds every channel over the full point sequence.
func (c *Collector) indicators(points []model.NormalizedPoint, server map[string]json.RawMessage) []model.IndicatorChannel {
	closes, present := series.Closes(points)
	n := len(points)
	align := func(values []*float64) []*float64 {
		if c.Settings.AlignToDates {
			return calculator.Scatter(values, present)
		}
		return calculator.LeftPad(values, n)
	}

	channels := make([]model.IndicatorChannel, 0, len(c.Settings.SMAWindows)+1)
	for _, w := range c.Settings.SMAWindows {
		name := fmt.Sprintf("sma%d", w)
		channels = append(channels, series.SelectChannel(name, server[name], func() []*float64 {
			return align(calculator.Safe(c.Log, name, len(closes), func() []*float64 {
				return calculator.SMA(w, closes)
			}))
		}, n))
	}
	channels = append(channels, series.SelectChannel(model.ChannelRSI, server[model.ChannelRSI], func() []*float64 {
		return align(calculator.Safe(c.Log, model.ChannelRSI, len(closes), func() []*float64 {
			return calculator.RSI(closes)
		}))
	}, n))
	return channels
}

// MockFetcher returns controllable fixed payloads for development and testing.
type MockFetcher struct {
	Price    float64
	Points   int
	Payloads map[string]*model.HistoryPayload // by symbol
	Errors   map[string]error                 // by symbol
	Requests chan HistoryRequest              // optional, receives every request
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, req HistoryRequest) (*model.HistoryPayload, error) {
	if m.Requests != nil {
		m.Requests <- req
	}
	if err, ok := m.Errors[req.Symbol]; ok {
		return nil, err
	}
	if p, ok := m.Payloads[req.Symbol]; ok {
		return p, nil
	}
	n := m.Points
	if n == 0 {
		n = 300
	}
	return GenerateMockPayload(m.Price, n), nil
}

// GenerateMockPayload builds a daily history of n points around basePrice.
func GenerateMockPayload(basePrice float64, n int) *model.HistoryPayload {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		p := basePrice * (1 + float64(i-n/2)*0.001)
		records[i] = map[string]any{
			"date":   start.AddDate(0, 0, i).Format("2006-01-02"),
			"open":   p * 0.999,
			"high":   p * 1.005,
			"low":    p * 0.995,
			"close":  p,
			"volume": 1000000,
		}
	}
	history, _ := json.Marshal(records)
	return &model.HistoryPayload{History: history}
}
