package model

// RSIZone classifies the latest RSI reading.
type RSIZone string

const (
	ZoneUnknown    RSIZone = "UNKNOWN"
	ZoneOversold   RSIZone = "OVERSOLD"
	ZoneNeutral    RSIZone = "NEUTRAL"
	ZoneOverbought RSIZone = "OVERBOUGHT"
)

// Trend describes moving-average alignment.
type Trend string

const (
	TrendUnknown Trend = "UNKNOWN"
	TrendBull    Trend = "BULL"
	TrendBear    Trend = "BEAR"
	TrendRange   Trend = "RANGE"
)

// WatchEntry is the outcome of one symbol in a fan-out request.
type WatchEntry struct {
	Symbol string            `json:"symbol"`
	Series *TimeSeriesResult `json:"series,omitempty"`
	Error  string            `json:"error,omitempty"`
}
