package model

// WatchSnapshot holds the latest values derived from one series for the digest.
type WatchSnapshot struct {
	Symbol     string
	Date       string
	LastClose  float64
	High       float64
	Low        float64
	Position   float64 // 0.0 ~ 1.0 inside the window range
	SMA50      *float64
	SMA200     *float64
	RSI        *float64
	Deviation  *float64 // percent distance of close from SMA200
	Zone       RSIZone
	Trend      Trend
	WarningMsg string
}
