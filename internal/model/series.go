package model

// Indicator channel names. They double as JSON keys on TimeSeriesResult and
// as keys of the upstream "sma" object.
const (
	ChannelSMA20  = "sma20"
	ChannelSMA50  = "sma50"
	ChannelSMA100 = "sma100"
	ChannelSMA150 = "sma150"
	ChannelSMA200 = "sma200"
	ChannelRSI    = "rsi"
)

// IndicatorChannel is one named indicator series aligned to the fetched points.
type IndicatorChannel struct {
	Name   string
	Values []*float64
	// Source is "server" or "local".
	Source string
}

// TimeSeriesResult is the chart-ready series. Every slice has the same length.
type TimeSeriesResult struct {
	Dates  []string   `json:"dates"`
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
	Prices []*float64 `json:"prices"`
	SMA20  []*float64 `json:"sma20"`
	SMA50  []*float64 `json:"sma50"`
	SMA100 []*float64 `json:"sma100"`
	SMA150 []*float64 `json:"sma150"`
	SMA200 []*float64 `json:"sma200"`
	RSI    []*float64 `json:"rsi"`
}

// Len returns the number of points in the result.
func (r *TimeSeriesResult) Len() int { return len(r.Dates) }

// Channel returns the indicator slice stored under name, or nil.
func (r *TimeSeriesResult) Channel(name string) []*float64 {
	switch name {
	case ChannelSMA20:
		return r.SMA20
	case ChannelSMA50:
		return r.SMA50
	case ChannelSMA100:
		return r.SMA100
	case ChannelSMA150:
		return r.SMA150
	case ChannelSMA200:
		return r.SMA200
	case ChannelRSI:
		return r.RSI
	}
	return nil
}

// Channels returns every numeric slice keyed by its JSON name.
func (r *TimeSeriesResult) Channels() map[string][]*float64 {
	return map[string][]*float64{
		"open":        r.Open,
		"high":        r.High,
		"low":         r.Low,
		"close":       r.Close,
		"volume":      r.Volume,
		"prices":      r.Prices,
		ChannelSMA20:  r.SMA20,
		ChannelSMA50:  r.SMA50,
		ChannelSMA100: r.SMA100,
		ChannelSMA150: r.SMA150,
		ChannelSMA200: r.SMA200,
		ChannelRSI:    r.RSI,
	}
}
