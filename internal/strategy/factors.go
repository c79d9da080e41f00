package strategy

import "HoldingsView/internal/model"

// RSI zone bounds.
const (
	OversoldRSI   = 30
	OverboughtRSI = 70
)

// deviation is the percentage distance of price from the SMA200.
func deviation(price float64, sma200 *float64) *float64 {
	if sma200 == nil || *sma200 == 0 {
		return nil
	}
	return model.Float((price - *sma200) / *sma200 * 100)
}

// classifyRSI buckets an RSI reading.
func classifyRSI(rsi *float64) model.RSIZone {
	if rsi == nil {
		return model.ZoneUnknown
	}
	switch {
	case *rsi < OversoldRSI:
		return model.ZoneOversold
	case *rsi > OverboughtRSI:
		return model.ZoneOverbought
	default:
		return model.ZoneNeutral
	}
}

// classifyTrend reports moving-average alignment.
// Bull alignment: price > SMA50 > SMA200
// Bear alignment: price < SMA50 < SMA200
func classifyTrend(price float64, sma50, sma200 *float64) model.Trend {
	if sma50 == nil || sma200 == nil {
		return model.TrendUnknown
	}
	switch {
	case price > *sma50 && *sma50 > *sma200:
		return model.TrendBull
	case price < *sma50 && *sma50 < *sma200:
		return model.TrendBear
	default:
		return model.TrendRange
	}
}

// DeviationLabel describes a deviation in words for messages.
func DeviationLabel(dev *float64) string {
	if dev == nil {
		return "n/a"
	}
	switch d := *dev; {
	case d <= -20:
		return "deeply below SMA200"
	case d <= -5:
		return "below SMA200"
	case d < 5:
		return "near SMA200"
	case d < 20:
		return "above SMA200"
	default:
		return "stretched above SMA200"
	}
}
