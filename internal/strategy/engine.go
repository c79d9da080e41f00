package strategy

import (
	"HoldingsView/internal/calculator"
	"HoldingsView/internal/model"
)

// TakeProfitRSI is the RSI level above which a snapshot carries a warning.
const TakeProfitRSI = 85

// Evaluate derives the latest readings of a series for the watchlist digest.
// A nil or empty series gives a snapshot with unknown zone and trend.
func Evaluate(symbol string, res *model.TimeSeriesResult) model.WatchSnapshot {
	snap := model.WatchSnapshot{Symbol: symbol, Zone: model.ZoneUnknown, Trend: model.TrendUnknown}
	if res == nil || res.Len() == 0 {
		return snap
	}

	// Step a: latest close and its date
	last := -1
	for i := len(res.Close) - 1; i >= 0; i-- {
		if res.Close[i] != nil {
			last = i
			break
		}
	}
	if last < 0 {
		return snap
	}
	snap.Date = res.Dates[last]
	snap.LastClose = *res.Close[last]

	// Step b: range position over the display window
	if high, low, err := calculator.WindowRange(res.High, res.Low); err == nil {
		snap.High, snap.Low = high, low
		if pos, err := calculator.Position(snap.LastClose, high, low); err == nil {
			snap.Position = pos
		}
	}

	// Step c: indicator readings at the latest close
	snap.SMA50 = at(res.SMA50, last)
	snap.SMA200 = at(res.SMA200, last)
	snap.RSI = at(res.RSI, last)

	snap.Deviation = deviation(snap.LastClose, snap.SMA200)
	snap.Zone = classifyRSI(snap.RSI)
	snap.Trend = classifyTrend(snap.LastClose, snap.SMA50, snap.SMA200)

	// Step d: take-profit warning
	if snap.RSI != nil && *snap.RSI > TakeProfitRSI {
		snap.WarningMsg = "⚠️ RSI > 85: consider taking partial profit"
	}
	return snap
}

// EvaluateAll evaluates every successful watchlist entry.
func EvaluateAll(entries []model.WatchEntry) []model.WatchSnapshot {
	out := make([]model.WatchSnapshot, 0, len(entries))
	for _, e := range entries {
		if e.Error != "" || e.Series == nil {
			continue
		}
		out = append(out, Evaluate(e.Symbol, e.Series))
	}
	return out
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}
