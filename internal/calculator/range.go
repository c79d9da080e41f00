package calculator

import (
	"errors"
	"math"
)

// WindowRange returns the highest high and lowest low across the non-nil
// entries of highs and lows.
func WindowRange(highs, lows []*float64) (high, low float64, err error) {
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, h := range highs {
		if h != nil && *h > high {
			high = *h
		}
	}
	for _, l := range lows {
		if l != nil && *l < low {
			low = *l
		}
	}
	if math.IsInf(high, 0) || math.IsInf(low, 0) {
		return 0, 0, errors.New("no high/low values in window")
	}
	return high, low, nil
}

// Position returns where current sits within [low, high] (0.0~1.0).
func Position(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// Last returns the last non-nil value of values.
func Last(values []*float64) (float64, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != nil {
			return *values[i], true
		}
	}
	return 0, false
}
