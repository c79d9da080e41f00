package calculator

// RSIPeriod is the lookback of the relative strength index.
const RSIPeriod = 14

// RSI computes a 14-period relative strength index over closes.
// The first value sits at index RSIPeriod-1 and is seeded from the price
// changes inside the opening window; later values use Wilder smoothing.
// Fewer than RSIPeriod closes yields all nil.
func RSI(closes []float64) []*float64 {
	return rsi(closes, RSIPeriod)
}

func rsi(closes []float64, period int) []*float64 {
	out := make([]*float64, len(closes))
	if period < 2 || len(closes) < period {
		return out
	}

	// Seed from the period-1 changes of the first window.
	var avgGain, avgLoss float64
	for i := 1; i < period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period - 1)
	avgLoss /= float64(period - 1)
	out[period-1] = value(rsiValue(avgGain, avgLoss))

	for i := period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = value(rsiValue(avgGain, avgLoss))
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
