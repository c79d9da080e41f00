package calculator

// SMA computes the trailing simple moving average of closes over window.
// The result has len(closes) entries; entry i is the mean of closes[i-window+1..i]
// and the first window-1 entries are nil. Fewer closes than window yields all nil.
func SMA(window int, closes []float64) []*float64 {
	out := make([]*float64, len(closes))
	if window <= 0 || len(closes) < window {
		return out
	}
	sum := 0.0
	for i := 0; i < window; i++ {
		sum += closes[i]
	}
	out[window-1] = value(sum / float64(window))
	for i := window; i < len(closes); i++ {
		sum += closes[i] - closes[i-window]
		out[i] = value(sum / float64(window))
	}
	return out
}
