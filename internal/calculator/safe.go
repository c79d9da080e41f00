package calculator

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Func computes one indicator channel.
type Func func() []*float64

// Safe runs fn and guarantees a result of length n. A panic, a result of the
// wrong length, or non-finite values never escape: the channel degrades to
// nil entries instead.
func Safe(log *zap.Logger, name string, n int, fn Func) (out []*float64) {
	if log == nil {
		log = zap.NewNop()
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn("indicator computation failed",
				zap.String("channel", name), zap.String("panic", fmt.Sprint(r)))
			out = make([]*float64, n)
		}
	}()
	res := fn()
	if len(res) != n {
		log.Warn("indicator length mismatch",
			zap.String("channel", name), zap.Int("want", n), zap.Int("got", len(res)))
		return make([]*float64, n)
	}
	for i, v := range res {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			res[i] = nil
		}
	}
	return res
}

// LeftPad prepends nil entries so values ends up with length n.
// Values longer than n are returned unchanged.
func LeftPad(values []*float64, n int) []*float64 {
	if len(values) >= n {
		return values
	}
	out := make([]*float64, n-len(values), n)
	return append(out, values...)
}

// Scatter places values back onto the positions where present is true.
// len(values) must equal the number of true entries; otherwise it degrades
// to LeftPad.
func Scatter(values []*float64, present []bool) []*float64 {
	count := 0
	for _, p := range present {
		if p {
			count++
		}
	}
	if count != len(values) {
		return LeftPad(values, len(present))
	}
	out := make([]*float64, len(present))
	j := 0
	for i, p := range present {
		if p {
			out[i] = values[j]
			j++
		}
	}
	return out
}

func value(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
