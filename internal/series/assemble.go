package series

import "HoldingsView/internal/model"

// Empty returns the canonical no-data result: every channel is an empty,
// non-nil slice.
func Empty() *model.TimeSeriesResult {
	return &model.TimeSeriesResult{
		Dates:  []string{},
		Open:   []*float64{},
		High:   []*float64{},
		Low:    []*float64{},
		Close:  []*float64{},
		Volume: []*float64{},
		Prices: []*float64{},
		SMA20:  []*float64{},
		SMA50:  []*float64{},
		SMA100: []*float64{},
		SMA150: []*float64{},
		SMA200: []*float64{},
		RSI:    []*float64{},
	}
}

// Assemble slices the points and every indicator channel to the trailing
// keep entries. Channels are fitted to len(points) before slicing, so all
// output slices have the same length. Channels not supplied come out nil-filled.
func Assemble(points []model.NormalizedPoint, channels []model.IndicatorChannel, keep int) *model.TimeSeriesResult {
	n := len(points)
	if n == 0 {
		return Empty()
	}
	if keep < 0 {
		keep = 0
	}
	start := n - keep
	if start < 0 {
		start = 0
	}
	window := points[start:]
	m := len(window)

	res := &model.TimeSeriesResult{
		Dates:  make([]string, m),
		Open:   make([]*float64, m),
		High:   make([]*float64, m),
		Low:    make([]*float64, m),
		Close:  make([]*float64, m),
		Volume: make([]*float64, m),
		Prices: make([]*float64, m),
	}
	for i, p := range window {
		res.Dates[i] = p.Date
		res.Open[i] = p.Open
		res.High[i] = p.High
		res.Low[i] = p.Low
		res.Close[i] = p.Close
		res.Volume[i] = p.Volume
		res.Prices[i] = p.Close
	}

	byName := make(map[string][]*float64, len(channels))
	for _, ch := range channels {
		byName[ch.Name] = fit(ch.Values, n)[start:]
	}
	slot := func(name string) []*float64 {
		if v, ok := byName[name]; ok {
			return v
		}
		return make([]*float64, m)
	}
	res.SMA20 = slot(model.ChannelSMA20)
	res.SMA50 = slot(model.ChannelSMA50)
	res.SMA100 = slot(model.ChannelSMA100)
	res.SMA150 = slot(model.ChannelSMA150)
	res.SMA200 = slot(model.ChannelSMA200)
	res.RSI = slot(model.ChannelRSI)
	return res
}

// fit right-pads values with nil, or truncates from the right, to length n.
func fit(values []*float64, n int) []*float64 {
	if len(values) == n {
		return values
	}
	out := make([]*float64, n)
	copy(out, values)
	return out
}
