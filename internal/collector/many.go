package collector

import (
	"context"

	"golang.org/x/sync/errgroup"

	"HoldingsView/internal/model"
)

// Outcome is the result of one request in a fan-out.
type Outcome struct {
	Request model.SeriesRequest
	Result  *model.TimeSeriesResult
	Err     error
}

// CollectMany runs every request concurrently, at most limit at a time
// (limit <= 0 means unbounded). Each request succeeds or fails on its own;
// outcomes are returned in request order.
func CollectMany(ctx context.Context, src Source, reqs []model.SeriesRequest, limit int) []Outcome {
	out := make([]Outcome, len(reqs))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			res, err := src.GetHistoricalSeries(ctx, req.Symbol, req.Period, req.Interval)
			out[i] = Outcome{Request: req, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Entries converts outcomes into their API shape.
func Entries(outcomes []Outcome) []model.WatchEntry {
	entries := make([]model.WatchEntry, len(outcomes))
	for i, o := range outcomes {
		entries[i] = model.WatchEntry{Symbol: o.Request.Symbol, Series: o.Result}
		if o.Err != nil {
			entries[i].Error = o.Err.Error()
		}
	}
	return entries
}
