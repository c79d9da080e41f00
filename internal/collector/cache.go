package collector

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"HoldingsView/internal/model"
)

// CachedCollector memoizes successful series by symbol, period and interval.
// Results are shared between callers and must be treated as read-only.
type CachedCollector struct {
	inner Source
	cache *cache.Cache
}

// NewCachedCollector wraps src with an in-memory cache.
func NewCachedCollector(src Source, ttl, cleanup time.Duration) *CachedCollector {
	return &CachedCollector{inner: src, cache: cache.New(ttl, cleanup)}
}

func (c *CachedCollector) GetHistoricalSeries(ctx context.Context, symbol, displayPeriod, interval string) (*model.TimeSeriesResult, error) {
	key := model.SeriesRequest{Symbol: symbol, Period: displayPeriod, Interval: interval}.Key()
	if v, ok := c.cache.Get(key); ok {
		if res, ok := v.(*model.TimeSeriesResult); ok {
			return res, nil
		}
	}
	res, err := c.inner.GetHistoricalSeries(ctx, symbol, displayPeriod, interval)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, res)
	return res, nil
}

// Invalidate drops the cached entry for req.
func (c *CachedCollector) Invalidate(req model.SeriesRequest) {
	c.cache.Delete(req.Key())
}

// Len returns the number of cached series.
func (c *CachedCollector) Len() int { return c.cache.ItemCount() }
