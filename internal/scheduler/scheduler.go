package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"HoldingsView/internal/collector"
	"HoldingsView/internal/model"
	"HoldingsView/internal/notifier"
	"HoldingsView/internal/period"
	"HoldingsView/internal/strategy"
)

// Sender delivers a message. *notifier.TelegramNotifier implements it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Invalidator drops a cached series so the next read refetches it.
type Invalidator interface {
	Invalidate(req model.SeriesRequest)
}

// Watchlist is the set of series refreshed on schedule.
type Watchlist struct {
	Symbols     []string
	Period      string
	Interval    string
	Concurrency int
}

// Requests expands the watchlist into one request per symbol.
func (w Watchlist) Requests() []model.SeriesRequest {
	reqs := make([]model.SeriesRequest, len(w.Symbols))
	for i, sym := range w.Symbols {
		reqs[i] = model.SeriesRequest{Symbol: sym, Period: w.Period, Interval: w.Interval}
	}
	return reqs
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Source    collector.Source
	Cache     Invalidator // optional
	Notifier  Sender      // optional
	Watchlist Watchlist
	Log       *zap.Logger
	Ctx       context.Context
	now       func() time.Time
}

// NewScheduler creates a new Scheduler. Pass a nil Sender to disable notifications.
func NewScheduler(ctx context.Context, src collector.Source, cache Invalidator, sender Sender, wl Watchlist, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Source:    src,
		Cache:     cache,
		Notifier:  sender,
		Watchlist: wl,
		Log:       log,
		Ctx:       ctx,
		now:       time.Now,
	}
}

// RegisterAll registers the watchlist refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.Int("symbols", len(s.Watchlist.Symbols)))
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	s.Log.Info("running watchlist refresh", zap.Strings("symbols", s.Watchlist.Symbols))
	reqs := s.Watchlist.Requests()
	if s.Cache != nil {
		for _, r := range reqs {
			s.Cache.Invalidate(r)
		}
	}
	entries := s.Refresh(s.Ctx)
	if len(entries) == 0 {
		return
	}

	failed := map[string]string{}
	for _, e := range entries {
		if e.Error != "" {
			failed[e.Symbol] = e.Error
			s.Log.Error("watchlist refresh", zap.String("symbol", e.Symbol), zap.String("error", e.Error))
		}
	}
	s.trySend(notifier.FormatDigest(s.now(), strategy.EvaluateAll(entries), failed))
}

// Refresh fetches the whole watchlist concurrently.
func (s *Scheduler) Refresh(ctx context.Context) []model.WatchEntry {
	reqs := s.Watchlist.Requests()
	if len(reqs) == 0 {
		return nil
	}
	return collector.Entries(collector.CollectMany(ctx, s.Source, reqs, s.Watchlist.Concurrency))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage
	}
	switch strings.ToLower(fields[0]) {
	case "/series":
		if len(fields) < 2 {
			return "Usage: /series SYMBOL [PERIOD] [INTERVAL]"
		}
		req := model.SeriesRequest{Symbol: strings.ToUpper(fields[1]), Period: s.Watchlist.Period, Interval: s.Watchlist.Interval}
		if len(fields) > 2 {
			req.Period = fields[2]
		}
		if len(fields) > 3 {
			req.Interval = fields[3]
		}
		if !period.ValidInterval(req.Interval) {
			return fmt.Sprintf("Unknown interval %q", req.Interval)
		}
		res, err := s.Source.GetHistoricalSeries(ctx, req.Symbol, req.Period, req.Interval)
		if err != nil {
			s.Log.Error("series command", zap.String("symbol", req.Symbol), zap.Error(err))
			return fmt.Sprintf("❌ %s: %v", req.Symbol, err)
		}
		return notifier.FormatSnapshot(strategy.Evaluate(req.Symbol, res), req.Period, req.Interval)
	case "/watchlist":
		entries := s.Refresh(ctx)
		if len(entries) == 0 {
			return "Watchlist is empty"
		}
		failed := map[string]string{}
		for _, e := range entries {
			if e.Error != "" {
				failed[e.Symbol] = e.Error
			}
		}
		return notifier.FormatDigest(s.now(), strategy.EvaluateAll(entries), failed)
	default:
		return usage
	}
}

const usage = "Commands:\n• /series SYMBOL [PERIOD] [INTERVAL]\n• /watchlist"

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error("send notification", zap.Error(err))
	}
}
