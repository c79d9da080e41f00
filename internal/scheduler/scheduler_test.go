package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"HoldingsView/internal/collector"
	"HoldingsView/internal/model"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return nil
}

type fakeCache struct{ dropped []string }

func (f *fakeCache) Invalidate(req model.SeriesRequest) { f.dropped = append(f.dropped, req.Key()) }

func newTestScheduler(sender Sender, cache Invalidator) *Scheduler {
	mock := &collector.MockFetcher{
		Price:  100,
		Points: 300,
		Errors: map[string]error{"DOWN": fmt.Errorf("%w: connection refused", collector.ErrTransport)},
	}
	col := collector.NewCollector(mock, collector.Settings{}, nil, nil)
	s := NewScheduler(context.Background(), col, cache, sender, Watchlist{
		Symbols:     []string{"AAPL", "DOWN"},
		Period:      "6mo",
		Interval:    "1d",
		Concurrency: 2,
	}, nil)
	s.now = func() time.Time { return time.Date(2024, 6, 3, 22, 0, 0, 0, time.UTC) }
	return s
}

func TestRefreshTask(t *testing.T) {
	sender := &fakeSender{}
	cache := &fakeCache{}
	s := newTestScheduler(sender, cache)
	s.RunRefreshNow()

	if len(cache.dropped) != 2 || cache.dropped[0] != "AAPL|6mo|1d" {
		t.Errorf("expected cache invalidation per symbol, got %v", cache.dropped)
	}
	if len(sender.msgs) != 1 {
		t.Fatalf("expected one digest, got %d", len(sender.msgs))
	}
	msg := sender.msgs[0]
	if !strings.Contains(msg, "2024-06-03") || !strings.Contains(msg, "AAPL") || !strings.Contains(msg, "DOWN:") {
		t.Errorf("unexpected digest:\n%s", msg)
	}
}

func TestRefreshTask_NoNotifier(t *testing.T) {
	s := newTestScheduler(nil, nil)
	s.RunRefreshNow()
	if entries := s.Refresh(context.Background()); len(entries) != 2 || entries[1].Error == "" {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestHandleCommand(t *testing.T) {
	s := newTestScheduler(nil, nil)
	ctx := context.Background()
	tests := []struct {
		command string
		want    string
	}{
		{"/series aapl", "<b>AAPL</b> | 6mo 1d"},
		{"/series AAPL 1y 1wk", "<b>AAPL</b> | 1y 1wk"},
		{"/series AAPL 1y 2h", "Unknown interval"},
		{"/series", "Usage: /series"},
		{"/series DOWN", "❌ DOWN"},
		{"/watchlist", "Watchlist digest"},
		{"hello", "Commands:"},
		{"", "Commands:"},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			if got := s.HandleCommand(ctx, tt.command); !strings.Contains(got, tt.want) {
				t.Errorf("HandleCommand(%q) = %q, want substring %q", tt.command, got, tt.want)
			}
		})
	}
}

func TestRegisterAll(t *testing.T) {
	s := newTestScheduler(nil, nil)
	if err := s.RegisterAll("0 0 22 * * 1-5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.RegisterAll("not a cron"); err == nil {
		t.Error("expected error for bad cron expression")
	}
}
