package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"HoldingsView/internal/model"
)

func TestSend(t *testing.T) {
	bodies := make(chan map[string]string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies <- body
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := newTelegramNotifier(srv.URL, "TOKEN", "42", "", nil)
	if err := n.Send(context.Background(), "<b>hi</b>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := <-bodies
	if got["chat_id"] != "42" || got["parse_mode"] != "HTML" || got["text"] != "<b>hi</b>" {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestSendWithRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"ok":false}`, http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := newTelegramNotifier(srv.URL, "T", "1", "", nil)
	if err := n.SendWithRetry(context.Background(), "x", 2); err != nil {
		t.Fatalf("expected success after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadGateway)
	}))
	defer down.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	failing := newTelegramNotifier(down.URL, "T", "1", "", nil)
	if err := failing.SendWithRetry(ctx, "x", 3); err == nil {
		t.Error("expected error once the context is done")
	}
}

func TestDispatch(t *testing.T) {
	var (
		mu      sync.Mutex
		replies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		replies = append(replies, body["text"])
		mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var updates updatesResponse
	raw := `{"ok":true,"result":[{"update_id":7,"message":{"text":" /series AAPL "}},{"update_id":8},{"update_id":9,"message":{"text":"/noop"}}]}`
	if err := json.Unmarshal([]byte(raw), &updates); err != nil {
		t.Fatal(err)
	}

	n := newTelegramNotifier(srv.URL, "T", "1", "", nil)
	var seen []string
	next := n.dispatch(context.Background(), updates.Result, 0, func(_ context.Context, cmd string) string {
		seen = append(seen, cmd)
		if cmd == "/noop" {
			return ""
		}
		return "reply:" + cmd
	})
	if next != 10 {
		t.Errorf("expected next offset 10, got %d", next)
	}
	if strings.Join(seen, ",") != "/series AAPL,/noop" {
		t.Errorf("unexpected commands %v", seen)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(replies) != 1 || replies[0] != "reply:/series AAPL" {
		t.Errorf("unexpected replies %v", replies)
	}
}

func TestFormatDigest(t *testing.T) {
	snaps := []model.WatchSnapshot{
		{Symbol: "AAPL", Date: "2024-06-03", LastClose: 190.5, Deviation: model.Float(4.2), RSI: model.Float(88),
			Zone: model.ZoneOverbought, Trend: model.TrendBull, Position: 0.97, WarningMsg: "⚠️ RSI > 85"},
		{Symbol: "NEW", Date: "2024-06-03", LastClose: 10, Zone: model.ZoneUnknown, Trend: model.TrendUnknown},
	}
	msg := FormatDigest(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), snaps, map[string]string{"BAD": "fetch <failed>"})

	for _, want := range []string{"2024-06-03", "AAPL", "190.50", "+4.2%", "OVERBOUGHT", "97%", "AAPL: ⚠️ RSI > 85", "BAD: fetch &lt;failed&gt;"} {
		if !strings.Contains(msg, want) {
			t.Errorf("digest missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatSnapshot(t *testing.T) {
	if msg := FormatSnapshot(model.WatchSnapshot{Symbol: "E"}, "1y", "1d"); !strings.Contains(msg, "No history for E") {
		t.Errorf("unexpected empty reply %q", msg)
	}
	msg := FormatSnapshot(model.WatchSnapshot{Symbol: "X", Date: "2024-01-02", LastClose: 5, SMA200: model.Float(4),
		Deviation: model.Float(25), Zone: model.ZoneNeutral, Trend: model.TrendUnknown}, "6mo", "1d")
	for _, want := range []string{"<b>X</b>", "SMA50: - | SMA200: 4.00", "+25.0% (stretched above SMA200)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("snapshot missing %q:\n%s", want, msg)
		}
	}
}

func TestGetUpdates_OutlivesLongPoll(t *testing.T) {
	queries := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.RawQuery
		w.Write([]byte(`{"ok":true,"result":[{"update_id":3,"message":{"text":"/watchlist"}}]}`))
	}))
	defer srv.Close()

	n := newTelegramNotifier(srv.URL, "T", "1", "", nil)
	if got := n.poll.GetClient().Timeout; got <= pollTimeout {
		t.Errorf("poll client timeout %v must exceed the %v long-poll", got, pollTimeout)
	}

	updates, err := n.getUpdates(context.Background(), 3, pollTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q := <-queries; !strings.Contains(q, "timeout=30") || !strings.Contains(q, "offset=3") {
		t.Errorf("unexpected query %q", q)
	}
	if len(updates) != 1 || updates[0].Message == nil || updates[0].Message.Text != "/watchlist" {
		t.Errorf("unexpected updates %+v", updates)
	}
}
