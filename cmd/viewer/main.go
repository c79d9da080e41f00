package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"HoldingsView/internal/collector"
	"HoldingsView/internal/config"
	"HoldingsView/internal/logger"
	"HoldingsView/internal/notifier"
	"HoldingsView/internal/recorder"
	"HoldingsView/internal/scheduler"
	"HoldingsView/internal/transport/httpapi"
)

func main() {
	os.Exit(run())
}

// run wires the service and blocks until shutdown. Deferred cleanup runs on
// every return path.
func run() int {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()
	log.Info("HoldingsView starting", zap.String("config", cfgPath))

	// Init fetcher
	fetcher := newFetcher(cfg, log)
	log.Info("data source", zap.String("fetcher", fetcher.Name()))

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	col := collector.NewCollector(fetcher, collector.Settings{
		SMAWindows:   cfg.Indicators.SMAWindows,
		AlignToDates: cfg.Indicators.AlignToDates,
	}, rec, log)
	cached := collector.NewCachedCollector(col, cfg.Cache.TTL, cfg.Cache.Cleanup)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Telegram notifier
	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		sender = tn
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, cached, cached, sender, scheduler.Watchlist{
		Symbols:     cfg.Watchlist.Symbols,
		Period:      cfg.Watchlist.Period,
		Interval:    cfg.Watchlist.Interval,
		Concurrency: cfg.Watchlist.Concurrency,
	}, log)
	if len(cfg.Watchlist.Symbols) > 0 {
		if err := sched.RegisterAll(cfg.Watchlist.RefreshCron); err != nil {
			log.Error("register cron tasks", zap.Error(err))
			return 1
		}
		sched.Start()
		defer sched.Stop()
	}

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, refreshing watchlist now")
		go sched.RunRefreshNow()
	}

	srv := httpapi.NewServer(cfg.HTTP.Addr, cached, rec, httpapi.Defaults{
		Period:      cfg.Watchlist.Period,
		Interval:    cfg.Watchlist.Interval,
		Concurrency: cfg.Watchlist.Concurrency,
	}, log)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	log.Info("HoldingsView is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	code := 0
	select {
	case <-sigCh:
		log.Info("shutdown signal received, stopping")
	case err := <-errCh:
		if err != nil {
			log.Error("http server", zap.Error(err))
			code = 1
		}
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	log.Info("HoldingsView stopped")
	return code
}

func newFetcher(cfg *config.Config, log *zap.Logger) collector.HistoryFetcher {
	if cfg.Upstream.Source == "yahoo" {
		return collector.NewYahooFetcher(cfg.Proxy, cfg.Upstream.Timeout, log)
	}
	return collector.NewBackendFetcher(cfg.Upstream.BaseURL, cfg.Upstream.APIKey, cfg.Proxy, cfg.Upstream.Timeout, log)
}
