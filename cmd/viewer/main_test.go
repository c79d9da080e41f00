package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_StartupFailures(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantLog string
	}{
		{"bad yaml", "upstream: [", ""},
		{"invalid source", "upstream:\n  source: ftp\n", ""},
		{"bad cron", "watchlist:\n  symbols: [AAPL]\n  refresh_cron: \"not a cron\"\n", "register cron tasks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			logPath := filepath.Join(dir, "viewer.log")
			body := tt.config + "\ndatabase:\n  sqlite_path: " + filepath.Join(dir, "fetches.db") +
				"\nlog:\n  output_file: " + logPath + "\n"
			cfgPath := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			t.Setenv("CONFIG_PATH", cfgPath)
			for _, env := range []string{"RUN_ON_START", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "HISTORY_SOURCE", "SQLITE_PATH", "LOG_LEVEL"} {
				t.Setenv(env, "")
			}

			if code := run(); code != 1 {
				t.Fatalf("expected exit code 1, got %d", code)
			}
			if tt.wantLog == "" {
				return
			}
			data, err := os.ReadFile(logPath)
			if err != nil {
				t.Fatalf("log not flushed: %v", err)
			}
			for _, want := range []string{tt.wantLog, "closing sqlite recorder"} {
				if !strings.Contains(string(data), want) {
					t.Errorf("log missing %q:\n%s", want, data)
				}
			}
		})
	}
}
