package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"HoldingsView/internal/collector"
	"HoldingsView/internal/config"
	"HoldingsView/internal/logger"
	"HoldingsView/internal/model"
	"HoldingsView/internal/strategy"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "config file")
	symbol := flag.String("symbol", "", "ticker symbol (required)")
	displayPeriod := flag.String("period", "1y", "display period, e.g. 6mo, 2y, max")
	interval := flag.String("interval", "1d", "bar interval")
	rows := flag.Int("rows", 15, "trailing rows to print")
	asJSON := flag.Bool("json", false, "print the full series as JSON")
	mock := flag.Bool("mock", false, "use generated data instead of the upstream")
	flag.Parse()

	if *symbol == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("config validation: %v", err)
	}
	cfg.Log.Format = "console"
	if cfg.Log.Level == "info" {
		cfg.Log.Level = "warn"
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fatal("init logger: %v", err)
	}
	defer log.Sync()

	var fetcher collector.HistoryFetcher
	switch {
	case *mock:
		fetcher = &collector.MockFetcher{Price: 100, Points: 2600}
	case cfg.Upstream.Source == "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.Upstream.Timeout, log)
	default:
		fetcher = collector.NewBackendFetcher(cfg.Upstream.BaseURL, cfg.Upstream.APIKey, cfg.Proxy, cfg.Upstream.Timeout, log)
	}
	col := collector.NewCollector(fetcher, collector.Settings{
		SMAWindows:   cfg.Indicators.SMAWindows,
		AlignToDates: cfg.Indicators.AlignToDates,
	}, nil, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Upstream.Timeout+5*time.Second)
	defer cancel()
	sym := strings.ToUpper(*symbol)
	res, err := col.GetHistoricalSeries(ctx, sym, *displayPeriod, *interval)
	if err != nil {
		fatal("%v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fatal("encode: %v", err)
		}
		return
	}
	fmt.Println(renderTail(res, *rows))
	snap := strategy.Evaluate(sym, res)
	fmt.Printf("%s %s/%s: %d points, RSI zone %s, trend %s\n", sym, *displayPeriod, *interval, res.Len(), snap.Zone, snap.Trend)
	if snap.WarningMsg != "" {
		fmt.Println(snap.WarningMsg)
	}
}

// renderTail prints the last rows points of res.
func renderTail(res *model.TimeSeriesResult, rows int) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	header := table.Row{"Date", "Close", "Volume"}
	names := []string{model.ChannelSMA20, model.ChannelSMA50, model.ChannelSMA100, model.ChannelSMA150, model.ChannelSMA200, model.ChannelRSI}
	for _, n := range names {
		header = append(header, strings.ToUpper(n))
	}
	t.AppendHeader(header)

	cfgs := make([]table.ColumnConfig, 0, len(header)-1)
	for i := 2; i <= len(header); i++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	t.SetColumnConfigs(cfgs)

	start := res.Len() - rows
	if start < 0 || rows <= 0 {
		start = 0
	}
	for i := start; i < res.Len(); i++ {
		row := table.Row{res.Dates[i], cell(res.Close[i], "%.2f"), cell(res.Volume[i], "%.0f")}
		for _, n := range names {
			row = append(row, cell(res.Channel(n)[i], "%.2f"))
		}
		t.AppendRow(row)
	}
	return t.Render()
}

func cell(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
