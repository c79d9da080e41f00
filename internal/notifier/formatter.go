package notifier

import (
	"fmt"
	"html"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"HoldingsView/internal/model"
	"HoldingsView/internal/strategy"
)

// FormatDigest formats the watchlist refresh into a Telegram message.
// failed maps symbol to error text.
func FormatDigest(now time.Time, snaps []model.WatchSnapshot, failed map[string]string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Watchlist digest</b> | %s\n\n", now.Format("2006-01-02")))

	if len(snaps) > 0 {
		b.WriteString("<pre>")
		b.WriteString(html.EscapeString(WatchTable(snaps)))
		b.WriteString("</pre>\n")
	}

	for _, s := range snaps {
		if s.WarningMsg != "" {
			b.WriteString(fmt.Sprintf("%s: %s\n", html.EscapeString(s.Symbol), s.WarningMsg))
		}
	}

	if len(failed) > 0 {
		b.WriteString("\n❌ <b>Failed:</b>\n")
		for _, sym := range slices.Sorted(maps.Keys(failed)) {
			b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(sym), html.EscapeString(failed[sym])))
		}
	}
	return b.String()
}

// WatchTable renders snapshots as a plain text table.
func WatchTable(snaps []model.WatchSnapshot) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Symbol", "Close", "SMA200 Dev", "RSI", "Zone", "Trend", "Range"})
	for _, s := range snaps {
		t.AppendRow(table.Row{
			s.Symbol,
			fmt.Sprintf("%.2f", s.LastClose),
			pct(s.Deviation),
			num(s.RSI, "%.0f"),
			s.Zone,
			s.Trend,
			fmt.Sprintf("%.0f%%", s.Position*100),
		})
	}
	return t.Render()
}

// FormatSnapshot formats a single series reading in reply to a command.
func FormatSnapshot(s model.WatchSnapshot, displayPeriod, interval string) string {
	if s.Date == "" {
		return fmt.Sprintf("No history for %s (%s, %s)", html.EscapeString(s.Symbol), displayPeriod, interval)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>%s</b> | %s %s\n\n", html.EscapeString(s.Symbol), displayPeriod, interval))
	b.WriteString(fmt.Sprintf("Last close: %.2f (%s)\n", s.LastClose, s.Date))
	b.WriteString(fmt.Sprintf("Range: %.2f ~ %.2f (position %.0f%%)\n", s.Low, s.High, s.Position*100))
	b.WriteString(fmt.Sprintf("SMA50: %s | SMA200: %s\n", num(s.SMA50, "%.2f"), num(s.SMA200, "%.2f")))
	b.WriteString(fmt.Sprintf("Deviation: %s (%s)\n", pct(s.Deviation), strategy.DeviationLabel(s.Deviation)))
	b.WriteString(fmt.Sprintf("RSI(14): %s %s | Trend: %s\n", num(s.RSI, "%.1f"), s.Zone, s.Trend))
	if s.WarningMsg != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", s.WarningMsg))
	}
	return b.String()
}

func num(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func pct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", *v)
}
