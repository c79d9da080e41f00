package period

import (
	"math"
	"strconv"
	"strings"
)

// MaxToken is the display period that disables slicing.
const MaxToken = "max"

// MaxFetch is the fetch period used for a "max" display period.
const MaxFetch = "10y"

// Unit is a duration unit of a period token.
type Unit string

const (
	Day   Unit = "d"
	Week  Unit = "wk"
	Month Unit = "mo"
	Year  Unit = "y"
)

// calendarDays approximates each unit in calendar days.
var calendarDays = map[Unit]int{
	Day:   1,
	Week:  7,
	Month: 30,
	Year:  365,
}

// tradingDays approximates each unit in trading sessions.
var tradingDays = map[Unit]float64{
	Day:   1,
	Week:  5,
	Month: 21,
	Year:  252,
}

// Token is a parsed period such as "6mo".
type Token struct {
	Value int
	Unit  Unit
}

// Days returns the calendar-day length of the token.
func (t Token) Days() int { return t.Value * calendarDays[t.Unit] }

func (t Token) String() string { return strconv.Itoa(t.Value) + string(t.Unit) }

// Parse parses a "<int><unit>" token. "max", "ytd" and malformed input return false.
func Parse(s string) (Token, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) {
		return Token{}, false
	}
	v, err := strconv.Atoi(s[:i])
	if err != nil || v <= 0 {
		return Token{}, false
	}
	u := Unit(s[i:])
	if _, ok := calendarDays[u]; !ok {
		return Token{}, false
	}
	return Token{Value: v, Unit: u}, true
}

// Encode renders a day count with the coarsest unit that does not undercount.
func Encode(days int) string {
	if days < 1 {
		days = 1
	}
	switch {
	case days > 730:
		return strconv.Itoa(ceilDiv(days, 365)) + string(Year)
	case days > 60:
		return strconv.Itoa(ceilDiv(days, 30)) + string(Month)
	default:
		return strconv.Itoa(days) + string(Day)
	}
}

// Extend returns a fetch period long enough to seed an indicator with
// maxLookback points before the display window begins.
func Extend(displayPeriod string, maxLookback int) string {
	if maxLookback < 0 {
		maxLookback = 0
	}
	if strings.EqualFold(strings.TrimSpace(displayPeriod), MaxToken) {
		return MaxFetch
	}
	tok, ok := Parse(displayPeriod)
	if !ok {
		return Encode(maxLookback)
	}
	return Encode(tok.Days() + maxLookback)
}

// pointsPerDay is the heuristic number of samples per trading session.
var pointsPerDay = map[string]float64{
	"1m":  390,
	"2m":  195,
	"5m":  78,
	"15m": 26,
	"30m": 13,
	"60m": 7,
	"1h":  7,
	"90m": 5,
	"1d":  1,
	"5d":  0.2,
	"1wk": 0.2,
	"1mo": 1.0 / 21,
	"3mo": 1.0 / 63,
}

// PointsPerDay returns the samples-per-session multiplier for interval.
// Unknown intervals count as daily.
func PointsPerDay(interval string) float64 {
	if m, ok := pointsPerDay[strings.ToLower(strings.TrimSpace(interval))]; ok {
		return m
	}
	return 1
}

// Estimate returns how many trailing points of total belong to the display
// window. It is a calendar heuristic, not an exchange schedule.
func Estimate(displayPeriod, interval string, total int) int {
	if total <= 0 {
		return 0
	}
	if strings.EqualFold(strings.TrimSpace(displayPeriod), MaxToken) {
		return total
	}
	tok, ok := Parse(displayPeriod)
	if !ok {
		return total
	}
	est := float64(tok.Value) * tradingDays[tok.Unit] * PointsPerDay(interval)
	// guard against 0.1+0.2 style drift pushing an exact count up by one
	n := int(math.Ceil(est - 1e-9))
	if n < 1 {
		n = 1
	}
	if n > total {
		return total
	}
	return n
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }
