package period

import "strings"

// maxPeriods maps an interval to the longest period the upstream serves for it.
var maxPeriods = map[string]string{
	"1m":  "7d",
	"2m":  "60d",
	"5m":  "60d",
	"15m": "60d",
	"30m": "60d",
	"60m": "730d",
	"90m": "60d",
	"1h":  "730d",
	"1d":  MaxToken,
	"5d":  MaxToken,
	"1wk": MaxToken,
	"1mo": MaxToken,
	"3mo": MaxToken,
}

// MaxPeriod returns the longest period allowed for interval, and whether the
// interval is known at all.
func MaxPeriod(interval string) (string, bool) {
	p, ok := maxPeriods[strings.ToLower(strings.TrimSpace(interval))]
	return p, ok
}

// ValidInterval reports whether the upstream understands interval.
func ValidInterval(interval string) bool {
	_, ok := MaxPeriod(interval)
	return ok
}

// Clamp shortens p to the maximum allowed for interval. The second return is
// true when p was changed.
func Clamp(p, interval string) (string, bool) {
	limit, ok := MaxPeriod(interval)
	if !ok || limit == MaxToken {
		return p, false
	}
	limitTok, _ := Parse(limit)
	if strings.EqualFold(p, MaxToken) {
		return limit, true
	}
	tok, ok := Parse(p)
	if !ok {
		return limit, true
	}
	if tok.Days() > limitTok.Days() {
		return limit, true
	}
	return p, false
}

// yahooRanges are the range values the Yahoo chart API accepts, shortest first.
var yahooRanges = []struct {
	Range string
	Days  int
}{
	{"1d", 1},
	{"5d", 5},
	{"1mo", 30},
	{"3mo", 90},
	{"6mo", 180},
	{"1y", 365},
	{"2y", 730},
	{"5y", 1825},
	{"10y", 3650},
}

// SnapYahooRange maps p onto a range the Yahoo chart API accepts for interval.
// Day tokens pass through unchanged. Other periods round up to the next fixed
// range, but never past the interval's maximum period.
func SnapYahooRange(p, interval string) string {
	limit, known := MaxPeriod(interval)
	limitDays := 0
	if known && limit != MaxToken {
		limitTok, _ := Parse(limit)
		limitDays = limitTok.Days()
	}

	if strings.EqualFold(p, MaxToken) {
		if limitDays > 0 {
			return limit
		}
		return MaxToken
	}
	tok, ok := Parse(p)
	if !ok {
		if limitDays > 0 {
			return limit
		}
		return p
	}
	days := tok.Days()
	if limitDays > 0 && days > limitDays {
		return limit
	}
	if tok.Unit == Day {
		return tok.String()
	}

	for _, r := range yahooRanges {
		if days <= r.Days {
			if limitDays > 0 && r.Days > limitDays {
				return limit
			}
			return r.Range
		}
	}
	if limitDays > 0 {
		return limit
	}
	return MaxToken
}
