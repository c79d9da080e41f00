package series

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"HoldingsView/internal/model"
)

// fieldKeys is the single field-resolution table for upstream records.
// Keys are tried in order; the first present key wins.
var fieldKeys = struct {
	Date, Open, High, Low, Close, Volume []string
}{
	Date:   []string{"date", "Date", "datetime", "Datetime"},
	Open:   []string{"open", "Open"},
	High:   []string{"high", "High"},
	Low:    []string{"low", "Low"},
	Close:  []string{"close", "Close"},
	Volume: []string{"volume", "Volume"},
}

// DecodeHistory decodes the raw history field. Anything that is not a JSON
// array yields ok=false.
func DecodeHistory(raw json.RawMessage) (records []any, ok bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	records, ok = v.([]any)
	return records, ok
}

// Normalize maps raw records onto NormalizedPoint. The output has the same
// length and order as records; a record that is not an object becomes an
// all-nil point with an empty date.
func Normalize(records []any) []model.NormalizedPoint {
	points := make([]model.NormalizedPoint, len(records))
	for i, r := range records {
		obj, ok := r.(map[string]any)
		if !ok {
			continue
		}
		points[i] = model.NormalizedPoint{
			Date:   toDate(lookup(obj, fieldKeys.Date)),
			Open:   toNumber(lookup(obj, fieldKeys.Open)),
			High:   toNumber(lookup(obj, fieldKeys.High)),
			Low:    toNumber(lookup(obj, fieldKeys.Low)),
			Close:  toNumber(lookup(obj, fieldKeys.Close)),
			Volume: toNumber(lookup(obj, fieldKeys.Volume)),
		}
	}
	return points
}

// Closes extracts the non-nil closes in order, plus a mask of which points
// contributed one.
func Closes(points []model.NormalizedPoint) (closes []float64, present []bool) {
	closes = make([]float64, 0, len(points))
	present = make([]bool, len(points))
	for i, p := range points {
		if p.Close != nil {
			closes = append(closes, *p.Close)
			present[i] = true
		}
	}
	return closes, present
}

func lookup(obj map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toNumber(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func toDate(v any) string {
	switch d := v.(type) {
	case string:
		return strings.TrimSpace(d)
	case nil:
		return ""
	}
	// numeric dates are unix seconds within years 0001..9999
	if f := toNumber(v); f != nil && *f >= minUnixDate && *f <= maxUnixDate {
		return time.Unix(int64(*f), 0).UTC().Format("2006-01-02")
	}
	return ""
}

const (
	minUnixDate = -62135596800 // 0001-01-01T00:00:00Z
	maxUnixDate = 253402300799 // 9999-12-31T23:59:59Z
)
