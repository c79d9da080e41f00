package model

import "encoding/json"

// NormalizedPoint is one history sample after field resolution and numeric coercion.
// Nil fields mean the upstream value was missing or unparseable.
type NormalizedPoint struct {
	Date   string   `json:"date"`
	Open   *float64 `json:"open"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Close  *float64 `json:"close"`
	Volume *float64 `json:"volume"`
}

// HistoryPayload is the raw body returned by the history endpoint.
// History is kept undecoded because its shape is not trusted.
type HistoryPayload struct {
	History json.RawMessage            `json:"history"`
	SMA     map[string]json.RawMessage `json:"sma,omitempty"`
	Period  string                     `json:"period,omitempty"`
	// Adjusted is set by the backend when it shortened the requested period.
	Adjusted bool `json:"adjusted,omitempty"`
}

// SeriesRequest identifies one historical series.
type SeriesRequest struct {
	Symbol   string `json:"symbol"`
	Period   string `json:"period"`
	Interval string `json:"interval"`
}

// Key returns the cache key for the request.
func (r SeriesRequest) Key() string {
	return r.Symbol + "|" + r.Period + "|" + r.Interval
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
