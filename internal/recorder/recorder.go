package recorder

import "time"

// FetchRecord describes one series request. Indicator values are not stored.
type FetchRecord struct {
	ID             string        `json:"id"`
	Timestamp      time.Time     `json:"timestamp"`
	Symbol         string        `json:"symbol"`
	DisplayPeriod  string        `json:"display_period"`
	FetchPeriod    string        `json:"fetch_period"`
	ServedPeriod   string        `json:"served_period,omitempty"` // period the upstream reports it served
	Interval       string        `json:"interval"`
	Adjusted       bool          `json:"adjusted"` // fetch period was clamped, here or upstream
	FetchedPoints  int           `json:"fetched_points"`
	KeptPoints     int           `json:"kept_points"`
	ServerChannels []string      `json:"server_channels"`
	LocalChannels  []string      `json:"local_channels"`
	Error          string        `json:"error,omitempty"`
	Duration       time.Duration `json:"duration_ns"`
}

// Recorder persists the fetch audit trail.
type Recorder interface {
	RecordFetch(rec *FetchRecord) error
	RecentFetches(symbol string, limit int) ([]FetchRecord, error)
	Close() error
}
