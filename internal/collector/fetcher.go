package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"HoldingsView/internal/model"
)

// ErrTransport marks failures to reach the upstream or non-2xx replies.
var ErrTransport = errors.New("upstream transport failure")

// StatusError is a non-2xx upstream reply. It matches ErrTransport.
type StatusError struct {
	Source string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %s: status %d, body: %s", ErrTransport, e.Source, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrTransport }

// IsNotFound reports whether err is an upstream 404, which the history
// endpoint uses for a symbol without data.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == 404
}

// HistoryRequest is one upstream history call.
type HistoryRequest struct {
	Symbol       string
	Period       string
	Interval     string
	CalculateSMA bool
}

// HistoryFetcher retrieves raw history payloads.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, req HistoryRequest) (*model.HistoryPayload, error)
	Name() string
}

// DecodePayload decodes a history body field by field so that a malformed
// "sma" object never discards a good "history" array. A body that is not a
// JSON object decodes to an empty payload.
func DecodePayload(body []byte) *model.HistoryPayload {
	payload := &model.HistoryPayload{}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return payload
	}
	payload.History = top["history"]
	if raw, ok := top["sma"]; ok {
		var sma map[string]json.RawMessage
		if err := json.Unmarshal(raw, &sma); err == nil {
			payload.SMA = sma
		}
	}
	if raw, ok := top["period"]; ok {
		_ = json.Unmarshal(raw, &payload.Period)
	}
	if raw, ok := top["adjusted"]; ok {
		_ = json.Unmarshal(raw, &payload.Adjusted)
	}
	return payload
}
