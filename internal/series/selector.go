package series

import (
	"encoding/json"

	"HoldingsView/internal/model"
)

const (
	SourceServer = "server"
	SourceLocal  = "local"
)

// SelectChannel prefers server-supplied values for a channel and falls back
// to local computation. Server values are used only when they decode as a
// non-empty array of numbers or nulls no longer than expectedLength; a short
// array is right-padded with nil.
func SelectChannel(name string, server json.RawMessage, local func() []*float64, expectedLength int) model.IndicatorChannel {
	if values, ok := serverValues(server, expectedLength); ok {
		return model.IndicatorChannel{Name: name, Values: values, Source: SourceServer}
	}
	return model.IndicatorChannel{Name: name, Values: local(), Source: SourceLocal}
}

func serverValues(raw json.RawMessage, expectedLength int) ([]*float64, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	if len(items) == 0 || len(items) > expectedLength {
		return nil, false
	}
	out := make([]*float64, expectedLength)
	for i, item := range items {
		if string(item) == "null" {
			continue
		}
		var f float64
		if err := json.Unmarshal(item, &f); err != nil {
			return nil, false
		}
		out[i] = &f
	}
	return out, true
}
