// Package store persists combined tables for downstream consumers. The
// engine itself never depends on a store; adapters here consume the
// tables it produces.
package store

import (
	"encoding/json"
	"time"

	"github.com/vburojevic/errlens/internal/domain"
)

// EncodeRow serializes a record to JSON with every timestamp value in
// the canonical string form. The round trip through DecodeRow is
// lossless for valid timestamps.
func EncodeRow(row domain.Record) ([]byte, error) {
	out := make(map[string]any, len(row))
	for k, v := range row {
		if ts, ok := v.(time.Time); ok {
			out[k] = domain.FormatTimestamp(ts)
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}

// DecodeRow parses a serialized record and restores the timestamp column
// to a timestamp value. An unparsable timestamp string becomes a null
// cell on reload, not an error.
func DecodeRow(data []byte) (domain.Record, error) {
	var row domain.Record
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	if v, ok := row[domain.ColTimestamp]; ok && v != nil {
		if ts, ok := domain.ParseTimestamp(v); ok {
			row[domain.ColTimestamp] = ts
		} else {
			row[domain.ColTimestamp] = nil
		}
	}
	return row, nil
}
