package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/errlens/internal/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 123456789, time.UTC)
	row := domain.Record{
		domain.ColErrorType: "TIMEOUT",
		domain.ColTimestamp: ts,
		domain.ColSource:    "flat",
		"count":             float64(3),
		"note":              nil,
	}

	data, err := EncodeRow(row)
	require.NoError(t, err)

	back, err := DecodeRow(data)
	require.NoError(t, err)

	assert.Equal(t, "TIMEOUT", back[domain.ColErrorType])
	assert.Equal(t, "flat", back[domain.ColSource])
	assert.Equal(t, float64(3), back["count"])
	assert.Nil(t, back["note"])

	got, ok := back[domain.ColTimestamp].(time.Time)
	require.True(t, ok)
	assert.True(t, got.Equal(ts))
}

func TestEncodeRowNonColumnTimestamps(t *testing.T) {
	// Every time.Time value is serialized canonically, not only the
	// timestamp column.
	row := domain.Record{
		"created": time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	data, err := EncodeRow(row)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"2024-01-02T03:04:05Z"`)
}

func TestDecodeRowUnparsableTimestamp(t *testing.T) {
	back, err := DecodeRow([]byte(`{"timestamp": "garbage", "errorType": "E1"}`))
	require.NoError(t, err)

	v, present := back[domain.ColTimestamp]
	assert.True(t, present)
	assert.Nil(t, v)
	assert.Equal(t, "E1", back[domain.ColErrorType])
}

func TestDecodeRowNullTimestamp(t *testing.T) {
	back, err := DecodeRow([]byte(`{"timestamp": null}`))
	require.NoError(t, err)
	assert.Nil(t, back[domain.ColTimestamp])
}

func TestDecodeRowInvalidJSON(t *testing.T) {
	_, err := DecodeRow([]byte(`{broken`))
	assert.Error(t, err)
}
