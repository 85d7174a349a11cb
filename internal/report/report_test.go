package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/errlens/internal/domain"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()

	mock := clock.NewMock()
	mock.Set(time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC))

	summary := domain.SummaryStatistics{
		TotalRecords:   4,
		Collections:    2,
		Earliest:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Latest:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		SpanDays:       5,
		ErrorTypeCount: 2,
		ErrorTypes:     []string{"TIMEOUT", "AUTH"},
	}
	freq := []domain.FrequencyRow{
		{ErrorType: "TIMEOUT", Count: 3, Percentage: 75},
		{ErrorType: "AUTH", Count: 1, Percentage: 25},
	}
	matrix := &domain.CollectionMatrix{
		ErrorTypes:  []string{"TIMEOUT", "AUTH"},
		Collections: []string{"flat", "nested"},
		Counts: map[string]map[string]int{
			"TIMEOUT": {"flat": 3, "nested": 0},
			"AUTH":    {"flat": 0, "nested": 1},
		},
	}
	fc := &domain.Forecast{
		HorizonDays: 7,
		Entries: []domain.ForecastEntry{
			{ErrorType: "TIMEOUT", PredictedCount: 21, AvgDailyRate: 3, Confidence: "medium"},
		},
	}

	return NewBuilder().WithClock(mock).Build(summary, freq, matrix, fc)
}

func TestBuildRecommendations(t *testing.T) {
	r := sampleReport(t)

	require.Len(t, r.Recommendations, 2)
	assert.Contains(t, r.Recommendations[0], `"TIMEOUT"`)
	assert.Contains(t, r.Recommendations[0], "75.00%")
	assert.Contains(t, r.Recommendations[1], "21 times in the next 7 days")
	assert.Equal(t, time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), r.GeneratedAt)
}

func TestBuildNoData(t *testing.T) {
	mock := clock.NewMock()
	r := NewBuilder().WithClock(mock).Build(domain.SummaryStatistics{}, nil, nil, nil)
	assert.Empty(t, r.Recommendations)
}

func TestWriteJSON(t *testing.T) {
	r := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "2024-03-20T12:00:00Z", decoded["analysis_timestamp"])
	assert.Contains(t, decoded, "summary")
	assert.Contains(t, decoded, "error_frequency")
	assert.Contains(t, decoded, "collection_distribution")
	assert.Contains(t, decoded, "forecast")
	assert.Contains(t, decoded, "recommendations")
}

func TestWriteText(t *testing.T) {
	r := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf, false))
	out := buf.String()

	assert.Contains(t, out, "Error Analysis Report")
	assert.Contains(t, out, "Total records:       4")
	assert.Contains(t, out, "2024-03-10 to 2024-03-15 (5 days)")
	assert.Contains(t, out, "Error Frequency")
	assert.Contains(t, out, "TIMEOUT")
	assert.Contains(t, out, "75.00%")
	assert.Contains(t, out, "Errors by Collection")
	assert.Contains(t, out, "Forecast (next 7 days)")
	assert.Contains(t, out, "Recommendations")
	assert.Contains(t, out, "1. Priority")
}

func TestWriteTextSkipsEmptySections(t *testing.T) {
	mock := clock.NewMock()
	r := NewBuilder().WithClock(mock).Build(domain.SummaryStatistics{TotalRecords: 1}, nil, nil, nil)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf, false))
	out := buf.String()

	assert.Contains(t, out, "Summary")
	assert.NotContains(t, out, "Error Frequency")
	assert.NotContains(t, out, "Forecast")
	assert.NotContains(t, out, "Recommendations")
	assert.False(t, strings.Contains(out, "Time span"))
}

func TestStyledNonTerminal(t *testing.T) {
	assert.False(t, Styled(&bytes.Buffer{}))
}
