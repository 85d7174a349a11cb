// Package forecast projects near-term error volumes per error type from
// a combined normalized table using a simple moving-average model.
package forecast

import (
	"time"

	"go.uber.org/zap"

	"github.com/vburojevic/errlens/internal/domain"
)

// Confidence is the fixed qualitative label attached to every projection.
// No statistical interval is computed.
const Confidence = "medium"

// forecastTimestampCandidates are the columns tried, in order, when
// resolving the historical timestamp for forecasting.
var forecastTimestampCandidates = []string{
	domain.ColTimestamp,
	"dataSavedAtTimeStamp",
	"eventTransactionTime",
}

// PredictFutureErrors computes, per distinct error type in the combined
// table, the arithmetic mean of its observed daily counts and projects it
// over daysAhead days. Days on which a type did not occur do not
// contribute zero rows to its mean; only occurrence days count. That
// overestimates intermittent types and is kept as observed behavior.
//
// If no timestamp or error-identifier column resolves, the forecast is
// empty rather than an error.
func PredictFutureErrors(combined *domain.Table, daysAhead int, logger *zap.Logger) *domain.Forecast {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := &domain.Forecast{HorizonDays: daysAhead}

	timeCol := ""
	for _, c := range forecastTimestampCandidates {
		if combined.HasColumn(c) {
			timeCol = c
			break
		}
	}
	errorCol := combined.ErrorColumn()
	if timeCol == "" || errorCol == "" {
		logger.Warn("required columns not found for forecasting",
			zap.String("timeColumn", timeCol),
			zap.String("errorColumn", errorCol))
		return out
	}

	// Daily count series per error type, keyed by calendar date.
	type series struct {
		days map[string]int
	}
	byType := map[string]*series{}
	var order []string
	for _, row := range combined.Rows {
		et := domain.CellString(row[errorCol])
		if et == "" {
			continue
		}
		s, ok := byType[et]
		if !ok {
			s = &series{days: map[string]int{}}
			byType[et] = s
			order = append(order, et)
		}
		ts, ok := domain.ParseTimestamp(row[timeCol])
		if !ok {
			continue
		}
		s.days[ts.Format(time.DateOnly)]++
	}

	for _, et := range order {
		s := byType[et]
		if len(s.days) == 0 {
			continue
		}
		total := 0
		for _, n := range s.days {
			total += n
		}
		avg := float64(total) / float64(len(s.days))
		out.Entries = append(out.Entries, domain.ForecastEntry{
			ErrorType:      et,
			PredictedCount: avg * float64(daysAhead),
			AvgDailyRate:   avg,
			Confidence:     Confidence,
		})
	}

	logger.Info("computed error forecast",
		zap.Int("horizonDays", daysAhead),
		zap.Int("errorTypes", len(out.Entries)))
	return out
}
