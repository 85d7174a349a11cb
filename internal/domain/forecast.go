package domain

import "fmt"

// ForecastEntry is one projected error type: its observed average daily
// rate and the count expected over the forecast horizon.
type ForecastEntry struct {
	ErrorType      string  `json:"errorType"`
	PredictedCount float64 `json:"predicted_count"`
	AvgDailyRate   float64 `json:"avg_daily_rate"`
	Confidence     string  `json:"confidence"`
}

// Forecast is the full projection for a fixed horizon, one entry per
// distinct error type seen historically. Computed fresh each invocation.
type Forecast struct {
	HorizonDays int             `json:"horizon_days"`
	Entries     []ForecastEntry `json:"entries"`
}

// Empty reports whether the forecast produced no entries.
func (f *Forecast) Empty() bool { return f == nil || len(f.Entries) == 0 }

// PredictedColumn returns the horizon-specific column name used when the
// forecast is handed to downstream consumers.
func (f *Forecast) PredictedColumn() string {
	return fmt.Sprintf("predicted_count_next_%d_days", f.HorizonDays)
}
