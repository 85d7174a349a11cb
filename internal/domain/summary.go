package domain

import "time"

// FrequencyRow is one error type's share of the combined table.
type FrequencyRow struct {
	ErrorType  string  `json:"errorType"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CollectionMatrix is a cross count of error type by source collection.
// Missing combinations are zero-filled.
type CollectionMatrix struct {
	ErrorTypes  []string                  `json:"errorTypes"`
	Collections []string                  `json:"collections"`
	Counts      map[string]map[string]int `json:"counts"` // errorType -> collection -> count
}

// Empty reports whether the matrix has no cells.
func (m *CollectionMatrix) Empty() bool { return m == nil || len(m.ErrorTypes) == 0 }

// RowTotal sums one error type's counts across all collections.
func (m *CollectionMatrix) RowTotal(errorType string) int {
	total := 0
	for _, n := range m.Counts[errorType] {
		total += n
	}
	return total
}

// DailyCount is the number of occurrences of one error type on one
// calendar date (YYYY-MM-DD).
type DailyCount struct {
	Date      string `json:"date"`
	ErrorType string `json:"errorType"`
	Count     int    `json:"count"`
}

// HourlyCount is the number of occurrences of one error type in one
// hour of day (0-23), aggregated across all dates.
type HourlyCount struct {
	Hour      int    `json:"hour"`
	ErrorType string `json:"errorType"`
	Count     int    `json:"count"`
}

// TemporalAnalysis groups error occurrences by date and by hour of day.
type TemporalAnalysis struct {
	Daily  []DailyCount  `json:"daily"`
	Hourly []HourlyCount `json:"hourly"`
}

// Empty reports whether the analysis produced no buckets.
func (t *TemporalAnalysis) Empty() bool {
	return t == nil || (len(t.Daily) == 0 && len(t.Hourly) == 0)
}

// SummaryStatistics describes the combined table as a whole.
type SummaryStatistics struct {
	TotalRecords   int       `json:"total_records"`
	Collections    int       `json:"collections_analyzed"`
	Earliest       time.Time `json:"earliest"`
	Latest         time.Time `json:"latest"`
	SpanDays       int       `json:"span_days"`
	ErrorTypeCount int       `json:"error_type_count"`
	ErrorTypes     []string  `json:"error_types"`
}
