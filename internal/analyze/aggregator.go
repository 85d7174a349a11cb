// Package analyze combines normalized tables from multiple sources and
// computes frequency, distribution, and temporal views over the result.
package analyze

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/vburojevic/errlens/internal/domain"
)

// SourceTable pairs a source type with its normalized table, preserving
// the caller's source ordering through the combine step.
type SourceTable struct {
	Source string
	Table  *domain.Table
}

// Aggregator holds a combined table and serves read-only views over it.
// Views are recomputed on demand and never mutate the table; when a
// prerequisite column is absent they return empty results with a warning
// rather than failing, so partial data never blocks unrelated analyses.
type Aggregator struct {
	combined *domain.Table
	sources  int
	logger   *zap.Logger
}

// Combine concatenates non-empty source tables into one combined table.
// Row order is preserved per source; differing column sets are not
// aligned — absent columns read as null.
func Combine(tables []SourceTable, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}

	combined := domain.NewTable()
	sources := 0
	for _, st := range tables {
		if st.Table.Empty() {
			continue
		}
		sources++
		for _, col := range st.Table.Columns {
			combined.AddColumn(col)
		}
		combined.Rows = append(combined.Rows, st.Table.Rows...)
	}

	if sources == 0 {
		logger.Warn("no non-empty tables to combine")
	} else {
		logger.Info("combined source tables",
			zap.Int("sources", sources),
			zap.Int("rows", combined.Len()))
	}
	return &Aggregator{combined: combined, sources: sources, logger: logger}
}

// Combined returns the combined table.
func (a *Aggregator) Combined() *domain.Table { return a.combined }

// Sources returns the number of source tables that contributed rows.
func (a *Aggregator) Sources() int { return a.sources }

// TargetColumn returns the column downstream classifier training should
// predict: errorType when present, else errorCode, else "".
func (a *Aggregator) TargetColumn() string { return a.combined.ErrorColumn() }

// ErrorTypeFrequency returns count and percentage per distinct error
// value, sorted descending by count. Ties keep first-seen order.
// Percentages are count/total*100 rounded to two decimals.
func (a *Aggregator) ErrorTypeFrequency() []domain.FrequencyRow {
	errorCol := a.combined.ErrorColumn()
	if errorCol == "" {
		a.logger.Warn("errorType/errorCode column not found, frequency view is empty")
		return nil
	}

	counts := map[string]int{}
	var order []string
	total := 0
	for _, row := range a.combined.Rows {
		v := domain.CellString(row[errorCol])
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
		total++
	}
	if total == 0 {
		return nil
	}

	rows := make([]domain.FrequencyRow, 0, len(order))
	for _, v := range order {
		rows = append(rows, domain.FrequencyRow{
			ErrorType:  v,
			Count:      counts[v],
			Percentage: round2(float64(counts[v]) / float64(total) * 100),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}

// FrequencyByCollection returns the error type x source collection cross
// count, with missing combinations zero-filled.
func (a *Aggregator) FrequencyByCollection() *domain.CollectionMatrix {
	errorCol := a.combined.ErrorColumn()
	if errorCol == "" || !a.combined.HasColumn(domain.ColSource) {
		a.logger.Warn("error or source_collection column not found, collection view is empty")
		return &domain.CollectionMatrix{}
	}

	counts := map[string]map[string]int{}
	var errorTypes, collections []string
	seenType := map[string]bool{}
	seenColl := map[string]bool{}

	for _, row := range a.combined.Rows {
		et := domain.CellString(row[errorCol])
		coll := domain.CellString(row[domain.ColSource])
		if et == "" || coll == "" {
			continue
		}
		if !seenType[et] {
			seenType[et] = true
			errorTypes = append(errorTypes, et)
		}
		if !seenColl[coll] {
			seenColl[coll] = true
			collections = append(collections, coll)
		}
		if counts[et] == nil {
			counts[et] = map[string]int{}
		}
		counts[et][coll]++
	}

	// Zero-fill missing combinations.
	for _, et := range errorTypes {
		for _, coll := range collections {
			if _, ok := counts[et][coll]; !ok {
				counts[et][coll] = 0
			}
		}
	}

	return &domain.CollectionMatrix{
		ErrorTypes:  errorTypes,
		Collections: collections,
		Counts:      counts,
	}
}

// TemporalAnalysis groups error occurrences by calendar date and by hour
// of day using the given time column. Returns an empty analysis when the
// time column or errorType column is absent.
func (a *Aggregator) TemporalAnalysis(timeColumn string) *domain.TemporalAnalysis {
	if timeColumn == "" {
		timeColumn = domain.ColTimestamp
	}
	if !a.combined.HasColumn(timeColumn) {
		a.logger.Warn("time column not found, temporal view is empty",
			zap.String("column", timeColumn))
		return &domain.TemporalAnalysis{}
	}
	if !a.combined.HasColumn(domain.ColErrorType) {
		a.logger.Warn("errorType column not found, temporal view is empty")
		return &domain.TemporalAnalysis{}
	}

	daily := map[string]map[string]int{}
	hourly := map[int]map[string]int{}
	for _, row := range a.combined.Rows {
		ts, ok := domain.ParseTimestamp(row[timeColumn])
		if !ok {
			continue
		}
		et := domain.CellString(row[domain.ColErrorType])
		if et == "" {
			continue
		}
		date := ts.Format(time.DateOnly)
		if daily[date] == nil {
			daily[date] = map[string]int{}
		}
		daily[date][et]++
		h := ts.Hour()
		if hourly[h] == nil {
			hourly[h] = map[string]int{}
		}
		hourly[h][et]++
	}

	out := &domain.TemporalAnalysis{}
	for _, date := range sortedKeys(daily) {
		for _, et := range sortedKeys(daily[date]) {
			out.Daily = append(out.Daily, domain.DailyCount{Date: date, ErrorType: et, Count: daily[date][et]})
		}
	}
	for h := 0; h < 24; h++ {
		buckets, ok := hourly[h]
		if !ok {
			continue
		}
		for _, et := range sortedKeys(buckets) {
			out.Hourly = append(out.Hourly, domain.HourlyCount{Hour: h, ErrorType: et, Count: buckets[et]})
		}
	}
	return out
}

// SummaryStatistics describes the combined table: totals, contributing
// collections, timestamp span, and the distinct error values.
func (a *Aggregator) SummaryStatistics() domain.SummaryStatistics {
	stats := domain.SummaryStatistics{
		TotalRecords: a.combined.Len(),
		Collections:  a.sources,
	}

	if a.combined.HasColumn(domain.ColTimestamp) {
		var earliest, latest time.Time
		for _, row := range a.combined.Rows {
			ts, ok := domain.ParseTimestamp(row[domain.ColTimestamp])
			if !ok {
				continue
			}
			if earliest.IsZero() || ts.Before(earliest) {
				earliest = ts
			}
			if latest.IsZero() || ts.After(latest) {
				latest = ts
			}
		}
		stats.Earliest = earliest
		stats.Latest = latest
		if !earliest.IsZero() {
			stats.SpanDays = int(latest.Sub(earliest).Hours() / 24)
		}
	}

	if errorCol := a.combined.ErrorColumn(); errorCol != "" {
		seen := map[string]bool{}
		for _, row := range a.combined.Rows {
			if v := domain.CellString(row[errorCol]); v != "" && !seen[v] {
				seen[v] = true
				stats.ErrorTypes = append(stats.ErrorTypes, v)
			}
		}
		stats.ErrorTypeCount = len(stats.ErrorTypes)
	}
	return stats
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
