// Package report renders the analysis results - summary, frequency,
// distribution, forecast, recommendations - as styled text or JSON.
// Chart rendering belongs to external collaborators, not here.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/errlens/internal/domain"
)

// Report is one complete analysis run, ready for rendering.
type Report struct {
	GeneratedAt     time.Time                `json:"analysis_timestamp"`
	Summary         domain.SummaryStatistics `json:"summary"`
	Frequency       []domain.FrequencyRow    `json:"error_frequency,omitempty"`
	ByCollection    *domain.CollectionMatrix `json:"collection_distribution,omitempty"`
	Forecast        *domain.Forecast         `json:"forecast,omitempty"`
	Recommendations []string                 `json:"recommendations,omitempty"`
}

// Builder assembles reports with an injectable clock.
type Builder struct {
	clock clock.Clock
}

// NewBuilder returns a Builder using the wall clock.
func NewBuilder() *Builder {
	return &Builder{clock: clock.New()}
}

// WithClock substitutes the clock, for tests.
func (b *Builder) WithClock(c clock.Clock) *Builder {
	b.clock = c
	return b
}

// Build assembles a report and derives its recommendations.
func (b *Builder) Build(summary domain.SummaryStatistics, freq []domain.FrequencyRow, matrix *domain.CollectionMatrix, fc *domain.Forecast) *Report {
	r := &Report{
		GeneratedAt:  b.clock.Now().UTC(),
		Summary:      summary,
		Frequency:    freq,
		ByCollection: matrix,
		Forecast:     fc,
	}

	if len(freq) > 0 {
		top := freq[0]
		r.Recommendations = append(r.Recommendations, fmt.Sprintf(
			"Priority: address %q errors - they account for %.2f%% of all errors",
			top.ErrorType, top.Percentage))
	}
	if !fc.Empty() {
		top := fc.Entries[0]
		for _, e := range fc.Entries[1:] {
			if e.PredictedCount > top.PredictedCount {
				top = e
			}
		}
		r.Recommendations = append(r.Recommendations, fmt.Sprintf(
			"Expected volume: %q errors predicted to occur %.0f times in the next %d days",
			top.ErrorType, top.PredictedCount, fc.HorizonDays))
	}
	return r
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText renders the report as human-readable text with tables.
func (r *Report) WriteText(w io.Writer, styled bool) error {
	style := func(s lipgloss.Style, text string) string {
		if styled {
			return s.Render(text)
		}
		return text
	}

	fmt.Fprintln(w, style(Styles.Title, "Error Analysis Report"))
	fmt.Fprintf(w, "%s %s\n\n", style(Styles.Label, "Generated:"),
		r.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintln(w, style(Styles.Section, "Summary"))
	fmt.Fprintf(w, "  Total records:       %d\n", r.Summary.TotalRecords)
	fmt.Fprintf(w, "  Collections:         %d\n", r.Summary.Collections)
	fmt.Fprintf(w, "  Distinct error types: %d\n", r.Summary.ErrorTypeCount)
	if !r.Summary.Earliest.IsZero() {
		fmt.Fprintf(w, "  Time span:           %s to %s (%d days)\n",
			r.Summary.Earliest.Format(time.DateOnly),
			r.Summary.Latest.Format(time.DateOnly),
			r.Summary.SpanDays)
	}
	fmt.Fprintln(w)

	if len(r.Frequency) > 0 {
		fmt.Fprintln(w, style(Styles.Section, "Error Frequency"))
		table := tablewriter.NewTable(w)
		table.Header([]string{"Error Type", "Count", "Percentage"})
		for _, row := range r.Frequency {
			table.Append([]string{
				row.ErrorType,
				strconv.Itoa(row.Count),
				fmt.Sprintf("%.2f%%", row.Percentage),
			})
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if !r.ByCollection.Empty() {
		fmt.Fprintln(w, style(Styles.Section, "Errors by Collection"))
		table := tablewriter.NewTable(w)
		header := append([]string{"Error Type"}, r.ByCollection.Collections...)
		table.Header(header)
		for _, et := range r.ByCollection.ErrorTypes {
			row := []string{et}
			for _, coll := range r.ByCollection.Collections {
				row = append(row, strconv.Itoa(r.ByCollection.Counts[et][coll]))
			}
			table.Append(row)
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if !r.Forecast.Empty() {
		fmt.Fprintln(w, style(Styles.Section,
			fmt.Sprintf("Forecast (next %d days)", r.Forecast.HorizonDays)))
		table := tablewriter.NewTable(w)
		table.Header([]string{"Error Type", "Avg Daily Rate", "Predicted Count", "Confidence"})
		for _, e := range r.Forecast.Entries {
			table.Append([]string{
				e.ErrorType,
				fmt.Sprintf("%.2f", e.AvgDailyRate),
				fmt.Sprintf("%.1f", e.PredictedCount),
				e.Confidence,
			})
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintln(w, style(Styles.Section, "Recommendations"))
		for i, rec := range r.Recommendations {
			fmt.Fprintf(w, "  %d. %s\n", i+1, rec)
		}
	}
	return nil
}
