package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/errlens/internal/forecast"
)

// ForecastCmd projects error volumes without the full analysis report.
type ForecastCmd struct {
	DataDir string   `short:"d" help:"Directory holding <source>.json document batches" placeholder:"DIR"`
	Sources []string `short:"s" help:"Source types to include (default: all found)"`
	Limit   int      `help:"Max documents per source (0 = all)"`
	Days    int      `help:"Forecast horizon in days (default from config)"`
}

// Run normalizes the requested sources and prints the projection.
func (c *ForecastCmd) Run(globals *Globals) error {
	ctx := context.Background()

	agg, err := (&AnalyzeCmd{
		DataDir: c.DataDir,
		Sources: c.Sources,
		Limit:   c.Limit,
	}).aggregate(ctx, globals)
	if err != nil {
		return err
	}

	days := c.Days
	if days <= 0 {
		days = globals.Config.Defaults.HorizonDays
	}
	fc := forecast.PredictFutureErrors(agg.Combined(), days, globals.Logger)

	if globals.Format == "json" {
		enc := json.NewEncoder(globals.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(fc)
	}

	if fc.Empty() {
		fmt.Fprintln(globals.Stdout, "No forecastable error data found.")
		return nil
	}

	table := tablewriter.NewTable(globals.Stdout)
	table.Header([]string{"Error Type", "Avg Daily Rate", fc.PredictedColumn(), "Confidence"})
	for _, e := range fc.Entries {
		table.Append([]string{
			e.ErrorType,
			strconv.FormatFloat(e.AvgDailyRate, 'f', 2, 64),
			strconv.FormatFloat(e.PredictedCount, 'f', 1, 64),
			e.Confidence,
		})
	}
	return table.Render()
}
