package cli

import (
	"encoding/json"
	"fmt"
)

// ColumnsCmd prints the canonical column set for schema discovery by
// downstream consumers.
type ColumnsCmd struct{}

// Run lists the union of columns across registered contracts.
func (c *ColumnsCmd) Run(globals *Globals) error {
	cols := globals.Registry.CanonicalColumns()

	if globals.Format == "json" {
		out := map[string]any{
			"type":    "columns",
			"columns": cols,
			"sources": globals.Registry.SourceTypes(),
		}
		enc := json.NewEncoder(globals.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, col := range cols {
		fmt.Fprintln(globals.Stdout, col)
	}
	return nil
}
