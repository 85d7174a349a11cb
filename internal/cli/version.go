package cli

import (
	"encoding/json"
	"fmt"
	"runtime"
)

// Build metadata, set via -ldflags at release time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// VersionCmd shows version information.
type VersionCmd struct{}

// Run prints version info in the selected format.
func (c *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "json" {
		out := map[string]string{
			"type":      "version",
			"version":   Version,
			"commit":    Commit,
			"buildDate": BuildDate,
			"goVersion": runtime.Version(),
		}
		enc := json.NewEncoder(globals.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(globals.Stdout, "errlens %s (commit %s, built %s, %s)\n",
		Version, Commit, BuildDate, runtime.Version())
	return nil
}
