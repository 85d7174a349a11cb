// Package cli wires the errlens commands: fetch documents through a
// connector, normalize them against the schema registry, aggregate,
// forecast, and render reports.
package cli

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/vburojevic/errlens/internal/config"
	"github.com/vburojevic/errlens/internal/logging"
	"github.com/vburojevic/errlens/internal/schema"
)

// CLI is the top-level command tree.
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"text" enum:"text,json" help:"Output format"`
	Level   string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Minimum log level"`
	Verbose bool   `short:"v" help:"Verbose (console) logging"`

	// Commands
	Analyze  AnalyzeCmd  `cmd:"" default:"withargs" help:"Normalize source batches and report error patterns"`
	Forecast ForecastCmd `cmd:"" help:"Project near-term error volumes per error type"`
	Columns  ColumnsCmd  `cmd:"" help:"List the canonical columns across registered contracts"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands.
type Globals struct {
	Format   string
	Stdout   io.Writer
	Stderr   io.Writer
	Config   *config.Config
	Logger   *zap.Logger
	Registry *schema.Registry
}

// NewGlobals builds Globals from parsed flags and loaded config. Config
// supplies defaults; explicit flags win.
func NewGlobals(c *CLI, cfg *config.Config) *Globals {
	format := c.Format
	if format == "" {
		format = cfg.Format
	}
	level := c.Level
	if level == "" {
		level = cfg.Level
	}
	return &Globals{
		Format:   format,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Config:   cfg,
		Logger:   logging.New(level, c.Verbose || cfg.Verbose),
		Registry: schema.NewDefaultRegistry(),
	}
}
