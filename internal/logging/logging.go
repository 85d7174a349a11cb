// Package logging constructs the zap logger shared by the CLI and the
// engine packages. The logger always writes to stderr so report output
// on stdout stays clean.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger at the given level. Verbose enables development
// encoding with caller annotations; otherwise output is compact JSON.
func New(level string, verbose bool) *zap.Logger {
	lvl := ParseLevel(level)

	var encoder zapcore.Encoder
	if verbose {
		cfg := zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl)
	return zap.New(core)
}

// ParseLevel converts a string to a zap level. Unknown strings default
// to info.
func ParseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
