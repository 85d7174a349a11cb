package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vburojevic/errlens/internal/config"
	"github.com/vburojevic/errlens/internal/schema"
)

// testGlobals creates a Globals struct with captured stdout/stderr.
func testGlobals(format string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Globals{
		Format:   format,
		Stdout:   stdout,
		Stderr:   stderr,
		Config:   config.Default(),
		Logger:   zap.NewNop(),
		Registry: schema.NewDefaultRegistry(),
	}, stdout, stderr
}

// writeDataDir lays out a connector directory with flat and nested
// source batches.
func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	flat := `[
		{"errorType": "TIMEOUT", "timestamp": "2024-03-15T09:00:00Z", "rawData": "123", "type": "payment"},
		{"errorType": "TIMEOUT", "timestamp": "2024-03-15T14:00:00Z", "rawData": "456", "type": "payment"},
		{"errorType": "AUTH", "timestamp": "2024-03-16T10:00:00Z", "rawData": "789", "type": "login"}
	]`
	nested := `[
		{
			"dataSavedAtTimeStamp": "2024-03-15T11:00:00Z",
			"event": {
				"header": {"errorCode": "DECLINED", "errorDetails": "insufficient funds", "domain": "payments", "businessCode": "B1"},
				"body": {"transactionAmount": 42.0, "merchantIdentifier": "M-1"}
			}
		}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flat.json"), []byte(flat), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested.json"), []byte(nested), 0o644))
	return dir
}

// --- Analyze Command Tests ---

func TestAnalyzeCmd_Run(t *testing.T) {
	t.Run("text report over all sources", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &AnalyzeCmd{DataDir: writeDataDir(t)}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "Error Analysis Report")
		assert.Contains(t, output, "Total records:       4")
		assert.Contains(t, output, "TIMEOUT")
		assert.Contains(t, output, "DECLINED")
	})

	t.Run("json report", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		cmd := &AnalyzeCmd{DataDir: writeDataDir(t)}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Contains(t, result, "summary")
		assert.Contains(t, result, "error_frequency")
		assert.Contains(t, result, "forecast")

		summary := result["summary"].(map[string]any)
		assert.Equal(t, float64(4), summary["total_records"])
		assert.Equal(t, float64(2), summary["collections_analyzed"])
	})

	t.Run("restricted to one source", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		cmd := &AnalyzeCmd{DataDir: writeDataDir(t), Sources: []string{"flat"}}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		summary := result["summary"].(map[string]any)
		assert.Equal(t, float64(3), summary["total_records"])
		assert.NotContains(t, stdout.String(), "DECLINED")
	})

	t.Run("limit caps documents per source", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		cmd := &AnalyzeCmd{DataDir: writeDataDir(t), Sources: []string{"flat"}, Limit: 1}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		summary := result["summary"].(map[string]any)
		assert.Equal(t, float64(1), summary["total_records"])
	})

	t.Run("missing source fails", func(t *testing.T) {
		globals, _, _ := testGlobals("text")
		cmd := &AnalyzeCmd{DataDir: writeDataDir(t), Sources: []string{"nope"}}
		assert.Error(t, cmd.Run(globals))
	})

	t.Run("empty data dir fails", func(t *testing.T) {
		globals, _, _ := testGlobals("text")
		cmd := &AnalyzeCmd{DataDir: t.TempDir()}
		assert.Error(t, cmd.Run(globals))
	})

	t.Run("store without configured storage fails", func(t *testing.T) {
		globals, _, _ := testGlobals("text")
		cmd := &AnalyzeCmd{DataDir: writeDataDir(t), Store: true}

		err := cmd.Run(globals)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no storage configured")
	})
}

// --- Forecast Command Tests ---

func TestForecastCmd_Run(t *testing.T) {
	t.Run("text table", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &ForecastCmd{DataDir: writeDataDir(t), Days: 7}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "TIMEOUT")
		assert.Contains(t, output, "medium")
	})

	t.Run("json projection", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		cmd := &ForecastCmd{DataDir: writeDataDir(t), Days: 3}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, float64(3), result["horizon_days"])
		entries := result["entries"].([]any)
		assert.NotEmpty(t, entries)
	})

	t.Run("horizon falls back to config", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		cmd := &ForecastCmd{DataDir: writeDataDir(t)}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, float64(7), result["horizon_days"])
	})
}

// --- Columns Command Tests ---

func TestColumnsCmd_Run(t *testing.T) {
	t.Run("text lists one column per line", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &ColumnsCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		assert.Contains(t, lines, "errorType")
		assert.Contains(t, lines, "timestamp")
		assert.Contains(t, lines, "source_collection")
		assert.Contains(t, lines, "rawData")
	})

	t.Run("json payload", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		cmd := &ColumnsCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "columns", result["type"])
		assert.Contains(t, result, "columns")
		assert.Contains(t, result, "sources")
	})
}

// --- Version Command Tests ---

func TestVersionCmd_Run(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &VersionCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "errlens")
	})

	t.Run("json", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		cmd := &VersionCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "version", result["type"])
		assert.Contains(t, result, "goVersion")
	})
}

// --- Globals Tests ---

func TestNewGlobals(t *testing.T) {
	cfg := config.Default()
	c := &CLI{Format: "json", Level: "debug"}

	globals := NewGlobals(c, cfg)
	assert.Equal(t, "json", globals.Format)
	assert.NotNil(t, globals.Logger)
	assert.NotNil(t, globals.Registry)

	_, ok := globals.Registry.Lookup(schema.SourceFlat)
	assert.True(t, ok)
}
