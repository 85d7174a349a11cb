package domain

import "sort"

// Canonical column names shared by every normalized table regardless of
// source-specific naming.
const (
	ColErrorType    = "errorType"
	ColTimestamp    = "timestamp"
	ColSource       = "source_collection"
	ColErrorCode    = "errorCode"
	ColErrorDetails = "errorDetails"
	ColErrorMessage = "errorMessage"
)

// TimestampCandidates is the priority-ordered list of column names tried
// when resolving an event timestamp. Presence of the column decides, not
// whether its values are non-null.
var TimestampCandidates = []string{
	ColTimestamp,
	"dataSavedAtTimeStamp",
	"eventTransactionTime",
	"header_timestamp",
}

// Table is an ordered batch of normalized records from one source.
// Column order follows first appearance; row order follows source
// iteration order. A table is immutable once returned by the normalizer.
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Append adds a record, registering any columns not yet seen.
func (t *Table) Append(r Record) {
	for _, col := range recordColumns(r, t.Columns) {
		t.Columns = append(t.Columns, col)
	}
	t.Rows = append(t.Rows, r)
}

// AddColumn registers a column without adding rows. Existing rows simply
// have no cell for it (null-filled on read).
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// HasColumn reports whether the column exists in the table's schema.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t == nil || len(t.Rows) == 0 }

// ErrorColumn resolves the error-identifier column: errorType when
// present, else errorCode, else "".
func (t *Table) ErrorColumn() string {
	if t.HasColumn(ColErrorType) {
		return ColErrorType
	}
	if t.HasColumn(ColErrorCode) {
		return ColErrorCode
	}
	return ""
}

// TimestampColumn resolves the first present timestamp candidate, or "".
func (t *Table) TimestampColumn() string {
	for _, c := range TimestampCandidates {
		if t.HasColumn(c) {
			return c
		}
	}
	return ""
}

// recordColumns returns the keys of r not already present in known,
// in deterministic (sorted) order for reproducible schemas.
func recordColumns(r Record, known []string) []string {
	seen := make(map[string]struct{}, len(known))
	for _, c := range known {
		seen[c] = struct{}{}
	}
	var fresh []string
	for k := range r {
		if _, ok := seen[k]; !ok {
			fresh = append(fresh, k)
		}
	}
	sort.Strings(fresh)
	return fresh
}
