package normalize

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/vburojevic/errlens/internal/domain"
)

// eventColumn is the one nested shape the schema-less path knows how to
// flatten: each record's "event" holds "header" and "body" sub-objects.
const eventColumn = "event"

const (
	headerPrefix = "header_"
	bodyPrefix   = "body_"
)

// flattenEvent flattens the event column of a batch into header_ and
// body_ prefixed scalar columns. One column is created per distinct key
// observed across the whole batch; records missing a key get null cells.
// The original nested column is dropped.
//
// On a structural mismatch (a header or body that is not a sub-object),
// the entire event column is dropped for the whole batch with a warning;
// processing continues without it. This is deliberately all-or-nothing at
// batch level, not per-record.
func flattenEvent(t *domain.Table, logger *zap.Logger) {
	headers := make([]map[string]any, t.Len())
	bodies := make([]map[string]any, t.Len())

	for i, row := range t.Rows {
		ev, ok := row[eventColumn]
		if !ok || ev == nil {
			continue
		}
		evMap, ok := asMap(ev)
		if !ok {
			// A scalar where the event object was expected carries no
			// header/body to lift; treat as empty, matching a missing event.
			continue
		}
		header, ok := subObject(evMap, "header")
		if !ok {
			dropEventColumn(t, logger, "header")
			return
		}
		body, ok := subObject(evMap, "body")
		if !ok {
			dropEventColumn(t, logger, "body")
			return
		}
		headers[i] = header
		bodies[i] = body
	}

	removeColumn(t, eventColumn)
	spreadPrefixed(t, headers, headerPrefix)
	spreadPrefixed(t, bodies, bodyPrefix)
}

// subObject extracts a named sub-object, defaulting to empty when absent.
// The bool is false on a structural mismatch: present but not a mapping.
func subObject(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return map[string]any{}, true
	}
	sub, ok := asMap(v)
	if !ok {
		return nil, false
	}
	return sub, true
}

// spreadPrefixed adds one prefixed column per distinct key across the
// batch and fills per-record values, null where a record lacks the key.
// Keys already carrying the prefix are not re-prefixed.
func spreadPrefixed(t *domain.Table, subs []map[string]any, prefix string) {
	keySet := map[string]string{} // original key -> column name
	for _, sub := range subs {
		for k := range sub {
			if _, seen := keySet[k]; !seen {
				keySet[k] = prefixKey(k, prefix)
			}
		}
	}
	if len(keySet) == 0 {
		return
	}

	cols := make([]string, 0, len(keySet))
	for _, col := range keySet {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		t.AddColumn(col)
	}

	for i, row := range t.Rows {
		for k, col := range keySet {
			if subs[i] == nil {
				row[col] = nil
				continue
			}
			if v, ok := subs[i][k]; ok {
				row[col] = v
			} else {
				row[col] = nil
			}
		}
	}
}

// prefixKey prefixes a key unless it is already prefixed.
func prefixKey(k, prefix string) string {
	if strings.HasPrefix(k, prefix) {
		return k
	}
	return prefix + k
}

// dropEventColumn removes the event column from the whole batch after a
// structural mismatch, signalling the caller through a warning.
func dropEventColumn(t *domain.Table, logger *zap.Logger, section string) {
	logger.Warn("unexpected shape in nested column, dropping it for the batch",
		zap.String("column", eventColumn),
		zap.String("section", section))
	removeColumn(t, eventColumn)
}

func removeColumn(t *domain.Table, name string) {
	for _, row := range t.Rows {
		delete(row, name)
	}
	cols := t.Columns[:0]
	for _, c := range t.Columns {
		if c != name {
			cols = append(cols, c)
		}
	}
	t.Columns = cols
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case domain.Document:
		return m, true
	default:
		return nil, false
	}
}
