// Package normalize turns heterogeneous raw documents into uniform
// tables with canonical errorType / timestamp / source_collection
// columns, using registered extraction contracts or a generic fallback.
package normalize

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/vburojevic/errlens/internal/domain"
	"github.com/vburojevic/errlens/internal/schema"
)

// Normalizer applies extraction contracts to raw document batches. It is
// a pure transformation over its inputs and the registry's current state;
// concurrent Normalize calls are safe as long as registration is done.
type Normalizer struct {
	registry *schema.Registry
	logger   *zap.Logger
}

// New returns a Normalizer reading contracts from the given registry.
func New(registry *schema.Registry, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{registry: registry, logger: logger}
}

// Normalize produces a normalized table for one source batch. It never
// fails: unregistered source types use generic extraction, missing fields
// become null cells, and unparsable timestamps become null timestamps.
// The returned table has one row per input document.
func (n *Normalizer) Normalize(sourceType string, docs []domain.Document) *domain.Table {
	contract, ok := n.registry.Lookup(sourceType)
	if !ok {
		n.logger.Warn("no contract registered, using generic extraction",
			zap.String("source", sourceType))
		return n.normalizeGeneric(sourceType, docs)
	}
	return n.normalizeWithContract(sourceType, contract, docs)
}

func (n *Normalizer) normalizeWithContract(sourceType string, c *schema.Contract, docs []domain.Document) *domain.Table {
	table := domain.NewTable()

	missingRules := map[string]bool{}
	for _, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			// A Document is a plain map; marshal failure means an
			// unencodable value slipped in. The row survives with nulls.
			raw = []byte("{}")
		}

		row := domain.Record{}
		for _, field := range c.Required {
			rule, ok := c.Rules[field]
			if !ok {
				if !missingRules[field] {
					missingRules[field] = true
					n.logger.Warn("required field has no extraction rule",
						zap.String("source", sourceType), zap.String("field", field))
				}
				row[field] = nil
				continue
			}
			row[field] = rule.Apply(doc, raw)
		}
		for _, field := range c.Optional {
			if rule, ok := c.Rules[field]; ok {
				row[field] = rule.Apply(doc, raw)
			}
		}

		renameField(row, c.ErrorField, domain.ColErrorType)
		renameField(row, c.TimestampField, domain.ColTimestamp)
		row[domain.ColSource] = sourceType
		table.Append(row)
	}

	if table.Len() > 0 {
		// Canonical columns exist even if every value is null.
		table.AddColumn(domain.ColErrorType)
		table.AddColumn(domain.ColTimestamp)
	}
	coerceTimestamps(table)

	n.logger.Debug("normalized batch with contract",
		zap.String("source", sourceType),
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Columns)))
	return table
}

// normalizeGeneric promotes every top-level key to a column. Uniformly
// nested "event" sub-objects are flattened into prefixed columns; other
// nested shapes are kept as opaque structured values, a documented
// limitation of schema-less extraction.
func (n *Normalizer) normalizeGeneric(sourceType string, docs []domain.Document) *domain.Table {
	table := domain.NewTable()
	for _, doc := range docs {
		row := domain.Record{}
		for k, v := range doc {
			row[k] = v
		}
		row[domain.ColSource] = sourceType
		table.Append(row)
	}

	if table.HasColumn(eventColumn) {
		flattenEvent(table, n.logger.With(zap.String("source", sourceType)))
	}
	reconcileColumns(table)
	coerceTimestamps(table)

	n.logger.Debug("normalized batch without contract",
		zap.String("source", sourceType),
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Columns)))
	return table
}

// renameField moves a row value to its canonical column name. No-op when
// the field is already canonically named or absent.
func renameField(row domain.Record, from, to string) {
	if from == to {
		return
	}
	if v, ok := row[from]; ok {
		row[to] = v
		delete(row, from)
	}
}

// reconcileColumns applies the priority-ordered field-name fallback
// chains on a schema-less table. Presence of a column decides, not
// whether its values are non-null; later candidates are never consulted
// once an earlier one is present.
func reconcileColumns(t *domain.Table) {
	if t.HasColumn(domain.ColErrorCode) && !t.HasColumn(domain.ColErrorType) {
		aliasColumn(t, domain.ColErrorCode, domain.ColErrorType)
	}
	if t.HasColumn(domain.ColErrorDetails) && t.HasColumn(domain.ColErrorType) {
		aliasColumn(t, domain.ColErrorDetails, domain.ColErrorMessage)
	}
	if !t.HasColumn(domain.ColTimestamp) {
		for _, candidate := range domain.TimestampCandidates[1:] {
			if t.HasColumn(candidate) {
				aliasColumn(t, candidate, domain.ColTimestamp)
				break
			}
		}
	}
}

// aliasColumn copies a column under a new name, retaining the original.
func aliasColumn(t *domain.Table, from, to string) {
	for _, row := range t.Rows {
		if v, ok := row[from]; ok {
			row[to] = v
		}
	}
	t.AddColumn(to)
}

// coerceTimestamps converts the timestamp column to time.Time values.
// Unparsable values become null timestamps rather than errors.
func coerceTimestamps(t *domain.Table) {
	if !t.HasColumn(domain.ColTimestamp) {
		return
	}
	for _, row := range t.Rows {
		v, ok := row[domain.ColTimestamp]
		if !ok {
			continue
		}
		if ts, ok := domain.ParseTimestamp(v); ok {
			row[domain.ColTimestamp] = ts
		} else {
			row[domain.ColTimestamp] = nil
		}
	}
}
