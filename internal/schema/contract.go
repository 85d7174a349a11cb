// Package schema holds per-source-type extraction contracts: which fields
// to pull out of raw documents, how, and which of them are the canonical
// error identifier and event timestamp.
package schema

import (
	"github.com/tidwall/gjson"

	"github.com/vburojevic/errlens/internal/domain"
)

// FieldRule describes how one output field is extracted from a raw
// document. Rules are plain values, not dispatch machinery: either an
// ordered list of gjson paths (first present wins) with a default, or a
// custom function for shapes a path cannot express.
type FieldRule struct {
	// Paths are tried in order against the document's JSON encoding.
	// The first path that exists supplies the value, even if null.
	Paths []string

	// Default is used when no path is present. A nil default yields a
	// null cell rather than dropping the record.
	Default any

	// Fn, when set, overrides Paths entirely.
	Fn func(doc domain.Document) any
}

// Apply evaluates the rule against a document and its JSON encoding.
func (fr FieldRule) Apply(doc domain.Document, raw []byte) any {
	if fr.Fn != nil {
		return fr.Fn(doc)
	}
	for _, path := range fr.Paths {
		if res := gjson.GetBytes(raw, path); res.Exists() {
			return res.Value()
		}
	}
	return fr.Default
}

// Contract is the declarative extraction contract for one source type.
type Contract struct {
	// ErrorField is the extracted field holding the error identifier;
	// it is renamed to the canonical errorType column.
	ErrorField string

	// TimestampField is the extracted field holding the event time;
	// it is renamed to the canonical timestamp column.
	TimestampField string

	// Required fields always appear as columns. A required field with no
	// registered rule yields a null cell, never a dropped record.
	Required []string

	// Optional fields appear only when a rule is registered for them.
	Optional []string

	// Rules maps field name to its extraction rule.
	Rules map[string]FieldRule
}

// Fields returns required then optional field names, in contract order.
func (c *Contract) Fields() []string {
	out := make([]string, 0, len(c.Required)+len(c.Optional))
	out = append(out, c.Required...)
	out = append(out, c.Optional...)
	return out
}
