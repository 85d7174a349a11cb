package domain

// Document is a raw source document: an arbitrarily nested mapping of
// string keys to scalars, nested mappings, or arrays. No shape is assumed
// beyond what an extraction contract declares.
type Document map[string]any

// Record is one normalized row. A key present with a nil value is a null
// cell; an absent key means the column was never produced for this record.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
