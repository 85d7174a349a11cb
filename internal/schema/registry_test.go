package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/errlens/internal/domain"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("flat")
	assert.False(t, ok)

	r.Register("flat", FlatContract())
	c, ok := r.Lookup("flat")
	require.True(t, ok)
	assert.Equal(t, "errorType", c.ErrorField)
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("s", &Contract{ErrorField: "first"})
	r.Register("s", &Contract{ErrorField: "second"})

	c, ok := r.Lookup("s")
	require.True(t, ok)
	assert.Equal(t, "second", c.ErrorField)
}

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	assert.Equal(t, []string{SourceFlat, SourceNested}, r.SourceTypes())

	flat, ok := r.Lookup(SourceFlat)
	require.True(t, ok)
	assert.Equal(t, "errorType", flat.ErrorField)
	assert.Equal(t, "timestamp", flat.TimestampField)

	nested, ok := r.Lookup(SourceNested)
	require.True(t, ok)
	assert.Equal(t, "errorCode", nested.ErrorField)
	assert.Equal(t, "timestamp", nested.TimestampField)
}

func TestCanonicalColumns(t *testing.T) {
	r := NewDefaultRegistry()
	cols := r.CanonicalColumns()

	// Sorted, unique, and always containing the canonical three.
	assert.Contains(t, cols, domain.ColErrorType)
	assert.Contains(t, cols, domain.ColTimestamp)
	assert.Contains(t, cols, domain.ColSource)
	assert.Contains(t, cols, "rawData")
	assert.Contains(t, cols, "merchantIdentifier")
	assert.IsIncreasing(t, cols)
}

func TestCanonicalColumnsEmptyRegistry(t *testing.T) {
	cols := NewRegistry().CanonicalColumns()
	assert.Equal(t, []string{domain.ColErrorType, domain.ColSource, domain.ColTimestamp}, cols)
}
