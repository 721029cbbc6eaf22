package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryCapabilityHasNameAndHandler(t *testing.T) {
	b := New(Deps{})
	seen := make(map[string]bool)
	for c := Capability(0); c < capabilityCount; c++ {
		name := capabilityNames[c]
		require.NotEmpty(t, name, "capability %d has no name", c)
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
		assert.NotNil(t, b.handlers[c], "capability %s has no handler", name)

		got, ok := Lookup(name)
		assert.True(t, ok)
		assert.Equal(t, c, got)
		assert.Equal(t, name, c.String())
	}
	assert.Len(t, Names(), int(capabilityCount))
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("rmRf")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Capability(-1).String())
	assert.Equal(t, "unknown", capabilityCount.String())
}
