package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New()
	require.Len(t, id, Length)

	for _, c := range id {
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
		assert.True(t, isHex, "unexpected character %q in id %s", c, id)
	}
}

func TestNewUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		require.False(t, seen[id], "duplicate id %s after %d draws", id, i)
		seen[id] = true
	}
}

func TestFixed(t *testing.T) {
	gen := Fixed("abcd1234")
	assert.Equal(t, "abcd1234", gen())
	assert.Equal(t, "abcd1234", gen())
}
