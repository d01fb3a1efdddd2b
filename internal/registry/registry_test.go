package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsEmptyAndDuplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(Definition{Type: "Card", Container: true}))
	assert.Error(t, r.Register(Definition{Type: "Card"}))
	assert.Error(t, r.Register(Definition{}))

	d, ok := r.Lookup("Card")
	require.True(t, ok)
	assert.Equal(t, "Card", d.Label)
	assert.True(t, r.IsContainer("Card"))
}

func TestDefaultRules(t *testing.T) {
	r := Default()
	for _, typ := range DefaultInlineEditable {
		assert.True(t, r.InlineEditable(typ), typ)
	}
	assert.False(t, r.InlineEditable("Box"))
	assert.False(t, r.CanDelete("Body"))
	assert.False(t, r.CanDuplicate("Body"))
	assert.True(t, r.CanDelete("Unknown"))
	assert.True(t, r.CanDuplicate("Unknown"))
	assert.False(t, r.InlineEditable("Unknown"))
}

func TestSetInlineEditable(t *testing.T) {
	r := Default()
	r.SetInlineEditable([]string{"Text", "Quote"})

	assert.True(t, r.InlineEditable("Text"))
	assert.True(t, r.InlineEditable("Quote"))
	assert.False(t, r.InlineEditable("Heading"))
	assert.Contains(t, r.Types(), "Quote")
}

func TestHorizontalOnlyForContainers(t *testing.T) {
	r := Default()
	assert.True(t, r.Horizontal("Row"))
	assert.False(t, r.Horizontal("Column"))

	require.NoError(t, r.Register(Definition{Type: "Inline", Horizontal: true}))
	assert.False(t, r.Horizontal("Inline"))
	assert.False(t, r.Horizontal("Unknown"))
}
