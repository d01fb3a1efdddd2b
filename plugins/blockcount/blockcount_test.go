package blockcount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core"
	"github.com/bethropolis/blox/internal/core/clipboard"
	"github.com/bethropolis/blox/internal/plugin/plugintest"
)

func setup(t *testing.T) *plugintest.API {
	t.Helper()
	e := core.NewEditor(core.Options{Clipboard: &clipboard.Register{}})
	t.Cleanup(e.Close)
	api := plugintest.New(e, "home")
	p := New()
	require.NoError(t, p.Initialize(api))
	t.Cleanup(func() { p.Shutdown() })
	return api
}

func TestCountByType(t *testing.T) {
	api := setup(t)
	require.NoError(t, api.Run("count"))
	assert.Equal(t, "Page is empty", api.LastMessage())

	box, err := api.Editor.AddBlock("Box", "", 0)
	require.NoError(t, err)
	_, err = api.Editor.AddBlock("Text", box, 0)
	require.NoError(t, err)
	_, err = api.Editor.AddBlock("Text", box, 1)
	require.NoError(t, err)

	require.NoError(t, api.Run("count"))
	assert.Equal(t, "3 blocks (Box: 1, Text: 2)", api.LastMessage())

	require.NoError(t, api.Run("count", "Text"))
	assert.Equal(t, "Text: 2", api.LastMessage())
}

func TestLoadedMessageUsesCurrentPage(t *testing.T) {
	api := setup(t)
	records := []block.Record{
		{ID: "a", Type: "Text"},
		{ID: "b", Type: "Text"},
	}
	require.NoError(t, api.Editor.Load(records))
	assert.Equal(t, "Opened home: 2 blocks", api.LastMessage())
}

func TestSummaryIsSorted(t *testing.T) {
	assert.Equal(t, "A: 2, B: 1", Summary(map[string]int{"B": 1, "A": 2}))
	assert.Empty(t, Summary(nil))
}
