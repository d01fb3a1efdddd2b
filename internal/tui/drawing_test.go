package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/dnd"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/layout"
	"github.com/bethropolis/blox/internal/registry"
)

func parent(id string) *string { return &id }

func setup(t *testing.T) (*TUI, tcell.SimulationScreen, *layout.Layout) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	ui, err := NewWithScreen(sim)
	require.NoError(t, err)
	t.Cleanup(ui.Close)
	sim.SetSize(40, 10)

	s := store.New()
	require.NoError(t, s.LoadRecords([]block.Record{
		{ID: "body", Type: "Body"},
		{ID: "title", ParentID: parent("body"), Type: "Heading", Properties: map[string]any{"content": "Héllo"}},
		{ID: "box", ParentID: parent("body"), Type: "Box"},
	}))
	l := layout.Build(s, registry.Default(), dnd.Rect{W: 40, H: 9})
	return ui, sim, l
}

func rowText(sim tcell.SimulationScreen, y, from, to int) string {
	var out []rune
	for x := from; x < to; x++ {
		r, _, _, _ := sim.GetContent(x, y)
		out = append(out, r)
	}
	return string(out)
}

func TestDrawCanvasTree(t *testing.T) {
	ui, sim, l := setup(t)
	DrawCanvas(ui, View{Layout: l, Height: 9}, DefaultStyles())
	ui.Show()

	assert.Equal(t, "▾ Body", rowText(sim, 0, 0, 6))
	assert.Equal(t, "• Heading Héllo", rowText(sim, 1, 2, 17))
	assert.Equal(t, "▾ Box", rowText(sim, 2, 2, 7))
	assert.Equal(t, "(empty)", rowText(sim, 3, 4, 11))

	r, _, _, _ := sim.GetContent(0, 1)
	assert.Equal(t, '│', r)
}

func TestDrawCanvasSelectionAndStyleTarget(t *testing.T) {
	ui, sim, l := setup(t)
	st := DefaultStyles()
	target := block.StyleTarget{ID: "title-content", Prop: block.ContentKey, BlockID: "title"}
	DrawCanvas(ui, View{
		Layout:      l,
		Height:      9,
		Selected:    map[string]bool{"title": true},
		StyleTarget: &target,
	}, st)
	ui.Show()

	_, _, style, _ := sim.GetContent(2, 1)
	assert.Equal(t, st.Selected, style)
	_, _, style, _ = sim.GetContent(12, 1)
	assert.Equal(t, st.StyleTarget, style)
}

func TestDrawCanvasIndicator(t *testing.T) {
	ui, sim, l := setup(t)
	st := DefaultStyles()
	DrawCanvas(ui, View{
		Layout:    l,
		Height:    9,
		Indicator: dnd.Indicator{Visible: true, Orientation: dnd.Vertical, X: 0, Y: 2, W: 40, H: 1},
	}, st)
	ui.Show()

	r, _, style, _ := sim.GetContent(5, 2)
	assert.Equal(t, '━', r)
	assert.Equal(t, st.Indicator, style)
}

func TestDrawCanvasInlineEditCursor(t *testing.T) {
	ui, sim, l := setup(t)
	DrawCanvas(ui, View{
		Layout: l,
		Height: 9,
		Edit:   &EditView{BlockID: "title", Text: "日本", Cursor: 1},
	}, DefaultStyles())
	ui.Show()

	title, _ := l.Box("title")
	x, y, visible := sim.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 1, y)
	assert.Equal(t, int(title.ContentX)+2, x)
}

func TestDrawCanvasScroll(t *testing.T) {
	ui, sim, l := setup(t)
	DrawCanvas(ui, View{Layout: l, Height: 9, ScrollY: 1}, DefaultStyles())
	ui.Show()
	assert.Equal(t, "• Heading", rowText(sim, 0, 2, 11))
}

func TestCalculateVisualColumn(t *testing.T) {
	assert.Equal(t, 0, calculateVisualColumn("abc", 0))
	assert.Equal(t, 2, calculateVisualColumn("abc", 2))
	assert.Equal(t, 4, calculateVisualColumn("日本語", 2))
}
