package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core"
	"github.com/bethropolis/blox/internal/core/clipboard"
	"github.com/bethropolis/blox/internal/core/dnd"
	"github.com/bethropolis/blox/internal/core/interaction"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/registry"
)

var area = dnd.Rect{X: 0, Y: 0, W: 40, H: 20}

func parent(id string) *string { return &id }

func fixture() []block.Record {
	return []block.Record{
		{ID: "body", Type: "Body"},
		{ID: "hero", ParentID: parent("body"), Type: "Box", Name: "Hero"},
		{ID: "title", ParentID: parent("hero"), Type: "Heading", Properties: map[string]any{"content": "Hello"}},
		{ID: "row", ParentID: parent("body"), Type: "Row"},
		{ID: "a", ParentID: parent("row"), Type: "Text", Properties: map[string]any{"content": "A"}},
		{ID: "b", ParentID: parent("row"), Type: "Text", Properties: map[string]any{"content": "B"}},
		{ID: "empty", ParentID: parent("body"), Type: "Box"},
	}
}

func build(t *testing.T) *Layout {
	t.Helper()
	s := store.New()
	require.NoError(t, s.LoadRecords(fixture()))
	return Build(s, registry.Default(), area)
}

func TestBuildPlacesTree(t *testing.T) {
	l := build(t)

	rects := map[string]dnd.Rect{
		"body":  {X: 0, Y: 0, W: 40, H: 7},
		"hero":  {X: 2, Y: 1, W: 38, H: 2},
		"title": {X: 4, Y: 2, W: 36, H: 1},
		"row":   {X: 2, Y: 3, W: 38, H: 2},
		"a":     {X: 4, Y: 4, W: 17, H: 1},
		"b":     {X: 22, Y: 4, W: 17, H: 1},
		"empty": {X: 2, Y: 5, W: 38, H: 2},
	}
	for id, want := range rects {
		b, ok := l.Box(id)
		require.True(t, ok, id)
		assert.Equal(t, want, b.Rect, id)
	}
	assert.Equal(t, 7.0, l.Height())

	row, _ := l.Box("row")
	assert.True(t, row.Horizontal)
	assert.Equal(t, []string{"a", "b"}, row.Children)

	title, _ := l.Box("title")
	assert.Equal(t, 2, title.Depth)
	assert.Equal(t, "Hello", title.Content)
	assert.Equal(t, 14.0, title.ContentX)
}

func TestContainerAtInnermostBody(t *testing.T) {
	l := build(t)

	c, ok := l.ContainerAt(dnd.Point{X: 5, Y: 2})
	require.True(t, ok)
	assert.Equal(t, "hero", c.ID)
	require.Len(t, c.Children, 1)
	assert.Equal(t, "title", c.Children[0].ID)

	c, ok = l.ContainerAt(dnd.Point{X: 10, Y: 4})
	require.True(t, ok)
	assert.Equal(t, "row", c.ID)
	assert.Equal(t, dnd.Horizontal, dnd.InferOrientation(c.Children))

	c, ok = l.ContainerAt(dnd.Point{X: 5, Y: 6})
	require.True(t, ok)
	assert.Equal(t, "empty", c.ID)
	assert.Empty(t, c.Children)
}

func TestContainerAtFallsBackToTopLevel(t *testing.T) {
	l := build(t)

	c, ok := l.ContainerAt(dnd.Point{X: 1, Y: 0})
	require.True(t, ok)
	assert.Equal(t, "", c.ID)
	require.Len(t, c.Children, 1)
	assert.Equal(t, "body", c.Children[0].ID)

	c, ok = l.ContainerAt(dnd.Point{X: 5, Y: 15})
	require.True(t, ok)
	assert.Equal(t, "", c.ID)

	_, ok = l.ContainerAt(dnd.Point{X: 50, Y: 1})
	assert.False(t, ok)
}

func TestExcludingSkipsDraggedSubtree(t *testing.T) {
	l := build(t).Excluding("hero")

	c, ok := l.ContainerAt(dnd.Point{X: 5, Y: 2})
	require.True(t, ok)
	assert.Equal(t, "body", c.ID)
	require.Len(t, c.Children, 3)
	assert.True(t, c.Children[0].NonInteractive)
	assert.False(t, c.Children[1].NonInteractive)
}

func TestNodeAtResolvesAttributeContract(t *testing.T) {
	l := build(t)

	target := interaction.Resolve(l.NodeAt(dnd.Point{X: 5, Y: 2}))
	assert.Equal(t, interaction.TargetBlock, target.Kind)
	assert.Equal(t, "title", target.BlockID)
	assert.Equal(t, "Heading", target.Type)

	target = interaction.Resolve(l.NodeAt(dnd.Point{X: 15, Y: 2}))
	assert.Equal(t, interaction.TargetStyle, target.Kind)
	assert.Equal(t, "title", target.BlockID)
	assert.Equal(t, block.StyleTarget{ID: "title-content", Prop: "content", BlockID: "title"}, target.Style)

	target = interaction.Resolve(l.NodeAt(dnd.Point{X: 30, Y: 15}))
	assert.Equal(t, interaction.TargetCanvas, target.Kind)

	assert.Nil(t, l.NodeAt(dnd.Point{X: 50, Y: 50}))
	assert.Equal(t, interaction.TargetNone, interaction.Resolve(l.NodeAt(dnd.Point{X: 50, Y: 50})).Kind)
}

func TestNodeParentsFollowTree(t *testing.T) {
	l := build(t)
	n := l.NodeAt(dnd.Point{X: 5, Y: 2})

	var chain []string
	for ; n != nil; n = n.Parent() {
		id, _ := n.Attr(interaction.AttrBlockID)
		chain = append(chain, id)
	}
	assert.Equal(t, []string{"title", "hero", "body", interaction.CanvasID}, chain)
}

func newEditor(t *testing.T) *core.Editor {
	t.Helper()
	e := core.NewEditor(core.Options{Clipboard: &clipboard.Register{}})
	t.Cleanup(e.Close)
	require.NoError(t, e.Load(fixture()))
	return e
}

func TestDropNewBlockBetweenRowChildren(t *testing.T) {
	e := newEditor(t)
	e.SetHitTester(Build(e.Projection(), e.Registry(), area))

	s := e.DnD().Begin(dnd.Payload{Descriptor: &block.Block{Type: "Text"}})
	_, err := s.Drop(dnd.Point{X: 23, Y: 4})
	require.NoError(t, err)

	kids := e.Reader().ChildIDs("row")
	require.Len(t, kids, 3)
	assert.Equal(t, "a", kids[0])
	assert.Equal(t, "b", kids[2])
	assert.True(t, e.CanUndo())

	require.NoError(t, e.Undo())
	assert.Equal(t, []string{"a", "b"}, e.Reader().ChildIDs("row"))
}

func TestDragExistingBlockToEndOfRow(t *testing.T) {
	e := newEditor(t)
	e.SetHitTester(Build(e.Projection(), e.Registry(), area).Excluding("title"))

	s := e.DnD().Begin(dnd.Payload{BlockID: "title"})
	_, err := s.Drop(dnd.Point{X: 39, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "title"}, e.Reader().ChildIDs("row"))
	assert.Empty(t, e.Reader().ChildIDs("hero"))
}

func TestNodeFor(t *testing.T) {
	l := build(t)
	target := interaction.Resolve(l.NodeFor("b"))
	assert.Equal(t, interaction.TargetBlock, target.Kind)
	assert.Equal(t, "b", target.BlockID)
	assert.Nil(t, l.NodeFor("ghost"))
}
