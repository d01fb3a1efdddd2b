package interaction

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/history"
	"github.com/bethropolis/blox/internal/core/selection"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/event"
)

type node struct {
	attrs  map[string]string
	parent *node
}

func (n *node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *node) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func el(parent *node, kv ...string) *node {
	n := &node{attrs: map[string]string{}, parent: parent}
	for i := 0; i+1 < len(kv); i += 2 {
		n.attrs[kv[i]] = kv[i+1]
	}
	return n
}

type editable []string

func (e editable) InlineEditable(t string) bool { return slices.Contains(e, t) }

type surface struct {
	mounted   []string
	unmounted int
}

func (s *surface) Mount(id, text string) { s.mounted = append(s.mounted, id+":"+text) }
func (s *surface) Unmount()              { s.unmounted++ }

type fixture struct {
	ctrl    *Controller
	sel     *selection.Manager
	history *history.Manager
	store   *store.Store

	canvas, heading, span, box, inner *node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.New()
	require.NoError(t, st.Load([]block.Block{
		{ID: "h", Type: "Heading", Properties: map[string]any{"content": "Title"}},
		{ID: "box", Type: "Box"},
	}))
	events := event.NewManager()
	h := history.NewManager(st, events, history.Config{CoalesceWindow: -1})
	sel := selection.NewManager(st, events)
	f := &fixture{
		ctrl:    NewController(sel, h, editable{"Heading", "Text"}, events, Config{HoverThrottle: 20 * time.Millisecond}),
		sel:     sel,
		history: h,
		store:   st,
	}
	f.canvas = el(nil, AttrBlockID, CanvasID)
	f.heading = el(f.canvas, AttrBlockID, "h", AttrBlockType, "Heading")
	f.span = el(f.heading, AttrBlockParent, "h", AttrStyleID, "s1", AttrStyleProp, "styles")
	f.box = el(f.canvas, AttrBlockID, "box", AttrBlockType, "Box")
	f.inner = el(f.box)
	return f
}

func TestResolve(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, TargetCanvas, Resolve(f.canvas).Kind)
	assert.Equal(t, Target{Kind: TargetBlock, BlockID: "box", Type: "Box"}, Resolve(f.inner))
	style := Resolve(f.span)
	assert.Equal(t, TargetStyle, style.Kind)
	assert.Equal(t, block.StyleTarget{ID: "s1", Prop: "styles", BlockID: "h"}, style.Style)
	assert.Equal(t, TargetNone, Resolve(el(nil)).Kind)
	assert.Equal(t, TargetNone, Resolve(nil).Kind)
}

func TestClickSemantics(t *testing.T) {
	f := newFixture(t)
	f.sel.Highlight("box")

	f.ctrl.Click(f.span)
	assert.Equal(t, []string{"h"}, f.sel.Selected())
	_, ok := f.sel.StyleTarget()
	assert.True(t, ok)
	assert.Empty(t, f.sel.Highlighted())

	f.ctrl.Click(f.inner)
	assert.Equal(t, []string{"box"}, f.sel.Selected())
	_, ok = f.sel.StyleTarget()
	assert.False(t, ok)

	f.ctrl.Click(f.span)
	f.ctrl.Click(f.canvas)
	assert.Empty(t, f.sel.Selected())
	_, ok = f.sel.StyleTarget()
	assert.False(t, ok)
}

func TestToggleClick(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Click(f.heading)
	f.ctrl.ToggleClick(f.box)
	assert.Equal(t, []string{"h", "box"}, f.sel.Selected())
	f.ctrl.ToggleClick(f.heading)
	assert.Equal(t, []string{"box"}, f.sel.Selected())
}

func TestHoverIsThrottled(t *testing.T) {
	f := newFixture(t)
	t0 := time.Unix(50, 0)

	f.ctrl.Hover(f.heading, t0)
	assert.Equal(t, "h", f.sel.Highlighted())

	f.ctrl.Hover(f.box, t0.Add(5*time.Millisecond))
	assert.Equal(t, "h", f.sel.Highlighted())
	f.ctrl.FlushHover()
	assert.Equal(t, "box", f.sel.Highlighted())

	f.ctrl.Hover(f.canvas, t0.Add(40*time.Millisecond))
	assert.Empty(t, f.sel.Highlighted())

	f.ctrl.Hover(f.heading, t0.Add(80*time.Millisecond))
	f.ctrl.Leave()
	assert.Empty(t, f.sel.Highlighted())
}

func TestInlineEditCommitsOnce(t *testing.T) {
	f := newFixture(t)
	s := &surface{}

	edit := f.ctrl.DoubleClick(f.heading, s)
	require.NotNil(t, edit)
	assert.Equal(t, []string{"h:Title"}, s.mounted)

	// Input is ignored while editing.
	f.ctrl.Click(f.box)
	assert.Empty(t, f.sel.Selected())
	assert.Nil(t, f.ctrl.DoubleClick(f.heading, s))

	edit.SetText("New")
	edit.SetText("Newer")
	require.NoError(t, edit.Key(KeyEnter))

	b, err := f.store.Get("h")
	require.NoError(t, err)
	assert.Equal(t, "Newer", b.Content())
	assert.Equal(t, 1, s.unmounted)
	assert.Nil(t, f.ctrl.Editing())
	assert.Equal(t, 1, f.history.Len())

	require.NoError(t, edit.Blur())
	assert.Equal(t, 1, s.unmounted)

	require.NoError(t, f.history.Undo())
	b, _ = f.store.Get("h")
	assert.Equal(t, "Title", b.Content())
}

func TestInlineEditUnchangedSkipsMutation(t *testing.T) {
	f := newFixture(t)
	s := &surface{}

	edit := f.ctrl.DoubleClick(f.heading, s)
	require.NotNil(t, edit)
	require.NoError(t, edit.Key(KeyEscape))

	assert.Equal(t, 0, f.history.Len())
	assert.Equal(t, 1, s.unmounted)
}

func TestInlineEditTearsDownOnFailure(t *testing.T) {
	f := newFixture(t)
	s := &surface{}

	edit := f.ctrl.DoubleClick(f.heading, s)
	require.NotNil(t, edit)
	_, err := f.history.Remove([]string{"h"})
	require.NoError(t, err)

	edit.SetText("orphan")
	assert.ErrorIs(t, edit.Blur(), block.ErrNotFound)
	assert.Equal(t, 1, s.unmounted)
	assert.Nil(t, f.ctrl.Editing())
}

func TestDoubleClickOnNonEditableType(t *testing.T) {
	f := newFixture(t)
	s := &surface{}
	assert.Nil(t, f.ctrl.DoubleClick(f.inner, s))
	assert.Nil(t, f.ctrl.DoubleClick(f.canvas, s))
	assert.Empty(t, s.mounted)
}
