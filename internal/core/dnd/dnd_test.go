package dnd

import (
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

// boxes resolves the smallest container containing the point.
type boxes []Container

func (b boxes) ContainerAt(p Point) (Container, bool) {
	var best Container
	found := false
	for _, c := range b {
		if !c.Rect.Contains(p) {
			continue
		}
		if !found || c.Rect.W*c.Rect.H < best.Rect.W*best.Rect.H {
			best, found = c, true
		}
	}
	return best, found
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type fixture struct {
	engine  *Engine
	history *history.Manager
	store   *store.Store
	sel     *selection.Manager
	clock   *clock
	events  *event.Manager
}

// Layout: canvas holds container C (three stacked children) and an empty box E.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.New()
	require.NoError(t, st.Load([]block.Block{
		{ID: "C", Type: "Box"},
		{ID: "c0", Type: "Text", ParentID: "C"},
		{ID: "c1", Type: "Text", ParentID: "C"},
		{ID: "c2", Type: "Text", ParentID: "C"},
		{ID: "E", Type: "Box"},
	}))
	hit := boxes{
		{ID: "", Rect: Rect{0, 0, 500, 500}, Children: []ChildGeometry{
			{ID: "C", Rect: Rect{0, 0, 100, 300}},
			{ID: "E", Rect: Rect{200, 0, 100, 100}},
		}},
		{ID: "C", Rect: Rect{0, 0, 100, 300}, Children: []ChildGeometry{
			{ID: "c0", Rect: Rect{0, 0, 100, 50}},
			{ID: "c1", Rect: Rect{0, 50, 100, 50}},
			{ID: "c2", Rect: Rect{0, 100, 100, 50}},
		}},
		{ID: "E", Rect: Rect{200, 0, 100, 100}},
	}
	events := event.NewManager()
	h := history.NewManager(st, events, history.Config{CoalesceWindow: -1})
	sel := selection.NewManager(st, events)
	clk := &clock{t: time.Unix(100, 0)}
	e := NewEngine(hit, h, sel, events, Config{ThrottleInterval: 200 * time.Millisecond, IndicatorThickness: 1, Now: clk.now})
	return &fixture{engine: e, history: h, store: st, sel: sel, clock: clk, events: events}
}

func TestClosestIndex(t *testing.T) {
	offsets := []float64{0, 50, 120}
	assert.Equal(t, 1, ClosestIndex(offsets, 60))
	assert.Equal(t, 1, ClosestIndex(offsets, 85), "ties resolve to the lowest index")
	assert.Equal(t, 0, ClosestIndex(offsets, -10))
	assert.Equal(t, 2, ClosestIndex(offsets, 500))
	assert.Equal(t, 0, ClosestIndex(nil, 42))
}

func TestInferOrientation(t *testing.T) {
	row := []ChildGeometry{
		{Rect: Rect{0, 0, 10, 10}},
		{Rect: Rect{10, 2, 10, 10}},
		{Rect: Rect{25, 0, 10, 10}},
	}
	assert.Equal(t, Horizontal, InferOrientation(row))

	wrapped := append(row, ChildGeometry{Rect: Rect{0, 20, 10, 10}})
	assert.Equal(t, Vertical, InferOrientation(wrapped))
	assert.Equal(t, Vertical, InferOrientation(row[:1]))
}

func TestComputePositionsAddsTrailingSlot(t *testing.T) {
	c := Container{Rect: Rect{10, 20, 100, 300}}
	kids := []ChildGeometry{{Rect: Rect{10, 20, 100, 40}}, {Rect: Rect{15, 60, 90, 40}}}
	pos := ComputePositions(c, kids, Vertical)
	require.Len(t, pos, 3)
	assert.Equal(t, Position{Offset: 0, CrossOffset: 0, CrossSize: 100}, pos[0])
	assert.Equal(t, Position{Offset: 40, CrossOffset: 5, CrossSize: 90}, pos[1])
	assert.Equal(t, 80.0, pos[2].Offset)
}

func TestDropNewDescriptorIsOneUndoableStep(t *testing.T) {
	f := newFixture(t)
	before := f.store.Blocks()

	s := f.engine.Begin(Payload{Descriptor: &block.Block{ID: "new", Type: "Text"}})
	require.True(t, s.Enter(Point{50, 95}))
	_, err := s.Drop(Point{50, 95})
	require.NoError(t, err)

	assert.Equal(t, []string{"c0", "c1", "new", "c2"}, f.store.ChildIDs("C"))
	assert.True(t, s.Done())
	assert.Nil(t, f.engine.Active())

	require.NoError(t, f.history.Undo())
	assert.Equal(t, before, f.store.Blocks())
}

func TestDropAssignsIDToAnonymousDescriptor(t *testing.T) {
	f := newFixture(t)
	s := f.engine.Begin(Payload{Descriptor: &block.Block{Type: "Text"}})
	_, err := s.Drop(Point{250, 50})
	require.NoError(t, err)

	kids := f.store.ChildIDs("E")
	require.Len(t, kids, 1)
	assert.NotEmpty(t, kids[0])
}

func TestForwardMoveInsideSameParent(t *testing.T) {
	f := newFixture(t)

	s := f.engine.Begin(Payload{BlockID: "c0"})
	_, err := s.Drop(Point{50, 101})
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c0", "c2"}, f.store.ChildIDs("C"))
}

func TestMoveToEndUsesTrailingSlot(t *testing.T) {
	f := newFixture(t)

	s := f.engine.Begin(Payload{BlockID: "c0"})
	_, err := s.Drop(Point{50, 149})
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2", "c0"}, f.store.ChildIDs("C"))
}

func TestMoveIntoEmptyContainer(t *testing.T) {
	f := newFixture(t)

	s := f.engine.Begin(Payload{BlockID: "c1"})
	_, err := s.Drop(Point{250, 80})
	require.NoError(t, err)

	assert.Equal(t, []string{"c1"}, f.store.ChildIDs("E"))
	assert.Equal(t, 1, f.history.Len())
}

func TestDropOutsideDoesNothing(t *testing.T) {
	f := newFixture(t)
	before := f.store.Blocks()

	s := f.engine.Begin(Payload{BlockID: "c0"})
	s.Over(Point{50, 60})
	require.True(t, s.Indicator().Visible)

	change, err := s.Drop(Point{900, 900})
	require.NoError(t, err)
	assert.True(t, change.Empty())
	assert.Equal(t, before, f.store.Blocks())
	assert.False(t, s.Indicator().Visible)
	assert.Equal(t, 0, f.history.Len())
}

func TestDropIntoOwnSubtreeFailsCleanly(t *testing.T) {
	f := newFixture(t)
	before := f.store.Blocks()

	s := f.engine.Begin(Payload{BlockID: "C"})
	_, err := s.Drop(Point{50, 60})
	assert.ErrorIs(t, err, block.ErrStructuralViolation)
	assert.Equal(t, before, f.store.Blocks())
	assert.True(t, s.Done())
}

func TestThrottledOverKeepsSingleIndicator(t *testing.T) {
	f := newFixture(t)
	var published int
	f.events.Subscribe(event.TypeDragStateChanged, func(event.Event) bool {
		published++
		return false
	})

	s := f.engine.Begin(Payload{BlockID: "c2"})
	s.Over(Point{50, 5})
	first := s.Indicator()
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, Indicator{Visible: true, Orientation: Vertical, Index: 0, X: 0, Y: 0, W: 100, H: 1}, first)

	for i := 0; i < 20; i++ {
		f.clock.t = f.clock.t.Add(5 * time.Millisecond)
		s.Over(Point{50, float64(10 + i*5)})
	}
	assert.Equal(t, first, s.Indicator(), "suppressed moves do not touch the indicator")

	s.Flush()
	assert.Equal(t, 2, s.Indicator().Index)
	assert.Equal(t, 100.0, s.Indicator().Y)
	assert.Positive(t, published)
}

func TestEnteringAnotherContainerRecomputes(t *testing.T) {
	f := newFixture(t)
	s := f.engine.Begin(Payload{BlockID: "c0"})

	require.True(t, s.Enter(Point{50, 60}))
	id, _ := s.ContainerID()
	assert.Equal(t, "C", id)
	assert.Len(t, s.Positions(), 4)

	require.True(t, s.Enter(Point{250, 60}))
	id, _ = s.ContainerID()
	assert.Equal(t, "E", id)
	assert.Len(t, s.Positions(), 1)
}

func TestNonInteractiveChildrenAreSkipped(t *testing.T) {
	c := Container{Rect: Rect{0, 0, 100, 100}, Children: []ChildGeometry{
		{ID: "a", Rect: Rect{0, 0, 100, 10}},
		{ID: "ghost", Rect: Rect{0, 10, 100, 10}, NonInteractive: true},
	}}
	kids := eligible(c.Children)
	assert.Len(t, ComputePositions(c, kids, InferOrientation(kids)), 2)
}

func TestBeginClearsSelectionAndCancelsPrevious(t *testing.T) {
	f := newFixture(t)
	f.sel.Select("c1")
	f.sel.Highlight("c2")

	first := f.engine.Begin(Payload{BlockID: "c0"})
	assert.Empty(t, f.sel.Selected())
	assert.Empty(t, f.sel.Highlighted())

	second := f.engine.Begin(Payload{BlockID: "c1"})
	assert.True(t, first.Done())
	assert.Same(t, second, f.engine.Active())

	second.Cancel()
	assert.Nil(t, f.engine.Active())
	assert.False(t, second.Indicator().Visible)
}

func TestDropIsSeparateFromOpenEntry(t *testing.T) {
	f := newFixture(t)
	_, err := f.history.Move([]string{"c2"}, "C", 0)
	require.NoError(t, err)

	s := f.engine.Begin(Payload{BlockID: "c0"})
	_, err = s.Drop(Point{250, 80})
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c1"}, f.store.ChildIDs("C"))
	assert.Equal(t, 2, f.history.Len())

	require.NoError(t, f.history.Undo())
	assert.Equal(t, []string{"c2", "c0", "c1"}, f.store.ChildIDs("C"))
	assert.Empty(t, f.store.ChildIDs("E"))
}

func TestDropWithEmptyPayloadDoesNothing(t *testing.T) {
	f := newFixture(t)
	before := f.store.Blocks()

	s := f.engine.Begin(Payload{})
	change, err := s.Drop(Point{250, 80})
	require.NoError(t, err)
	assert.True(t, change.Empty())
	assert.Equal(t, before, f.store.Blocks())
	assert.True(t, s.Done())
	assert.Equal(t, 0, f.history.Len())
}
