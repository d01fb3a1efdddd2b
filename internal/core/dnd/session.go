package dnd

import (
	"fmt"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/utils"
)

// Session is the transient state of one drag gesture. After Drop or Cancel it
// is inert.
type Session struct {
	engine   *Engine
	payload  Payload
	throttle *utils.Throttle

	container   *Container
	children    []ChildGeometry // eligible children of container
	orientation Orientation
	positions   []Position
	indicator   Indicator
	pending     *Point
	done        bool
}

// Snapshot is a copy of the observable session state.
type Snapshot struct {
	ContainerID string
	HasTarget   bool
	Indicator   Indicator
}

func newSession(e *Engine, p Payload) *Session {
	return &Session{
		engine:   e,
		payload:  p,
		throttle: utils.NewThrottle(e.cfg.ThrottleInterval, e.cfg.Now),
	}
}

func (s *Session) Payload() Payload { return s.payload }

func (s *Session) Done() bool { return s.done }

// ContainerID returns the active drop container; ok is false before one is entered.
func (s *Session) ContainerID() (string, bool) {
	if s.container == nil {
		return "", false
	}
	return s.container.ID, true
}

func (s *Session) Indicator() Indicator { return s.indicator }

func (s *Session) Orientation() Orientation { return s.orientation }

func (s *Session) Positions() []Position {
	return append([]Position(nil), s.positions...)
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{Indicator: s.indicator}
	snap.ContainerID, snap.HasTarget = s.ContainerID()
	return snap
}

// Enter resolves the container under p and recomputes geometry when it differs
// from the current one. It reports whether a container is active afterwards.
func (s *Session) Enter(p Point) bool {
	if s.done {
		return false
	}
	c, ok := s.engine.hit.ContainerAt(p)
	if !ok {
		return s.container != nil
	}
	if s.container != nil && s.container.ID == c.ID {
		return true
	}
	s.setContainer(c)
	logger.DebugTagf("dnd", "DnD: Entered %q (%v, %d slots)", c.ID, s.orientation, len(s.positions))
	s.engine.publish(s)
	return true
}

func (s *Session) setContainer(c Container) {
	s.container = &c
	s.children = eligible(c.Children)
	s.orientation = InferOrientation(s.children)
	s.positions = ComputePositions(c, s.children, s.orientation)
	s.indicator = Indicator{}
}

// Over moves the pointer. Calls inside the throttle interval are remembered
// and the latest one is applied on the next admitted call or Flush.
func (s *Session) Over(p Point) {
	if s.done {
		return
	}
	if !s.throttle.Allow() {
		s.pending = &p
		return
	}
	s.pending = nil
	s.track(p)
}

// Flush applies a point suppressed by the throttle.
func (s *Session) Flush() {
	if s.done || s.pending == nil {
		return
	}
	p := *s.pending
	s.pending = nil
	s.track(p)
}

func (s *Session) track(p Point) {
	if !s.Enter(p) {
		return
	}
	idx := s.closest(p)
	next := indicatorFor(s.container.Rect, s.positions[idx], s.orientation, idx, s.engine.cfg.IndicatorThickness)
	if next != s.indicator {
		s.indicator = next
		s.engine.publish(s)
	}
}

func (s *Session) closest(p Point) int {
	offsets := make([]float64, len(s.positions))
	for i, pos := range s.positions {
		offsets[i] = pos.Offset
	}
	return ClosestIndex(offsets, axisPos(s.container.Rect, p, s.orientation))
}

// Drop ends the gesture at p with exactly one mutation, committed as its own
// history entry. Without a container under p nothing is mutated. State is
// cleared on every path.
func (s *Session) Drop(p Point) (store.Change, error) {
	if s.done {
		return store.Change{}, nil
	}
	defer s.finish()
	s.pending = nil

	c, ok := s.engine.hit.ContainerAt(p)
	if !ok {
		logger.DebugTagf("dnd", "DnD: Drop outside any container, ignored")
		return store.Change{}, nil
	}
	if s.container == nil || s.container.ID != c.ID {
		s.setContainer(c)
	}
	slotIdx := s.closest(p)
	index := s.siblingIndex(slotIdx)

	mut := s.engine.mut
	if !s.payload.IsNew() && s.payload.BlockID == "" {
		logger.DebugTagf("dnd", "DnD: Drop with an empty payload, ignored")
		return store.Change{}, nil
	}
	// The drop is its own entry; close whatever the caller left open.
	mut.Commit()
	var change store.Change
	var err error
	switch {
	case s.payload.IsNew():
		desc := s.payload.Descriptor.Clone()
		if desc.ID == "" {
			desc.ID = block.NewID()
		}
		change, err = mut.Insert(desc, c.ID, index, s.payload.Descendants...)
	case s.payload.BlockID != "":
		index = s.adjustForwardMove(c.ID, index)
		change, err = mut.Move([]string{s.payload.BlockID}, c.ID, index)
	}
	if err != nil {
		logger.DebugTagf("dnd", "DnD: Drop into %q at %d failed: %v", c.ID, index, err)
		return store.Change{}, fmt.Errorf("drop: %w", err)
	}
	mut.Commit()
	logger.DebugTagf("dnd", "DnD: Dropped into %q at %d", c.ID, index)
	return change, nil
}

// siblingIndex maps a slot to a child index of the container block. Slots
// count only eligible children, so the index is taken from the store.
func (s *Session) siblingIndex(slotIdx int) int {
	if len(s.children) == 0 {
		return 0
	}
	reader := s.engine.mut.Reader()
	if slotIdx < len(s.children) {
		if idx, err := reader.IndexOf(s.children[slotIdx].ID); err == nil {
			return idx
		}
		return slotIdx
	}
	last := s.children[len(s.children)-1].ID
	if idx, err := reader.IndexOf(last); err == nil {
		return idx + 1
	}
	return slotIdx
}

// adjustForwardMove converts a slot index (counted with the dragged block still
// in place) to the final index Move expects.
func (s *Session) adjustForwardMove(parentID string, index int) int {
	b, err := s.engine.mut.Reader().Get(s.payload.BlockID)
	if err != nil || b.ParentID != parentID {
		return index
	}
	cur, err := s.engine.mut.Reader().IndexOf(b.ID)
	if err == nil && cur < index {
		return index - 1
	}
	return index
}

// Cancel abandons the gesture without mutating.
func (s *Session) Cancel() {
	if s.done {
		return
	}
	logger.DebugTagf("dnd", "DnD: Cancelled")
	s.finish()
}

func (s *Session) finish() {
	s.done = true
	s.container = nil
	s.children = nil
	s.positions = nil
	s.pending = nil
	s.indicator = Indicator{}
	s.engine.end(s)
}
