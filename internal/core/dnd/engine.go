package dnd

import (
	"time"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/event"
	"github.com/bethropolis/blox/internal/logger"
)

const (
	DefaultThrottleInterval   = 200 * time.Millisecond
	DefaultIndicatorThickness = 2.0
)

// Mutator is the history surface a drop writes through.
type Mutator interface {
	Insert(b block.Block, parentID string, index int, descendants ...block.Block) (store.Change, error)
	Move(ids []string, newParentID string, index int) (store.Change, error)
	Commit()
	Reader() store.Reader
}

// Clearer drops transient selection state when a drag begins.
type Clearer interface {
	ClearSelection()
	ClearHighlight()
}

type Config struct {
	ThrottleInterval   time.Duration
	IndicatorThickness float64
	Now                func() time.Time
}

// Payload is what is being dragged: an existing block by id, or a new block
// described by Descriptor with an optional subtree.
type Payload struct {
	BlockID     string
	Descriptor  *block.Block
	Descendants []block.Block
}

// IsNew reports whether the drop creates a block.
func (p Payload) IsNew() bool {
	return p.BlockID == "" && p.Descriptor != nil
}

// Engine owns at most one drag session at a time.
type Engine struct {
	hit     HitTester
	mut     Mutator
	clearer Clearer
	events  *event.Manager
	cfg     Config

	session *Session
}

// NewEngine creates an engine. clearer and events may be nil.
func NewEngine(hit HitTester, mut Mutator, clearer Clearer, events *event.Manager, cfg Config) *Engine {
	if cfg.ThrottleInterval == 0 {
		cfg.ThrottleInterval = DefaultThrottleInterval
	}
	if cfg.IndicatorThickness <= 0 {
		cfg.IndicatorThickness = DefaultIndicatorThickness
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{hit: hit, mut: mut, clearer: clearer, events: events, cfg: cfg}
}

// SetHitTester swaps the geometry source, e.g. after a relayout.
func (e *Engine) SetHitTester(hit HitTester) {
	e.hit = hit
}

// Begin starts a gesture, cancelling any previous one.
func (e *Engine) Begin(p Payload) *Session {
	if e.session != nil {
		e.session.Cancel()
	}
	if e.clearer != nil {
		e.clearer.ClearHighlight()
		e.clearer.ClearSelection()
	}
	s := newSession(e, p)
	e.session = s
	logger.DebugTagf("dnd", "DnD: Begin drag (block=%q new=%v)", p.BlockID, p.IsNew())
	e.publish(s)
	return s
}

// Active returns the running session, if any.
func (e *Engine) Active() *Session {
	return e.session
}

func (e *Engine) end(s *Session) {
	if e.session == s {
		e.session = nil
	}
	e.publish(s)
}

func (e *Engine) publish(s *Session) {
	if e.events == nil {
		return
	}
	e.events.Dispatch(event.TypeDragStateChanged, event.DragStateChangedData{
		Active: !s.done,
		State:  s.Snapshot(),
	})
}
