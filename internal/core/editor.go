// Package core wires the block store, history, projection, selection, drag
// engine, interaction controller and clipboard into one editing facade. All
// document mutations go through the Editor.
package core

import (
	"time"

	"github.com/bethropolis/blox/internal/core/clipboard"
	"github.com/bethropolis/blox/internal/core/dnd"
	"github.com/bethropolis/blox/internal/core/history"
	"github.com/bethropolis/blox/internal/core/interaction"
	"github.com/bethropolis/blox/internal/core/projection"
	"github.com/bethropolis/blox/internal/core/selection"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/event"
	"github.com/bethropolis/blox/internal/registry"
)

// DefaultStyleDragThrottle limits how often a style drag writes to the document.
const DefaultStyleDragThrottle = 50 * time.Millisecond

// Options configures a new Editor. Zero values select defaults.
type Options struct {
	History           history.Config
	DnD               dnd.Config
	Interaction       interaction.Config
	StyleDragThrottle time.Duration
	Registry          *registry.Registry
	Clipboard         clipboard.Backend
	HitTester         dnd.HitTester
	Events            *event.Manager
	Now               func() time.Time
}

type Editor struct {
	store        *store.Store
	eventManager *event.Manager
	history      *history.Manager
	projection   *projection.Projection
	selection    *selection.Manager
	dnd          *dnd.Engine
	interaction  *interaction.Controller
	clipboard    *clipboard.Manager
	registry     *registry.Registry

	styleDragThrottle time.Duration
	now               func() time.Time
	styleDrag         *StyleDrag
}

// NewEditor creates an editor over an empty document.
func NewEditor(opts Options) *Editor {
	if opts.Events == nil {
		opts.Events = event.NewManager()
	}
	if opts.Registry == nil {
		opts.Registry = registry.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.History.Now == nil {
		opts.History.Now = opts.Now
	}
	if opts.DnD.Now == nil {
		opts.DnD.Now = opts.Now
	}
	if opts.StyleDragThrottle == 0 {
		opts.StyleDragThrottle = DefaultStyleDragThrottle
	}
	if opts.HitTester == nil {
		opts.HitTester = noContainers{}
	}

	st := store.New()
	e := &Editor{
		store:             st,
		eventManager:      opts.Events,
		registry:          opts.Registry,
		styleDragThrottle: opts.StyleDragThrottle,
		now:               opts.Now,
	}
	e.history = history.NewManager(st, opts.Events, opts.History)
	e.projection = projection.New(st, opts.Events)
	e.selection = selection.NewManager(st, opts.Events)
	e.dnd = dnd.NewEngine(opts.HitTester, e.history, e.selection, opts.Events, opts.DnD)
	e.interaction = interaction.NewController(e.selection, e.history, opts.Registry, opts.Events, opts.Interaction)
	e.clipboard = clipboard.NewManager(opts.Clipboard, e.history)
	return e
}

// noContainers is the hit tester used before a layout exists.
type noContainers struct{}

func (noContainers) ContainerAt(dnd.Point) (dnd.Container, bool) { return dnd.Container{}, false }

// --- Component accessors ---

// Reader is the read-only view of the document.
func (e *Editor) Reader() store.Reader { return e.store }

func (e *Editor) GetEventManager() *event.Manager { return e.eventManager }

func (e *Editor) GetHistoryManager() *history.Manager { return e.history }

func (e *Editor) Projection() *projection.Projection { return e.projection }

func (e *Editor) Selection() *selection.Manager { return e.selection }

func (e *Editor) DnD() *dnd.Engine { return e.dnd }

func (e *Editor) Interaction() *interaction.Controller { return e.interaction }

func (e *Editor) Registry() *registry.Registry { return e.registry }

// SetHitTester installs the geometry of the current layout.
func (e *Editor) SetHitTester(hit dnd.HitTester) {
	e.dnd.SetHitTester(hit)
}

// Close detaches event subscriptions owned by the editor.
func (e *Editor) Close() {
	if s := e.dnd.Active(); s != nil {
		s.Cancel()
	}
	if e.styleDrag != nil {
		e.styleDrag.End()
	}
	e.projection.Close()
}
