package interaction

import (
	"time"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/selection"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/event"
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/utils"
)

const DefaultHoverThrottle = 20 * time.Millisecond

// Mutator is the history surface an inline edit commits through.
type Mutator interface {
	UpdateProperties(ids []string, patch block.Patch) (store.Change, error)
	Commit()
	Reader() store.Reader
}

// TypeRules answers which block types can be edited in place.
type TypeRules interface {
	InlineEditable(blockType string) bool
}

// Surface hosts the editable text while an inline edit is active.
type Surface interface {
	Mount(blockID, text string)
	Unmount()
}

type Config struct {
	HoverThrottle time.Duration
}

// Controller turns resolved pointer targets into state changes.
type Controller struct {
	sel    *selection.Manager
	mut    Mutator
	rules  TypeRules
	events *event.Manager

	hover        *utils.Throttle
	pendingHover *string
	edit         *InlineEdit
}

// NewController creates a controller. events may be nil.
func NewController(sel *selection.Manager, mut Mutator, rules TypeRules, events *event.Manager, cfg Config) *Controller {
	if cfg.HoverThrottle == 0 {
		cfg.HoverThrottle = DefaultHoverThrottle
	}
	return &Controller{
		sel:    sel,
		mut:    mut,
		rules:  rules,
		events: events,
		hover:  utils.NewThrottle(cfg.HoverThrottle, nil),
	}
}

// Editing returns the active inline edit, or nil.
func (c *Controller) Editing() *InlineEdit {
	return c.edit
}

// Click applies click semantics to the element under the pointer.
func (c *Controller) Click(n Node) Target {
	if c.edit != nil {
		return Target{}
	}
	t := Resolve(n)
	switch t.Kind {
	case TargetCanvas:
		c.sel.ClearSelection()
		c.sel.ClearStyleTarget()
	case TargetStyle:
		c.sel.SetStyleTarget(t.Style)
		c.sel.Select(t.BlockID)
	case TargetBlock:
		c.sel.ClearStyleTarget()
		c.sel.Select(t.BlockID)
	}
	c.sel.ClearHighlight()
	logger.DebugTagf("canvas", "Interaction: Click on %v %q", t.Kind, t.BlockID)
	return t
}

// ToggleClick adds or removes the clicked block from a multi-selection.
func (c *Controller) ToggleClick(n Node) Target {
	if c.edit != nil {
		return Target{}
	}
	t := Resolve(n)
	if t.Kind == TargetBlock || t.Kind == TargetStyle {
		c.sel.ClearStyleTarget()
		c.sel.Toggle(t.BlockID)
	}
	c.sel.ClearHighlight()
	return t
}

// Hover highlights the block under the pointer, at most once per throttle
// interval. A suppressed hover is applied by FlushHover.
func (c *Controller) Hover(n Node, now time.Time) {
	if c.edit != nil {
		return
	}
	id := hoverID(Resolve(n))
	if !c.hover.AllowAt(now) {
		c.pendingHover = &id
		return
	}
	c.pendingHover = nil
	c.sel.Highlight(id)
}

// FlushHover applies a hover suppressed by the throttle.
func (c *Controller) FlushHover() {
	if c.pendingHover == nil || c.edit != nil {
		return
	}
	id := *c.pendingHover
	c.pendingHover = nil
	c.sel.Highlight(id)
}

// Leave clears the highlight when the pointer leaves the canvas.
func (c *Controller) Leave() {
	c.pendingHover = nil
	c.sel.ClearHighlight()
}

func hoverID(t Target) string {
	switch t.Kind {
	case TargetBlock, TargetStyle:
		return t.BlockID
	default:
		return ""
	}
}

// DoubleClick starts an inline edit on an editable block. It returns nil when
// the target cannot be edited or an edit is already running.
func (c *Controller) DoubleClick(n Node, surface Surface) *InlineEdit {
	if c.edit != nil {
		return nil
	}
	t := Resolve(n)
	if t.Kind != TargetBlock && t.Kind != TargetStyle {
		return nil
	}
	b, err := c.mut.Reader().Get(t.BlockID)
	if err != nil {
		logger.DebugTagf("canvas", "Interaction: Double click on unknown block %q", t.BlockID)
		return nil
	}
	typ := t.Type
	if typ == "" {
		typ = b.Type
	}
	if c.rules == nil || !c.rules.InlineEditable(typ) {
		return nil
	}

	c.pendingHover = nil
	edit := &InlineEdit{
		ctrl:     c,
		blockID:  b.ID,
		original: b.Content(),
		text:     b.Content(),
		surface:  surface,
	}
	c.edit = edit
	if surface != nil {
		surface.Mount(b.ID, edit.text)
	}
	logger.DebugTagf("canvas", "Interaction: Inline edit started on %q", b.ID)
	c.publishEdit(b.ID, true)
	return edit
}

func (c *Controller) publishEdit(id string, active bool) {
	if c.events != nil {
		c.events.Dispatch(event.TypeInlineEditChanged, event.InlineEditChangedData{BlockID: id, Active: active})
	}
}
