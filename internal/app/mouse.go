package app

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/blox/internal/core/dnd"
	"github.com/bethropolis/blox/internal/core/interaction"
	"github.com/bethropolis/blox/internal/logger"
)

const (
	doubleClickInterval = 400 * time.Millisecond
	wheelStep           = 1
)

// mouseState tracks the gesture in progress between tcell mouse events.
type mouseState struct {
	pressed   bool
	pressAt   dnd.Point
	pressID   string // block under the press, empty for the canvas
	lastClick time.Time
	lastID    string
	lastAt    dnd.Point
}

// docPoint converts screen cells to layout coordinates. ok is false on the
// status bar.
func (a *App) docPoint(x, y int) (dnd.Point, bool) {
	if y < 0 || y >= a.viewHeight() {
		return dnd.Point{}, false
	}
	return dnd.Point{X: float64(x), Y: float64(y + a.scrollY)}, true
}

// handleMouse maps button, motion and wheel events to the interaction
// controller and the drag engine.
func (a *App) handleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		a.Scroll(-wheelStep)
		return true
	case buttons&tcell.WheelDown != 0:
		a.Scroll(wheelStep)
		return true
	}

	p, onCanvas := a.docPoint(x, y)
	left := buttons&tcell.Button1 != 0

	switch {
	case left && !a.mouse.pressed:
		if !onCanvas {
			return false
		}
		return a.press(p, ev.Modifiers(), a.now())
	case left:
		return a.motionPressed(p, onCanvas)
	case a.mouse.pressed:
		return a.release(p, onCanvas)
	default:
		return a.hover(p, onCanvas)
	}
}

func (a *App) press(p dnd.Point, mods tcell.ModMask, now time.Time) bool {
	ctrl := a.editor.Interaction()
	node := a.layout.NodeAt(p)
	target := interaction.Resolve(node)

	a.mouse.pressed = true
	a.mouse.pressAt = p
	a.mouse.pressID = ""
	if target.Kind == interaction.TargetBlock || target.Kind == interaction.TargetStyle {
		a.mouse.pressID = target.BlockID
	}

	// A press outside the running inline edit ends it.
	if edit := ctrl.Editing(); edit != nil && edit.BlockID() != a.mouse.pressID {
		a.modeHandler.Blur()
	}

	double := a.mouse.pressID != "" &&
		a.mouse.pressID == a.mouse.lastID &&
		a.mouse.lastAt == p &&
		now.Sub(a.mouse.lastClick) <= doubleClickInterval
	a.mouse.lastClick, a.mouse.lastID, a.mouse.lastAt = now, a.mouse.pressID, p

	switch {
	case double:
		ctrl.Click(node)
		ctrl.DoubleClick(node, a.modeHandler)
		a.mouse.lastID = ""
	case mods&tcell.ModCtrl != 0:
		ctrl.ToggleClick(node)
	default:
		ctrl.Click(node)
	}
	return true
}

// motionPressed starts a drag once the pointer leaves the pressed cell, then
// feeds the session.
func (a *App) motionPressed(p dnd.Point, onCanvas bool) bool {
	engine := a.editor.DnD()
	s := engine.Active()
	if s == nil {
		if !onCanvas || a.mouse.pressID == "" || p == a.mouse.pressAt || a.editor.Interaction().Editing() != nil {
			return false
		}
		b, err := a.editor.Reader().Get(a.mouse.pressID)
		if err != nil || !a.editor.Registry().CanDelete(b.Type) {
			return false
		}
		a.editor.SetHitTester(a.layout.Excluding(b.ID))
		s = engine.Begin(dnd.Payload{BlockID: b.ID})
		s.Enter(a.mouse.pressAt)
	}
	if !onCanvas {
		return false
	}
	s.Over(p)
	a.scheduleFlush()
	return true
}

func (a *App) release(p dnd.Point, onCanvas bool) bool {
	a.mouse.pressed = false
	s := a.editor.DnD().Active()
	if s == nil {
		return false
	}
	if !onCanvas {
		s.Cancel()
		return true
	}
	id := s.Payload().BlockID
	if _, err := s.Drop(p); err != nil {
		a.statusBar.SetTemporaryMessage("Move failed: %v", err)
		logger.Warnf("App: %v", err)
	} else if id != "" && a.editor.Reader().Has(id) {
		a.editor.Selection().Select(id)
	}
	return true
}

func (a *App) hover(p dnd.Point, onCanvas bool) bool {
	ctrl := a.editor.Interaction()
	if !onCanvas {
		ctrl.Leave()
		return true
	}
	ctrl.Hover(a.layout.NodeAt(p), a.now())
	a.scheduleFlush()
	return false
}

// scheduleFlush applies throttled drag and hover updates once the pointer
// rests.
func (a *App) scheduleFlush() {
	if a.flushPending {
		return
	}
	a.flushPending = true
	time.AfterFunc(a.flushInterval(), func() {
		select {
		case a.flushRequest <- struct{}{}:
		default:
		}
	})
}

func (a *App) flush() {
	if s := a.editor.DnD().Active(); s != nil {
		s.Flush()
	}
	a.editor.Interaction().FlushHover()
}

// flushInterval is the longer of the drag and hover throttle windows.
func (a *App) flushInterval() time.Duration {
	drag := a.cfg.DnD.ThrottleInterval.Duration
	if drag <= 0 {
		drag = dnd.DefaultThrottleInterval
	}
	hover := a.cfg.Canvas.HoverThrottle.Duration
	if hover <= 0 {
		hover = interaction.DefaultHoverThrottle
	}
	return max(drag, hover)
}
