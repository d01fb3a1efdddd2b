package core

import (
	"maps"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/utils"
)

// StyleDrag streams property values while a style control is dragged. Writes
// are throttled and the whole drag becomes one undo step.
type StyleDrag struct {
	editor   *Editor
	ids      []string
	throttle *utils.Throttle
	pending  block.Patch
	done     bool
}

// BeginStyleDrag starts a drag over ids, ending any previous one.
func (e *Editor) BeginStyleDrag(ids []string) *StyleDrag {
	if e.styleDrag != nil {
		e.styleDrag.End()
	}
	e.history.Commit()
	e.history.Hold()
	d := &StyleDrag{
		editor:   e,
		ids:      append([]string(nil), ids...),
		throttle: utils.NewThrottle(e.styleDragThrottle, e.now),
	}
	e.styleDrag = d
	return d
}

// Update records a new value. It is written now, or on the next admitted
// Update or End when throttled.
func (d *StyleDrag) Update(patch block.Patch) error {
	if d.done {
		return nil
	}
	if d.pending == nil {
		d.pending = block.Patch{}
	}
	maps.Copy(d.pending, patch)
	if !d.throttle.Allow() {
		return nil
	}
	return d.flush()
}

func (d *StyleDrag) flush() error {
	if len(d.pending) == 0 {
		return nil
	}
	patch := d.pending
	d.pending = nil
	if err := d.editor.UpdateProperties(d.ids, patch); err != nil {
		logger.DebugTagf("canvas", "StyleDrag: Update failed: %v", err)
		return err
	}
	return nil
}

// End writes the final value and commits the drag.
func (d *StyleDrag) End() error {
	if d.done {
		return nil
	}
	d.done = true
	err := d.flush()
	d.editor.history.Commit()
	if d.editor.styleDrag == d {
		d.editor.styleDrag = nil
	}
	return err
}
