package interaction

import (
	"fmt"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/logger"
)

// Key is a key that ends an inline edit.
type Key int

const (
	KeyEnter Key = iota
	KeyEscape
)

// InlineEdit is one in-place text editing session.
type InlineEdit struct {
	ctrl     *Controller
	blockID  string
	original string
	text     string
	surface  Surface
	done     bool
}

func (e *InlineEdit) BlockID() string { return e.blockID }

func (e *InlineEdit) Text() string { return e.text }

func (e *InlineEdit) Done() bool { return e.done }

// SetText replaces the edited text.
func (e *InlineEdit) SetText(s string) {
	if !e.done {
		e.text = s
	}
}

// Key ends the edit on Enter or Escape, committing the text either way.
func (e *InlineEdit) Key(k Key) error {
	switch k {
	case KeyEnter, KeyEscape:
		return e.end()
	}
	return nil
}

// Blur ends the edit and commits the text.
func (e *InlineEdit) Blur() error {
	return e.end()
}

// end commits the text as one history entry and always tears the surface down.
func (e *InlineEdit) end() (err error) {
	if e.done {
		return nil
	}
	e.done = true
	c := e.ctrl
	defer func() {
		if e.surface != nil {
			e.surface.Unmount()
		}
		c.edit = nil
		c.sel.ClearHighlight()
		c.publishEdit(e.blockID, false)
	}()

	if e.text == e.original {
		logger.DebugTagf("canvas", "Interaction: Inline edit on %q unchanged", e.blockID)
		return nil
	}
	c.mut.Commit()
	if _, err := c.mut.UpdateProperties([]string{e.blockID}, block.Patch{block.ContentKey: e.text}); err != nil {
		logger.DebugTagf("canvas", "Interaction: Inline edit commit failed: %v", err)
		return fmt.Errorf("inline edit %q: %w", e.blockID, err)
	}
	c.mut.Commit()
	return nil
}
