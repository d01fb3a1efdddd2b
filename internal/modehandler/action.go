package modehandler

import (
	"errors"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/clipboard"
	"github.com/bethropolis/blox/internal/input"
	"github.com/bethropolis/blox/internal/logger"
)

const scrollStep = 5

// handleActionNormal runs structure and navigation actions.
func (mh *ModeHandler) handleActionNormal(ae input.ActionEvent) bool {
	ed := mh.editor
	sel := ed.Selection()

	switch ae.Action {
	case input.ActionEnterCommandMode:
		mh.currentMode = ModeCommand
		mh.cmdBuffer = ""
		mh.statusBar.SetTemporaryMessage(":")
		logger.Debugf("ModeHandler: Entering Command Mode")

	case input.ActionQuit:
		if mh.host.Modified() && !mh.forceQuitPending {
			mh.forceQuitPending = true
			mh.statusBar.SetTemporaryMessage("Unsaved changes! Quit again to discard, or save with Ctrl+S")
			return true
		}
		mh.quit()
		return false

	case input.ActionSave:
		if err := mh.host.Save(); err != nil {
			mh.statusBar.SetTemporaryMessage("Save failed: %v", err)
		}

	case input.ActionCancel:
		if s := ed.DnD().Active(); s != nil {
			s.Cancel()
			break
		}
		sel.ClearStyleTarget()
		sel.ClearSelection()

	case input.ActionUndo:
		mh.report(ed.Undo(), "Undo")
	case input.ActionRedo:
		mh.report(ed.Redo(), "Redo")

	case input.ActionDelete:
		mh.report(ed.RemoveSelected(), "Delete")

	case input.ActionDuplicate:
		_, err := ed.DuplicateSelected()
		mh.report(err, "Duplicate")

	case input.ActionCopy:
		n, err := ed.CopySelected()
		if err == nil && n > 0 {
			mh.statusBar.SetTemporaryMessage("Copied %d blocks", n)
		}
		mh.report(err, "Copy")

	case input.ActionPaste:
		_, err := ed.Paste()
		mh.report(err, "Paste")

	case input.ActionMoveUp:
		mh.report(ed.Nudge(-1), "Move")
	case input.ActionMoveDown:
		mh.report(ed.Nudge(1), "Move")

	case input.ActionAddBlock:
		_, err := ed.AddBlockAtSelection(ae.BlockType)
		mh.report(err, "Add "+ae.BlockType)

	case input.ActionUnlink:
		if first, ok := sel.First(); ok {
			mh.report(ed.UnlinkLibraryBlock(first), "Unlink")
		}

	case input.ActionSelectParent:
		ed.SelectParent()
	case input.ActionSelectPrev:
		mh.selectSibling(-1)
	case input.ActionSelectNext:
		mh.selectSibling(1)

	case input.ActionEditInline:
		mh.startInlineEdit()

	case input.ActionScrollUp:
		mh.host.Scroll(-scrollStep)
	case input.ActionScrollDown:
		mh.host.Scroll(scrollStep)

	default:
		return false
	}
	return true
}

// report shows a failed operation on the status bar.
func (mh *ModeHandler) report(err error, op string) {
	switch {
	case err == nil:
	case errors.Is(err, block.ErrNothingToUndo):
		mh.statusBar.SetTemporaryMessage("Nothing to undo")
	case errors.Is(err, block.ErrNothingToRedo):
		mh.statusBar.SetTemporaryMessage("Nothing to redo")
	case errors.Is(err, clipboard.ErrEmpty):
		mh.statusBar.SetTemporaryMessage("Clipboard is empty")
	case errors.Is(err, block.ErrNotAllowed):
		mh.statusBar.SetTemporaryMessage("%s: not allowed for this block", op)
	default:
		logger.Warnf("ModeHandler: %s failed: %v", op, err)
		mh.statusBar.SetTemporaryMessage("%s failed: %v", op, err)
	}
}

// selectSibling walks the laid-out blocks in reading order.
func (mh *ModeHandler) selectSibling(delta int) {
	boxes := mh.host.Layout().Boxes()
	if len(boxes) == 0 {
		return
	}
	sel := mh.editor.Selection()
	first, ok := sel.First()
	if !ok {
		sel.Select(boxes[0].ID)
		return
	}
	for i, b := range boxes {
		if b.ID != first {
			continue
		}
		next := max(0, min(i+delta, len(boxes)-1))
		sel.ClearStyleTarget()
		sel.Select(boxes[next].ID)
		return
	}
	sel.Select(boxes[0].ID)
}

// startInlineEdit opens the inline editor on the selected block.
func (mh *ModeHandler) startInlineEdit() {
	first, ok := mh.editor.Selection().First()
	if !ok {
		return
	}
	node := mh.host.Layout().NodeFor(first)
	if node == nil {
		return
	}
	if mh.editor.Interaction().DoubleClick(node, mh) == nil {
		mh.statusBar.SetTemporaryMessage("This block has no inline text")
	}
}
