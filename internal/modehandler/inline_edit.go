package modehandler

import (
	"unicode/utf8"

	"github.com/bethropolis/blox/internal/core/interaction"
	"github.com/bethropolis/blox/internal/input"
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/utils"
)

// Mount implements interaction.Surface: the handler becomes the text field.
func (mh *ModeHandler) Mount(blockID, text string) {
	mh.currentMode = ModeEdit
	mh.editText = text
	mh.editCursor = utf8.RuneCountInString(text)
	logger.DebugTagf("canvas", "ModeHandler: Inline edit mounted on %q", blockID)
}

// Unmount implements interaction.Surface.
func (mh *ModeHandler) Unmount() {
	mh.currentMode = ModeNormal
	mh.editText = ""
	mh.editCursor = 0
}

func (mh *ModeHandler) handleActionEdit(ae input.ActionEvent) bool {
	edit := mh.editor.Interaction().Editing()
	if edit == nil {
		mh.Unmount()
		return true
	}

	switch ae.Action {
	case input.ActionInsertRune:
		mh.editText = utils.InsertRuneAt(mh.editText, mh.editCursor, ae.Rune)
		mh.editCursor++
	case input.ActionDeleteCharBackward:
		mh.editText, mh.editCursor = utils.DeleteRuneBefore(mh.editText, mh.editCursor)
	case input.ActionCursorLeft:
		mh.editCursor = max(0, mh.editCursor-1)
	case input.ActionCursorRight:
		mh.editCursor = min(utf8.RuneCountInString(mh.editText), mh.editCursor+1)
	case input.ActionSubmit:
		edit.SetText(mh.editText)
		mh.report(edit.Key(interaction.KeyEnter), "Edit")
		return true
	case input.ActionCancel:
		edit.SetText(mh.editText)
		mh.report(edit.Key(interaction.KeyEscape), "Edit")
		return true
	case input.ActionQuit:
		edit.SetText(mh.editText)
		mh.report(edit.Blur(), "Edit")
		return mh.handleActionNormal(ae)
	default:
		return false
	}
	edit.SetText(mh.editText)
	return true
}

// Blur ends a running inline edit, e.g. when the pointer clicks elsewhere.
func (mh *ModeHandler) Blur() {
	if edit := mh.editor.Interaction().Editing(); edit != nil {
		edit.SetText(mh.editText)
		mh.report(edit.Blur(), "Edit")
	}
}
