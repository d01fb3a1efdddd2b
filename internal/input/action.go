package input

// Action represents a command or operation to be performed by the editor.
type Action int

const (
	ActionUnknown Action = iota
	ActionQuit
	ActionSave
	ActionCancel // Esc
	ActionEnterCommandMode

	// --- History ---
	ActionUndo
	ActionRedo

	// --- Structure ---
	ActionDelete
	ActionDuplicate
	ActionCopy
	ActionPaste
	ActionMoveUp   // reorder the selected block before its previous sibling
	ActionMoveDown // reorder the selected block after its next sibling
	ActionAddBlock // requires BlockType
	ActionUnlink

	// --- Navigation ---
	ActionSelectParent
	ActionSelectPrev
	ActionSelectNext
	ActionEditInline
	ActionScrollUp
	ActionScrollDown

	// --- Text entry (inline edit, command line) ---
	ActionInsertRune
	ActionDeleteCharBackward
	ActionCursorLeft
	ActionCursorRight
	ActionSubmit
)

// ActionEvent is a decoded key event with its payload.
type ActionEvent struct {
	Action    Action
	Rune      rune   // ActionInsertRune
	BlockType string // ActionAddBlock
}
