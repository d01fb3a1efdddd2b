package block

import "errors"

// Document errors
var (
	// ErrStructuralViolation indicates that a mutation would break a tree invariant
	// (duplicate id, unknown parent, cycle). The document is left unchanged.
	ErrStructuralViolation = errors.New("structural violation")

	// ErrNotFound indicates that an operation referenced an unknown block id.
	ErrNotFound = errors.New("block not found")

	// ErrNotAllowed indicates that the block type refuses the operation (delete, duplicate).
	ErrNotAllowed = errors.New("operation not allowed for block type")
)

// History errors
var (
	// ErrNothingToUndo is returned by Undo when the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrHistoryCorruption indicates that an inverse could not be applied. Undo and redo
	// stay disabled until the history is reset.
	ErrHistoryCorruption = errors.New("history corrupted")
)
