package event

import (
	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/store"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Document events
	TypeDocumentChanged // a mutation, undo or redo changed the store
	TypeDocumentLoaded  // the store was replaced wholesale
	TypeDocumentSaved   // the document was persisted

	// History events
	TypeHistoryChanged // undo/redo availability or recording state changed

	// Transient interaction state
	TypeSelectionChanged
	TypeHighlightChanged
	TypeStyleTargetChanged
	TypeDragStateChanged
	TypeInlineEditChanged

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

func (t Type) String() string {
	switch t {
	case TypeDocumentChanged:
		return "DocumentChanged"
	case TypeDocumentLoaded:
		return "DocumentLoaded"
	case TypeDocumentSaved:
		return "DocumentSaved"
	case TypeHistoryChanged:
		return "HistoryChanged"
	case TypeSelectionChanged:
		return "SelectionChanged"
	case TypeHighlightChanged:
		return "HighlightChanged"
	case TypeStyleTargetChanged:
		return "StyleTargetChanged"
	case TypeDragStateChanged:
		return "DragStateChanged"
	case TypeInlineEditChanged:
		return "InlineEditChanged"
	case TypeAppReady:
		return "AppReady"
	case TypeAppQuit:
		return "AppQuit"
	default:
		return "Unknown"
	}
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data any
}

// DocumentChangedData carries the change that was applied. Undo delivers the
// inverse of the recorded change.
type DocumentChangedData struct {
	Change store.Change
}

// DocumentLoadedData reports a wholesale replacement.
type DocumentLoadedData struct {
	PageID string
	Blocks int
}

type DocumentSavedData struct {
	PageID string
	Blocks int
}

type HistoryChangedData struct {
	CanUndo   bool
	CanRedo   bool
	Recording bool
	Frozen    bool
}

type SelectionChangedData struct {
	Selected []string
}

type HighlightChangedData struct {
	BlockID string // empty when cleared
}

type StyleTargetChangedData struct {
	Target *block.StyleTarget // nil when cleared
}

// DragStateChangedData is published by the drag engine; Active is false once a
// drag ends for any reason.
type DragStateChangedData struct {
	Active bool
	State  any
}

type InlineEditChangedData struct {
	BlockID string
	Active  bool
}

type AppReadyData struct{}

type AppQuitData struct{}
