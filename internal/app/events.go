package app

import (
	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/commands"
	"github.com/bethropolis/blox/internal/event"
	"github.com/bethropolis/blox/internal/logger"
)

var errUnsaved = commands.ErrUnsaved

// newPageRecords is the content of a page that was never saved.
func newPageRecords() []block.Record {
	return []block.Record{{ID: block.NewID(), Type: "Body", Name: "Body"}}
}

// subscribeEvents wires the app to the editor's event bus.
func (a *App) subscribeEvents() {
	em := a.eventManager
	em.Subscribe(event.TypeDocumentChanged, a.handleDocumentChanged)
	em.Subscribe(event.TypeDocumentLoaded, a.handleDocumentLoaded)
	em.Subscribe(event.TypeHistoryChanged, a.handleHistoryChanged)
	em.Subscribe(event.TypeDragStateChanged, a.handleDragStateChanged)
	for _, t := range []event.Type{
		event.TypeSelectionChanged,
		event.TypeHighlightChanged,
		event.TypeStyleTargetChanged,
		event.TypeInlineEditChanged,
	} {
		em.Subscribe(t, a.handleViewStateChanged)
	}
}

// handleDocumentChanged marks the page dirty and lays it out again.
func (a *App) handleDocumentChanged(e event.Event) bool {
	if data, ok := e.Data.(event.DocumentChangedData); ok && data.Change.Empty() {
		return false
	}
	a.modified = true
	a.relayout()
	a.requestRedraw()
	return false
}

func (a *App) handleDocumentLoaded(e event.Event) bool {
	a.modified = false
	a.scrollY = 0
	a.mouse = mouseState{}
	a.relayout()
	a.requestRedraw()
	return false
}

func (a *App) handleHistoryChanged(e event.Event) bool {
	if data, ok := e.Data.(event.HistoryChangedData); ok && data.Frozen {
		logger.Warnf("App: History is frozen on page %q", a.pageID)
	}
	a.requestRedraw()
	return false
}

func (a *App) handleViewStateChanged(e event.Event) bool {
	a.requestRedraw()
	return false
}

// handleDragStateChanged restores the full layout as hit tester once a drag
// ends, whether by drop or cancel.
func (a *App) handleDragStateChanged(e event.Event) bool {
	if data, ok := e.Data.(event.DragStateChangedData); ok && !data.Active && a.layout != nil {
		a.editor.SetHitTester(a.layout)
	}
	a.requestRedraw()
	return false
}
