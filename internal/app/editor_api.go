package app

import (
	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/event"
	"github.com/bethropolis/blox/internal/plugin"
)

// Ensure appEditorAPI implements the plugin.EditorAPI interface.
var _ plugin.EditorAPI = (*appEditorAPI)(nil)

// appEditorAPI provides the concrete implementation of the EditorAPI interface.
type appEditorAPI struct {
	app *App
}

func newEditorAPI(app *App) *appEditorAPI {
	return &appEditorAPI{app: app}
}

// --- Document Access ---

func (api *appEditorAPI) Reader() store.Reader {
	return api.app.editor.Reader()
}

func (api *appEditorAPI) Selected() []string {
	return api.app.editor.Selection().Selected()
}

func (api *appEditorAPI) UpdateProperties(ids []string, patch block.Patch) error {
	return api.app.editor.UpdateProperties(ids, patch)
}

func (api *appEditorAPI) PageID() string {
	return api.app.pageID
}

// RequestSave may be called from timer goroutines.
func (api *appEditorAPI) RequestSave() {
	api.app.RequestSave()
}

// --- Event System ---

func (api *appEditorAPI) DispatchEvent(eventType event.Type, data any) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appEditorAPI) SubscribeEvent(eventType event.Type, handler event.Handler) event.SubscriptionID {
	return api.app.eventManager.Subscribe(eventType, handler)
}

func (api *appEditorAPI) UnsubscribeEvent(id event.SubscriptionID) {
	api.app.eventManager.Unsubscribe(id)
}

// --- Commands and Status ---

func (api *appEditorAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	return api.app.modeHandler.RegisterCommand(name, cmdFunc)
}

func (api *appEditorAPI) SetStatusMessage(format string, args ...any) {
	api.app.statusBar.SetTemporaryMessage(format, args...)
	api.app.requestRedraw()
}
