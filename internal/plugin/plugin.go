// Package plugin defines the extension surface: plugins observe document
// events, register ':' commands and talk to the user through the status bar.
package plugin

import (
	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/event"
)

// CommandFunc defines the signature for commands registered by plugins.
type CommandFunc func(args []string) error

// EditorAPI is the controlled view of the editor handed to plugins.
type EditorAPI interface {
	// --- Document ---
	Reader() store.Reader
	Selected() []string
	UpdateProperties(ids []string, patch block.Patch) error
	PageID() string

	// RequestSave asks the event loop to persist the page. Safe from any goroutine.
	RequestSave()

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data any)
	SubscribeEvent(eventType event.Type, handler event.Handler) event.SubscriptionID
	UnsubscribeEvent(id event.SubscriptionID)

	// --- Command Registration ---
	RegisterCommand(name string, cmdFunc CommandFunc) error

	// --- Status Bar ---
	SetStatusMessage(format string, args ...any)
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded.
	Initialize(api EditorAPI) error

	// Shutdown is called once when the editor is closing.
	Shutdown() error
}
