// Package plugintest provides an in-memory plugin.EditorAPI for plugin tests.
package plugintest

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/event"
	"github.com/bethropolis/blox/internal/plugin"
)

// API backs plugin.EditorAPI with a real editor and records side effects.
type API struct {
	Editor *core.Editor
	Page   string

	saves    atomic.Int32
	mu       sync.Mutex
	messages []string
	commands map[string]plugin.CommandFunc
}

var _ plugin.EditorAPI = (*API)(nil)

func New(e *core.Editor, page string) *API {
	return &API{Editor: e, Page: page, commands: make(map[string]plugin.CommandFunc)}
}

func (a *API) Reader() store.Reader { return a.Editor.Reader() }

func (a *API) Selected() []string { return a.Editor.Selection().Selected() }

func (a *API) UpdateProperties(ids []string, patch block.Patch) error {
	return a.Editor.UpdateProperties(ids, patch)
}

func (a *API) PageID() string { return a.Page }

func (a *API) RequestSave() { a.saves.Add(1) }

// Saves counts RequestSave calls.
func (a *API) Saves() int { return int(a.saves.Load()) }

func (a *API) DispatchEvent(t event.Type, data any) {
	a.Editor.GetEventManager().Dispatch(t, data)
}

func (a *API) SubscribeEvent(t event.Type, h event.Handler) event.SubscriptionID {
	return a.Editor.GetEventManager().Subscribe(t, h)
}

func (a *API) UnsubscribeEvent(id event.SubscriptionID) {
	a.Editor.GetEventManager().Unsubscribe(id)
}

func (a *API) RegisterCommand(name string, fn plugin.CommandFunc) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.commands[name]; ok {
		return fmt.Errorf("command '%s' already registered", name)
	}
	a.commands[name] = fn
	return nil
}

// Run executes a registered command.
func (a *API) Run(name string, args ...string) error {
	a.mu.Lock()
	fn, ok := a.commands[name]
	a.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	return fn(args)
}

func (a *API) SetStatusMessage(format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, fmt.Sprintf(format, args...))
}

// LastMessage returns the most recent status message.
func (a *API) LastMessage() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.messages) == 0 {
		return ""
	}
	return a.messages[len(a.messages)-1]
}
