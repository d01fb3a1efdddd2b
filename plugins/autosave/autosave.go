// Package autosave persists the page after the document has been idle for a
// while.
package autosave

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bethropolis/blox/internal/event"
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/plugin"
	"github.com/bethropolis/blox/internal/utils"
)

var _ plugin.Plugin = (*AutoSave)(nil)

// AutoSave requests a save once no document change happened for the delay.
type AutoSave struct {
	api       plugin.EditorAPI
	delay     time.Duration
	enabled   atomic.Bool
	debouncer utils.Debouncer
	subs      []event.SubscriptionID
}

// New creates the plugin. A non-positive delay starts it disabled.
func New(delay time.Duration) *AutoSave {
	p := &AutoSave{delay: delay}
	p.enabled.Store(delay > 0)
	return p
}

func (p *AutoSave) Name() string {
	return "autosave"
}

func (p *AutoSave) Initialize(api plugin.EditorAPI) error {
	p.api = api
	p.subs = append(p.subs,
		api.SubscribeEvent(event.TypeDocumentChanged, p.onChange),
		api.SubscribeEvent(event.TypeDocumentSaved, func(event.Event) bool {
			p.debouncer.Stop()
			return false
		}),
	)
	if err := api.RegisterCommand("autosave", p.toggle); err != nil {
		return fmt.Errorf("failed to register 'autosave' command: %w", err)
	}
	logger.Infof("%s initialized. Enabled: %v, Delay: %v", p.Name(), p.enabled.Load(), p.delay)
	return nil
}

func (p *AutoSave) onChange(event.Event) bool {
	if p.enabled.Load() && p.delay > 0 {
		p.debouncer.Debounce(p.delay, p.api.RequestSave)
	}
	return false
}

// toggle implements ':autosave [on|off]'.
func (p *AutoSave) toggle(args []string) error {
	if len(args) == 0 {
		p.api.SetStatusMessage("autosave: %v (%v)", p.enabled.Load(), p.delay)
		return nil
	}
	switch args[0] {
	case "on":
		if p.delay <= 0 {
			return fmt.Errorf("no autosave delay configured")
		}
		p.enabled.Store(true)
	case "off":
		p.enabled.Store(false)
		p.debouncer.Stop()
	default:
		return fmt.Errorf("usage: autosave [on|off]")
	}
	p.api.SetStatusMessage("autosave: %v", p.enabled.Load())
	return nil
}

// Shutdown cancels a pending save and detaches from the event bus.
func (p *AutoSave) Shutdown() error {
	p.debouncer.Stop()
	if p.api != nil {
		for _, id := range p.subs {
			p.api.UnsubscribeEvent(id)
		}
	}
	p.subs = nil
	return nil
}
