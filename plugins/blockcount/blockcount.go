// Package blockcount reports how many blocks of each type the page holds.
package blockcount

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bethropolis/blox/internal/event"
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/plugin"
)

var _ plugin.Plugin = (*BlockCount)(nil)

type BlockCount struct {
	api  plugin.EditorAPI
	subs []event.SubscriptionID
}

func New() *BlockCount {
	return &BlockCount{}
}

func (p *BlockCount) Name() string {
	return "blockcount"
}

func (p *BlockCount) Initialize(api plugin.EditorAPI) error {
	p.api = api
	if err := api.RegisterCommand("count", p.count); err != nil {
		return fmt.Errorf("failed to register 'count' command: %w", err)
	}
	p.subs = append(p.subs, api.SubscribeEvent(event.TypeDocumentLoaded, p.onLoaded))
	logger.Infof("%s initialized", p.Name())
	return nil
}

func (p *BlockCount) onLoaded(e event.Event) bool {
	data, ok := e.Data.(event.DocumentLoadedData)
	if !ok {
		return false
	}
	page := data.PageID
	if page == "" {
		page = p.api.PageID()
	}
	p.api.SetStatusMessage("Opened %s: %d blocks", page, data.Blocks)
	return false
}

// Summary formats per-type counts as "Type: n" pairs in type order.
func Summary(counts map[string]int) string {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = fmt.Sprintf("%s: %d", t, counts[t])
	}
	return strings.Join(parts, ", ")
}

// count implements ':count', or ':count Type' for a single type.
func (p *BlockCount) count(args []string) error {
	counts := make(map[string]int)
	total := 0
	for _, b := range p.api.Reader().Blocks() {
		counts[b.Type]++
		total++
	}
	if len(args) > 0 {
		p.api.SetStatusMessage("%s: %d", args[0], counts[args[0]])
		return nil
	}
	if total == 0 {
		p.api.SetStatusMessage("Page is empty")
		return nil
	}
	p.api.SetStatusMessage("%d blocks (%s)", total, Summary(counts))
	return nil
}

func (p *BlockCount) Shutdown() error {
	if p.api != nil {
		for _, id := range p.subs {
			p.api.UnsubscribeEvent(id)
		}
	}
	p.subs = nil
	return nil
}
