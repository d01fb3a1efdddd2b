// Package projection turns committed store changes into fine-grained
// notifications: per block, per parent child list, and for the style target flag.
package projection

import (
	"slices"
	"sync"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/event"
	"github.com/bethropolis/blox/internal/logger"
)

// BlockFunc is called with the id of a block whose own fields changed.
type BlockFunc func(id string)

// ChildrenFunc is called with the id of a parent whose ordered child list changed.
type ChildrenFunc func(parentID string)

// StyleTargetFunc is called when the style target flag flips.
type StyleTargetFunc func(has bool)

// Subscription cancels one registration.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe removes the registration. Further calls do nothing.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

type handle[F any] struct {
	id uint64
	fn F
}

// registry maps a key to handles in subscription order.
type registry[F any] map[string][]handle[F]

func (r registry[F]) add(key string, h handle[F]) {
	r[key] = append(r[key], h)
}

func (r registry[F]) remove(key string, id uint64) {
	list := r[key]
	i := slices.IndexFunc(list, func(h handle[F]) bool { return h.id == id })
	if i < 0 {
		return
	}
	if len(list) == 1 {
		delete(r, key)
		return
	}
	r[key] = slices.Delete(slices.Clone(list), i, i+1)
}

// Projection is a read model over the store, kept current through the event bus.
type Projection struct {
	reader store.Reader
	events *event.Manager
	busIDs []event.SubscriptionID

	nextID   uint64
	blocks   registry[BlockFunc]
	children registry[ChildrenFunc]
	style    []handle[StyleTargetFunc]

	memo           map[string][]string // parent -> child ids
	hasStyleTarget bool
}

// New creates a projection and subscribes it to events.
func New(reader store.Reader, events *event.Manager) *Projection {
	p := &Projection{
		reader:   reader,
		events:   events,
		blocks:   make(registry[BlockFunc]),
		children: make(registry[ChildrenFunc]),
		memo:     make(map[string][]string),
	}
	p.busIDs = []event.SubscriptionID{
		events.Subscribe(event.TypeDocumentChanged, func(e event.Event) bool {
			if data, ok := e.Data.(event.DocumentChangedData); ok {
				p.apply(data.Change)
			}
			return false
		}),
		events.Subscribe(event.TypeDocumentLoaded, func(event.Event) bool {
			p.reload()
			return false
		}),
		events.Subscribe(event.TypeStyleTargetChanged, func(e event.Event) bool {
			if data, ok := e.Data.(event.StyleTargetChangedData); ok {
				p.setStyleTarget(data.Target != nil)
			}
			return false
		}),
	}
	return p
}

// Close detaches the projection from the event bus.
func (p *Projection) Close() {
	for _, id := range p.busIDs {
		p.events.Unsubscribe(id)
	}
	p.busIDs = nil
}

// --- Queries ---

// ChildIDs returns the ordered child ids of parentID, memoised per parent.
func (p *Projection) ChildIDs(parentID string) []string {
	ids, ok := p.memo[parentID]
	if !ok {
		ids = p.reader.ChildIDs(parentID)
		p.memo[parentID] = ids
	}
	return slices.Clone(ids)
}

// Children resolves ChildIDs to current blocks.
func (p *Projection) Children(parentID string) []block.Block {
	ids := p.ChildIDs(parentID)
	out := make([]block.Block, 0, len(ids))
	for _, id := range ids {
		if b, err := p.reader.Get(id); err == nil {
			out = append(out, b)
		}
	}
	return out
}

// Ancestors returns the parent chain of id, nearest first.
func (p *Projection) Ancestors(id string) []block.Block {
	anc, err := p.reader.Ancestors(id)
	if err != nil {
		return nil
	}
	return anc
}

func (p *Projection) Get(id string) (block.Block, bool) {
	b, err := p.reader.Get(id)
	return b, err == nil
}

func (p *Projection) HasStyleTarget() bool {
	return p.hasStyleTarget
}

// --- Subscriptions ---

func (p *Projection) SubscribeBlock(id string, fn BlockFunc) *Subscription {
	p.nextID++
	h := handle[BlockFunc]{id: p.nextID, fn: fn}
	p.blocks.add(id, h)
	return &Subscription{cancel: func() { p.blocks.remove(id, h.id) }}
}

func (p *Projection) SubscribeChildren(parentID string, fn ChildrenFunc) *Subscription {
	p.nextID++
	h := handle[ChildrenFunc]{id: p.nextID, fn: fn}
	p.children.add(parentID, h)
	return &Subscription{cancel: func() { p.children.remove(parentID, h.id) }}
}

func (p *Projection) SubscribeStyleTarget(fn StyleTargetFunc) *Subscription {
	p.nextID++
	h := handle[StyleTargetFunc]{id: p.nextID, fn: fn}
	p.style = append(p.style, h)
	return &Subscription{cancel: func() {
		if i := slices.IndexFunc(p.style, func(s handle[StyleTargetFunc]) bool { return s.id == h.id }); i >= 0 {
			p.style = slices.Delete(slices.Clone(p.style), i, i+1)
		}
	}}
}

// --- Change handling ---

func (p *Projection) apply(c store.Change) {
	parents := c.ChangedParents()
	for _, parent := range parents {
		delete(p.memo, parent)
	}
	if c.Kind == store.KindRemove {
		// A removed block's own child list is gone with it.
		for _, id := range c.TouchedIDs() {
			delete(p.memo, id)
		}
	}

	touched := c.TouchedIDs()
	logger.DebugTagf("canvas", "Projection: %v touched %d blocks, %d parents", c.Kind, len(touched), len(parents))
	for _, id := range touched {
		for _, h := range p.blocks[id] {
			h.fn(id)
		}
	}
	for _, parent := range parents {
		for _, h := range p.children[parent] {
			h.fn(parent)
		}
	}
}

// reload handles a wholesale replacement: every subscriber is told.
func (p *Projection) reload() {
	clear(p.memo)
	for id, list := range p.blocks {
		for _, h := range list {
			h.fn(id)
		}
	}
	for parent, list := range p.children {
		for _, h := range list {
			h.fn(parent)
		}
	}
}

func (p *Projection) setStyleTarget(has bool) {
	if has == p.hasStyleTarget {
		return
	}
	p.hasStyleTarget = has
	for _, h := range p.style {
		h.fn(has)
	}
}
