package event

import (
	"sync"

	"github.com/bethropolis/blox/internal/logger"
)

// Handler receives dispatched events. The return value reports whether the
// event was consumed; dispatch does not stop on it.
type Handler func(e Event) bool

// SubscriptionID identifies one subscription for Unsubscribe.
type SubscriptionID uint64

type subscriber struct {
	id      SubscriptionID
	handler Handler
}

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	nextID   SubscriptionID
	handlers map[Type][]subscriber
}

func NewManager() *Manager {
	return &Manager{handlers: make(map[Type][]subscriber)}
}

// Subscribe adds a handler for eventType. Handlers run in subscription order.
func (m *Manager) Subscribe(eventType Type, handler Handler) SubscriptionID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.handlers[eventType] = append(m.handlers[eventType], subscriber{id: id, handler: handler})
	logger.Debugf("Event Manager: Handler %d subscribed to %v", id, eventType)
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (m *Manager) Unsubscribe(id SubscriptionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for t, subs := range m.handlers {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			next := make([]subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			m.handlers[t] = next
			return
		}
	}
}

// Dispatch synchronously delivers an event to every handler of its type.
// Handlers may subscribe or unsubscribe while running; the change applies to
// the next dispatch.
func (m *Manager) Dispatch(eventType Type, data any) {
	m.mu.RLock()
	subs := m.handlers[eventType]
	m.mu.RUnlock()

	if len(subs) == 0 {
		return
	}
	logger.Debugf("Event Manager: Dispatching %v to %d handler(s)", eventType, len(subs))

	e := Event{Type: eventType, Data: data}
	for _, s := range subs {
		s.handler(e)
	}
}
