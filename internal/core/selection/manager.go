// Package selection tracks which blocks are selected, which element style is
// targeted, and which block is highlighted under the pointer.
package selection

import (
	"slices"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/event"
	"github.com/bethropolis/blox/internal/logger"
)

// Manager holds ephemeral selection state. None of it is persisted or undoable.
type Manager struct {
	reader store.Reader
	events *event.Manager

	selected    []string
	styleTarget *block.StyleTarget
	highlighted string
}

// NewManager creates a selection manager. When events is non-nil it publishes
// changes and prunes ids that leave the document.
func NewManager(reader store.Reader, events *event.Manager) *Manager {
	m := &Manager{reader: reader, events: events}
	if events != nil {
		prune := func(event.Event) bool {
			m.prune()
			return false
		}
		events.Subscribe(event.TypeDocumentChanged, prune)
		events.Subscribe(event.TypeDocumentLoaded, prune)
	}
	return m
}

// --- Block selection ---

// Select replaces the selection. Duplicates are dropped, order is kept.
func (m *Manager) Select(ids ...string) {
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	m.setSelected(next)
}

// Toggle adds id to the selection, or removes it when already selected.
func (m *Manager) Toggle(id string) {
	if id == "" {
		return
	}
	next := slices.Clone(m.selected)
	if i := slices.Index(next, id); i >= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next = append(next, id)
	}
	m.setSelected(next)
}

func (m *Manager) ClearSelection() {
	m.setSelected(nil)
}

func (m *Manager) Selected() []string {
	return slices.Clone(m.selected)
}

// First returns the earliest selected id.
func (m *Manager) First() (string, bool) {
	if len(m.selected) == 0 {
		return "", false
	}
	return m.selected[0], true
}

func (m *Manager) IsSelected(id string) bool {
	return slices.Contains(m.selected, id)
}

func (m *Manager) setSelected(next []string) {
	if slices.Equal(next, m.selected) {
		return
	}
	m.selected = next
	logger.DebugTagf("selection", "Selection Manager: Selected %v", next)
	m.dispatch(event.TypeSelectionChanged, event.SelectionChangedData{Selected: slices.Clone(next)})
}

// --- Style target ---

func (m *Manager) SetStyleTarget(t block.StyleTarget) {
	if m.styleTarget != nil && *m.styleTarget == t {
		return
	}
	m.styleTarget = &t
	logger.DebugTagf("selection", "Selection Manager: Style target %s.%s on %q", t.ID, t.Prop, t.BlockID)
	m.dispatch(event.TypeStyleTargetChanged, event.StyleTargetChangedData{Target: &t})
}

func (m *Manager) ClearStyleTarget() {
	if m.styleTarget == nil {
		return
	}
	m.styleTarget = nil
	m.dispatch(event.TypeStyleTargetChanged, event.StyleTargetChangedData{})
}

func (m *Manager) StyleTarget() (block.StyleTarget, bool) {
	if m.styleTarget == nil {
		return block.StyleTarget{}, false
	}
	return *m.styleTarget, true
}

// --- Highlight ---

func (m *Manager) Highlight(id string) {
	if id == m.highlighted {
		return
	}
	m.highlighted = id
	m.dispatch(event.TypeHighlightChanged, event.HighlightChangedData{BlockID: id})
}

func (m *Manager) ClearHighlight() {
	m.Highlight("")
}

func (m *Manager) Highlighted() string {
	return m.highlighted
}

// ClearAll drops selection, style target and highlight.
func (m *Manager) ClearAll() {
	m.ClearSelection()
	m.ClearStyleTarget()
	m.ClearHighlight()
}

// prune forgets ids that no longer exist in the document.
func (m *Manager) prune() {
	if m.reader == nil {
		return
	}
	kept := slices.DeleteFunc(slices.Clone(m.selected), func(id string) bool {
		return !m.reader.Has(id)
	})
	if len(kept) != len(m.selected) {
		m.setSelected(kept)
	}
	if m.highlighted != "" && !m.reader.Has(m.highlighted) {
		m.ClearHighlight()
	}
	if m.styleTarget != nil && !m.reader.Has(m.styleTarget.BlockID) {
		m.ClearStyleTarget()
	}
}

func (m *Manager) dispatch(t event.Type, data any) {
	if m.events != nil {
		m.events.Dispatch(t, data)
	}
}
