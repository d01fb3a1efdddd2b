package history

import (
	"fmt"
	"time"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/event"
	"github.com/bethropolis/blox/internal/logger"
)

// Manager owns every mutation of the store. It is driven from the event loop
// and is not safe for concurrent use.
type Manager struct {
	store  *store.Store
	events *event.Manager
	now    func() time.Time

	maxEntries int
	window     time.Duration

	undo         []Entry
	redo         []Entry
	open         *Entry
	lastMutation time.Time
	held         bool
	frozen       bool
}

// NewManager creates a history manager over st. events may be nil.
func NewManager(st *store.Store, events *event.Manager, cfg Config) *Manager {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.CoalesceWindow == 0 {
		cfg.CoalesceWindow = DefaultCoalesceWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		store:      st,
		events:     events,
		now:        cfg.Now,
		maxEntries: cfg.MaxEntries,
		window:     cfg.CoalesceWindow,
	}
}

// Reader exposes the store read-only.
func (m *Manager) Reader() store.Reader {
	return m.store
}

// --- Mutations ---

func (m *Manager) Insert(b block.Block, parentID string, index int, descendants ...block.Block) (store.Change, error) {
	c, err := m.store.Insert(b, parentID, index, descendants...)
	if err != nil {
		return c, fmt.Errorf("insert %q: %w", b.ID, err)
	}
	m.record(c)
	return c, nil
}

func (m *Manager) Remove(ids []string) (store.Change, error) {
	c, err := m.store.Remove(ids)
	if err != nil {
		return c, fmt.Errorf("remove: %w", err)
	}
	m.record(c)
	return c, nil
}

func (m *Manager) Move(ids []string, newParentID string, index int) (store.Change, error) {
	c, err := m.store.Move(ids, newParentID, index)
	if err != nil {
		return c, fmt.Errorf("move: %w", err)
	}
	m.record(c)
	return c, nil
}

func (m *Manager) UpdateProperties(ids []string, patch block.Patch) (store.Change, error) {
	c, err := m.store.UpdateProperties(ids, patch)
	if err != nil {
		return c, fmt.Errorf("update: %w", err)
	}
	m.record(c)
	return c, nil
}

// Load replaces the document and forgets all history.
func (m *Manager) Load(records []block.Record) error {
	if err := m.store.LoadRecords(records); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	m.Reset()
	if m.events != nil {
		m.events.Dispatch(event.TypeDocumentLoaded, event.DocumentLoadedData{Blocks: len(records)})
	}
	return nil
}

// record appends an applied change to the open entry or opens a new one.
func (m *Manager) record(c store.Change) {
	if c.Empty() {
		return
	}
	m.notify(c)

	if m.frozen {
		logger.WarnTagf("history", "History: Frozen, %v change applied but not recorded", c.Kind)
		return
	}

	now := m.now()
	if m.open != nil && m.open.Kind == c.Kind && !m.windowElapsed(now) {
		m.open.Changes = append(m.open.Changes, c)
		logger.DebugTagf("history", "History: Coalesced %v change (%d in entry)", c.Kind, len(m.open.Changes))
	} else {
		m.closeOpen()
		m.open = &Entry{Kind: c.Kind, Changes: []store.Change{c}}
		m.redo = nil
		logger.DebugTagf("history", "History: Opened %v entry. Undo: %d", c.Kind, len(m.undo))
	}
	m.lastMutation = now
	m.notifyStack()
}

func (m *Manager) windowElapsed(now time.Time) bool {
	return !m.held && m.window > 0 && now.Sub(m.lastMutation) >= m.window
}

// Hold keeps the next entry open past the coalescing window until Commit.
func (m *Manager) Hold() {
	m.held = true
}

// closeOpen pushes the open entry onto the undo stack, evicting the oldest
// entries beyond maxEntries.
func (m *Manager) closeOpen() {
	if m.open == nil {
		return
	}
	m.undo = append(m.undo, *m.open)
	m.open = nil
	if len(m.undo) > m.maxEntries {
		m.undo = m.undo[len(m.undo)-m.maxEntries:]
	}
}

// --- Undo / Redo ---

// Commit closes the open entry, making it the undo head.
func (m *Manager) Commit() {
	m.held = false
	if m.open == nil {
		return
	}
	m.closeOpen()
	logger.DebugTagf("history", "History: Committed. Undo: %d", len(m.undo))
	m.notifyStack()
}

// Rollback reverts and discards the open entry. Operations spanning several
// mutations use it to leave no trace when a later step fails.
func (m *Manager) Rollback() error {
	m.held = false
	if m.open == nil {
		return nil
	}
	entry := *m.open
	m.open = nil

	for i := len(entry.Changes) - 1; i >= 0; i-- {
		if err := m.store.Revert(entry.Changes[i]); err != nil {
			for j := i + 1; j < len(entry.Changes); j++ {
				if rerr := m.store.Reapply(entry.Changes[j]); rerr != nil {
					logger.Errorf("History: Restore after failed rollback also failed: %v", rerr)
					break
				}
			}
			m.open = &entry
			return m.freeze("rollback", err)
		}
	}
	for i := len(entry.Changes) - 1; i >= 0; i-- {
		m.notify(entry.Changes[i].Inverse())
	}
	logger.DebugTagf("history", "History: Rolled back %v entry (%d changes)", entry.Kind, len(entry.Changes))
	m.notifyStack()
	return nil
}

// Undo reverts the most recent entry.
func (m *Manager) Undo() error {
	if m.frozen {
		return block.ErrHistoryCorruption
	}
	m.Commit()
	if len(m.undo) == 0 {
		return block.ErrNothingToUndo
	}
	entry := m.undo[len(m.undo)-1]

	for i := len(entry.Changes) - 1; i >= 0; i-- {
		if err := m.store.Revert(entry.Changes[i]); err != nil {
			// Reapply what was already reverted so the store matches the stack.
			for j := i + 1; j < len(entry.Changes); j++ {
				if rerr := m.store.Reapply(entry.Changes[j]); rerr != nil {
					logger.Errorf("History: Rollback after failed undo also failed: %v", rerr)
					break
				}
			}
			return m.freeze("undo", err)
		}
	}

	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, entry)
	for i := len(entry.Changes) - 1; i >= 0; i-- {
		m.notify(entry.Changes[i].Inverse())
	}
	logger.DebugTagf("history", "History: Undid %v entry (%d changes). Undo: %d, Redo: %d",
		entry.Kind, len(entry.Changes), len(m.undo), len(m.redo))
	m.notifyStack()
	return nil
}

// Redo reapplies the most recently undone entry.
func (m *Manager) Redo() error {
	if m.frozen {
		return block.ErrHistoryCorruption
	}
	if len(m.redo) == 0 {
		return block.ErrNothingToRedo
	}
	entry := m.redo[len(m.redo)-1]

	for i, c := range entry.Changes {
		if err := m.store.Reapply(c); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := m.store.Revert(entry.Changes[j]); rerr != nil {
					logger.Errorf("History: Rollback after failed redo also failed: %v", rerr)
					break
				}
			}
			return m.freeze("redo", err)
		}
	}

	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, entry)
	for _, c := range entry.Changes {
		m.notify(c)
	}
	logger.DebugTagf("history", "History: Redid %v entry (%d changes). Undo: %d, Redo: %d",
		entry.Kind, len(entry.Changes), len(m.undo), len(m.redo))
	m.notifyStack()
	return nil
}

func (m *Manager) freeze(op string, cause error) error {
	m.frozen = true
	logger.Errorf("History: %s failed, history frozen until reset: %v", op, cause)
	m.notifyStack()
	return fmt.Errorf("%s: %w: %v", op, block.ErrHistoryCorruption, cause)
}

// Reset drops every entry and clears a frozen state.
func (m *Manager) Reset() {
	m.undo = nil
	m.redo = nil
	m.open = nil
	m.held = false
	m.frozen = false
	logger.DebugTagf("history", "History: Reset.")
	m.notifyStack()
}

// --- Accessors ---

func (m *Manager) CanUndo() bool {
	return !m.frozen && (m.open != nil || len(m.undo) > 0)
}

func (m *Manager) CanRedo() bool {
	return !m.frozen && len(m.redo) > 0
}

func (m *Manager) State() State {
	if m.open != nil {
		return StateRecording
	}
	return StateIdle
}

// Len returns the number of undo steps, counting an open entry.
func (m *Manager) Len() int {
	n := len(m.undo)
	if m.open != nil {
		n++
	}
	return n
}

func (m *Manager) Frozen() bool {
	return m.frozen
}

func (m *Manager) notify(c store.Change) {
	if m.events != nil {
		m.events.Dispatch(event.TypeDocumentChanged, event.DocumentChangedData{Change: c})
	}
}

func (m *Manager) notifyStack() {
	if m.events != nil {
		m.events.Dispatch(event.TypeHistoryChanged, event.HistoryChangedData{
			CanUndo:   m.CanUndo(),
			CanRedo:   m.CanRedo(),
			Recording: m.open != nil,
			Frozen:    m.frozen,
		})
	}
}
