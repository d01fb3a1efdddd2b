// Package history records store changes as reversible entries and provides
// undo/redo with same-kind coalescing.
package history

import (
	"time"

	"github.com/bethropolis/blox/internal/core/store"
)

// State reports whether an entry is open.
type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	if s == StateRecording {
		return "recording"
	}
	return "idle"
}

// Entry is one undo step: an ordered run of changes of the same kind.
type Entry struct {
	Kind    store.Kind
	Changes []store.Change
}

const (
	DefaultMaxEntries     = 100
	DefaultCoalesceWindow = time.Second
)

// Config tunes the manager. Zero values select the defaults; a negative
// CoalesceWindow disables the window so only Commit and kind changes close entries.
type Config struct {
	MaxEntries     int
	CoalesceWindow time.Duration
	Now            func() time.Time
}
