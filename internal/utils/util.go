// Package utils holds small helpers shared by the canvas and the drag engine.
package utils

import (
	"sync"
	"time"
	"unicode/utf8"
)

// RuneIndexToByteOffset converts a rune index in s to a byte offset.
// Returns -1 if runeIndex is past the end.
func RuneIndexToByteOffset(s string, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	current := 0
	for offset := range s {
		if current == runeIndex {
			return offset
		}
		current++
	}
	if current == runeIndex {
		return len(s)
	}
	return -1
}

// InsertRuneAt inserts r before the rune at runeIndex, clamping to the ends.
func InsertRuneAt(s string, runeIndex int, r rune) string {
	off := RuneIndexToByteOffset(s, runeIndex)
	if off < 0 {
		off = len(s)
	}
	return s[:off] + string(r) + s[off:]
}

// DeleteRuneBefore removes the rune before runeIndex and returns the new string
// and cursor.
func DeleteRuneBefore(s string, runeIndex int) (string, int) {
	if runeIndex <= 0 {
		return s, 0
	}
	if n := utf8.RuneCountInString(s); runeIndex > n {
		runeIndex = n
	}
	start := RuneIndexToByteOffset(s, runeIndex-1)
	end := RuneIndexToByteOffset(s, runeIndex)
	return s[:start] + s[end:], runeIndex - 1
}

// Debouncer runs the last scheduled function once the calls stop for a duration.
type Debouncer struct {
	mutex sync.Mutex
	timer *time.Timer
}

// Debounce schedules fn after duration, cancelling any pending call. fn runs on
// the timer's goroutine.
func (d *Debouncer) Debounce(duration time.Duration, fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(duration, func() {
		d.mutex.Lock()
		d.timer = nil
		d.mutex.Unlock()
		fn()
	})
}

// Stop cancels a pending call. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}
