package utils

import "time"

// Throttle admits at most one call per interval, measured on an injectable
// clock. It never blocks and never spawns goroutines; callers keep the
// suppressed value themselves and flush it later.
type Throttle struct {
	interval time.Duration
	now      func() time.Time
	last     time.Time
	fired    bool
}

// NewThrottle creates a throttle. A nil now uses time.Now; a non-positive
// interval admits every call.
func NewThrottle(interval time.Duration, now func() time.Time) *Throttle {
	if now == nil {
		now = time.Now
	}
	return &Throttle{interval: interval, now: now}
}

// Allow reports whether a call may run now, and if so records it.
func (t *Throttle) Allow() bool {
	return t.AllowAt(t.now())
}

// AllowAt is Allow with an explicit timestamp instead of the clock.
func (t *Throttle) AllowAt(now time.Time) bool {
	if t.fired && t.interval > 0 && now.Sub(t.last) < t.interval {
		return false
	}
	t.fired = true
	t.last = now
	return true
}

// Reset forgets the last admitted call.
func (t *Throttle) Reset() {
	t.fired = false
}
