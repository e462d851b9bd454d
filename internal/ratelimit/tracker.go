package ratelimit

import (
	"sync"
	"time"
)

// Tracker bounds how often one challenger may be accepted inside a
// sliding window. Expired marks are pruned lazily on every read for a
// key; prune-then-count happens under one lock acquisition so two
// concurrent checks for the same challenger cannot both pass when only
// one should.
type Tracker struct {
	mu     sync.Mutex
	window time.Duration
	marks  map[string][]time.Time
	now    func() time.Time
}

// NewTracker returns a tracker whose marks expire after window.
func NewTracker(window time.Duration) *Tracker {
	return &Tracker{
		window: window,
		marks:  make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Record notes one accepted challenge from name.
func (t *Tracker) Record(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.marks[name] = append(t.pruneLocked(name), t.now())
}

// Check prunes expired marks for name and reports whether another
// acceptance is allowed: always when max is nil, otherwise while the
// unexpired count is strictly below *max.
func (t *Tracker) Check(name string, max *int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	live := t.storePruned(name)
	return max == nil || len(live) < *max
}

// Count returns the unexpired mark count for name, pruning first.
func (t *Tracker) Count(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.storePruned(name))
}

// Sweep drops keys whose marks have all expired. Pruning is lazy per
// key, so a challenger that goes quiet would otherwise keep its entry
// until process exit; the owner runs this on a slow ticker.
func (t *Tracker) Sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name := range t.marks {
		t.storePruned(name)
	}
}

func (t *Tracker) storePruned(name string) []time.Time {
	live := t.pruneLocked(name)
	if len(live) == 0 {
		delete(t.marks, name)
	} else {
		t.marks[name] = live
	}
	return live
}

func (t *Tracker) pruneLocked(name string) []time.Time {
	cutoff := t.now().Add(-t.window)
	marks := t.marks[name]
	live := marks[:0]
	for _, ts := range marks {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}
	return live
}
