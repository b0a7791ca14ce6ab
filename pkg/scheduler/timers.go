package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry struct {
	timer clockwork.Timer
	at    time.Time
}

// Timers owns one cancellable one-shot task per ticket id.
type Timers struct {
	clock clockwork.Clock

	mu      sync.Mutex
	pending map[string]*entry
}

// NewTimers creates a Timers driven by clock.
func NewTimers(clock clockwork.Clock) *Timers {
	return &Timers{
		clock:   clock,
		pending: make(map[string]*entry),
	}
}

// Schedule runs fn once at at. Scheduling an id that is already pending
// replaces the earlier task. A time in the past fires immediately.
func (t *Timers) Schedule(id string, at time.Time, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.pending[id]; ok {
		old.timer.Stop()
	}

	e := &entry{at: at}
	e.timer = t.clock.AfterFunc(at.Sub(t.clock.Now()), func() {
		t.mu.Lock()
		current, ok := t.pending[id]
		if !ok || current != e {
			t.mu.Unlock()
			return
		}
		delete(t.pending, id)
		t.mu.Unlock()

		fn()
	})
	t.pending[id] = e
}

// Cancel stops the pending task for id. It reports whether one was pending.
func (t *Timers) Cancel(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.pending[id]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(t.pending, id)
	return true
}

// Pending returns the ids with a task that has not fired yet, sorted.
func (t *Timers) Pending() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.pending))
	for id := range t.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stop cancels every pending task.
func (t *Timers) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, e := range t.pending {
		e.timer.Stop()
		delete(t.pending, id)
	}
}

// Tick calls fn every interval until ctx is done. It blocks.
func (t *Timers) Tick(ctx context.Context, interval time.Duration, fn func(now time.Time)) {
	ticker := t.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.Chan():
			fn(now)
		}
	}
}
