// Package sessions tracks in-flight voice sessions so shutdown can notify,
// wait for, or cancel them.
package sessions

import (
	"context"
	"sync"
)

// Handle is what a live session exposes to the tracker. Notify tells the
// client the relay is going away; Cancel tears the relay down.
type Handle struct {
	Cancel func()
	Notify func(message string) error
}

type Tracker struct {
	mu     sync.Mutex
	active map[string]*entry
	wg     sync.WaitGroup
}

type entry struct {
	handle Handle
	once   sync.Once
}

func NewTracker() *Tracker {
	return &Tracker{active: make(map[string]*entry)}
}

// Register adds a session under id and returns its unregister func.
// Unregister is idempotent. Registering an id twice evicts the old entry.
func (t *Tracker) Register(id string, h Handle) (unregister func()) {
	if t == nil {
		return func() {}
	}

	e := &entry{handle: h}

	t.mu.Lock()
	if t.active == nil {
		t.active = make(map[string]*entry)
	}
	old := t.active[id]
	t.active[id] = e
	t.wg.Add(1)
	t.mu.Unlock()

	if old != nil {
		t.unregister(id, old)
	}

	return func() { t.unregister(id, e) }
}

func (t *Tracker) unregister(id string, e *entry) {
	if t == nil || e == nil {
		return
	}
	e.once.Do(func() {
		t.mu.Lock()
		if t.active != nil && t.active[id] == e {
			delete(t.active, id)
		}
		t.mu.Unlock()
		t.wg.Done()
	})
}

func (t *Tracker) Count() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

// NotifyAll sends message to every tracked session, outside the lock so a
// stuck client write cannot block registration.
func (t *Tracker) NotifyAll(message string) (sent int) {
	if t == nil {
		return 0
	}

	var notifies []func(message string) error
	t.mu.Lock()
	for _, e := range t.active {
		if e == nil || e.handle.Notify == nil {
			continue
		}
		notifies = append(notifies, e.handle.Notify)
	}
	t.mu.Unlock()

	for _, notify := range notifies {
		_ = notify(message)
		sent++
	}
	return sent
}

func (t *Tracker) CancelAll() (canceled int) {
	if t == nil {
		return 0
	}

	var cancels []func()
	t.mu.Lock()
	for _, e := range t.active {
		if e == nil || e.handle.Cancel == nil {
			continue
		}
		cancels = append(cancels, e.handle.Cancel)
	}
	t.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
		canceled++
	}
	return canceled
}

// Wait blocks until every registered session unregisters, or ctx ends.
// It reports whether all sessions drained.
func (t *Tracker) Wait(ctx context.Context) bool {
	if t == nil {
		return true
	}
	if ctx == nil {
		t.wg.Wait()
		return true
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		t.wg.Wait()
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
