package optimistic

import (
	"sort"
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer uses.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests swap in a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is backed by the time package.
var RealClock Clock = realClock{}

type pendingCall struct {
	id    uint64
	timer Timer
	fn    func()
}

// Debouncer runs at most one pending callback per key. Scheduling again
// before the delay elapses cancels the earlier callback and restarts the wait.
type Debouncer struct {
	clock Clock

	mu      sync.Mutex
	seq     uint64
	pending map[string]*pendingCall
}

func NewDebouncer(clock Clock) *Debouncer {
	if clock == nil {
		clock = RealClock
	}
	return &Debouncer{clock: clock, pending: make(map[string]*pendingCall)}
}

func (d *Debouncer) Schedule(key string, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}
	d.seq++
	call := &pendingCall{id: d.seq, fn: fn}
	call.timer = d.clock.AfterFunc(delay, func() { d.fire(key, call.id) })
	d.pending[key] = call
}

// fire ignores timers that were replaced after they had already started firing.
func (d *Debouncer) fire(key string, id uint64) {
	d.mu.Lock()
	call, ok := d.pending[key]
	if !ok || call.id != id {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	call.fn()
}

func (d *Debouncer) take(key string) *pendingCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	call, ok := d.pending[key]
	if !ok {
		return nil
	}
	call.timer.Stop()
	delete(d.pending, key)
	return call
}

// Pending reports whether key has a callback waiting.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Cancel drops the pending callback for key without running it.
func (d *Debouncer) Cancel(key string) bool {
	return d.take(key) != nil
}

// Flush runs the pending callback for key now, on the caller's goroutine.
func (d *Debouncer) Flush(key string) bool {
	call := d.take(key)
	if call == nil {
		return false
	}
	call.fn()
	return true
}

// FlushAll runs every pending callback, in key order.
func (d *Debouncer) FlushAll() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for k := range d.pending {
		keys = append(keys, k)
	}
	d.mu.Unlock()

	sort.Strings(keys)
	for _, k := range keys {
		d.Flush(k)
	}
}

// Stop cancels everything pending.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, call := range d.pending {
		call.timer.Stop()
		delete(d.pending, k)
	}
}
