package optimistic

import (
	"sync"
	"time"
)

// TextField is the local state of one free-text input that autosaves.
//
// editing is tracked separately from value != server: while the user is
// typing, server refreshes are ignored even when they happen to match, and
// editing only clears once the value on screen is the value that was saved.
type TextField struct {
	key       string
	delay     time.Duration
	debouncer *Debouncer
	save      func(value string) error
	onResult  func(value string, err error)

	// writing serializes commits so an older value can never land after a
	// newer one.
	writing sync.Mutex

	mu      sync.Mutex
	value   string
	server  string
	editing bool
}

// NewTextField starts with initial as both the shown and the server value.
// save performs the durable write; onResult, if set, is told about every
// attempted write.
func NewTextField(key, initial string, debouncer *Debouncer, delay time.Duration, save func(string) error, onResult func(string, error)) *TextField {
	return &TextField{
		key:       key,
		delay:     delay,
		debouncer: debouncer,
		save:      save,
		onResult:  onResult,
		value:     initial,
		server:    initial,
	}
}

func (f *TextField) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *TextField) Editing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editing
}

// Dirty reports whether the shown value differs from the last saved one.
func (f *TextField) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value != f.server
}

// Edit records a keystroke and restarts the autosave countdown.
func (f *TextField) Edit(value string) {
	f.mu.Lock()
	f.value = value
	f.editing = true
	f.mu.Unlock()

	f.debouncer.Schedule(f.key, f.delay, func() { _ = f.commit() })
}

// Refresh adopts a value from the server unless the user is editing.
// It reports whether the value was taken.
func (f *TextField) Refresh(server string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editing {
		return false
	}
	f.value, f.server = server, server
	return true
}

// Save writes value immediately, dropping any pending autosave. If an
// autosave is already being written, Save waits for it and then writes.
func (f *TextField) Save(value string) error {
	f.debouncer.Cancel(f.key)
	f.mu.Lock()
	f.value = value
	f.editing = true
	f.mu.Unlock()
	return f.commit()
}

// Flush runs a pending autosave now. It reports whether one was pending.
func (f *TextField) Flush() bool {
	return f.debouncer.Flush(f.key)
}

func (f *TextField) commit() error {
	f.writing.Lock()
	defer f.writing.Unlock()

	f.mu.Lock()
	value := f.value
	if value == f.server {
		f.editing = false
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()

	err := f.save(value)

	f.mu.Lock()
	if err == nil {
		f.server = value
		// More typing may have arrived during the write.
		if f.value == value {
			f.editing = false
		}
	}
	f.mu.Unlock()

	if f.onResult != nil {
		f.onResult(value, err)
	}
	return err
}
