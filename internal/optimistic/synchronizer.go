package optimistic

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/dailyos/internal/cache"
	"github.com/julianstephens/dailyos/internal/constants"
	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/models"
)

// Backend performs the durable writes behind each intent.
type Backend interface {
	ToggleChecklistItem(userID, itemID string, done bool) (models.ChecklistItem, error)
	SetTodayWorkUnit(userID, workUnitID string) (models.Day, error)
	SaveDailyIntent(userID, dayID, intent string) (models.Day, error)
	SaveHorizon(userID, dayID string, horizon models.HorizonType, content string) (models.Day, error)
}

type EventKind int

const (
	// EventError reports a write that failed and was rolled back.
	EventError EventKind = iota
	// EventInvalidated lists cached views that are now stale and should be refetched.
	EventInvalidated
	// EventSaved reports a confirmed text-field save.
	EventSaved
)

// Event is a notification for the UI. Nothing sent here is fatal.
type Event struct {
	Kind   EventKind
	Intent string
	Err    error
	Keys   []cache.Key
}

// Message is the transient line shown to the user.
func (e Event) Message() string {
	switch e.Kind {
	case EventError:
		return fmt.Sprintf("Failed to %s: %v", e.Intent, e.Err)
	case EventSaved:
		return "Saved"
	}
	return ""
}

type Option func(*Synchronizer)

// WithClock replaces the timer source used for autosave.
func WithClock(c Clock) Option {
	return func(s *Synchronizer) { s.clock = c }
}

// WithAutosaveDelay replaces the quiet period before a text field is written.
func WithAutosaveDelay(d time.Duration) Option {
	return func(s *Synchronizer) { s.delay = d }
}

// Synchronizer exposes the named mutation intents of the Today screen.
type Synchronizer struct {
	store   *cache.Store
	backend Backend
	userID  string
	clock   Clock
	delay   time.Duration

	debouncer *Debouncer
	events    chan Event

	mu     sync.Mutex
	fields map[string]*TextField
}

func NewSynchronizer(store *cache.Store, backend Backend, userID string, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:   store,
		backend: backend,
		userID:  userID,
		clock:   RealClock,
		delay:   constants.AutosaveDelay,
		events:  make(chan Event, 64),
		fields:  make(map[string]*TextField),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.debouncer = NewDebouncer(s.clock)
	return s
}

// Events delivers errors, invalidations and save confirmations.
func (s *Synchronizer) Events() <-chan Event {
	return s.events
}

func (s *Synchronizer) emit(e Event) {
	select {
	case s.events <- e:
	default:
		logger.Warn("Dropping synchronizer event, queue full", "kind", e.Kind, "intent", e.Intent)
	}
}

func (s *Synchronizer) fail(intent string, res Result) Result {
	if !res.OK() {
		logger.Warn("Optimistic update rolled back", "intent", intent, "error", res.Err)
		s.emit(Event{Kind: EventError, Intent: intent, Err: res.Err})
	}
	return res
}

func (s *Synchronizer) invalidate(keys []cache.Key, prefixes ...string) {
	s.store.Invalidate(keys...)
	for _, p := range prefixes {
		keys = append(keys, s.store.InvalidatePrefix(p)...)
	}
	s.emit(Event{Kind: EventInvalidated, Keys: keys})
}

// ToggleItem marks a checklist item done or not done.
func (s *Synchronizer) ToggleItem(itemID string, done bool) Result {
	toggle := func(w models.WorkUnitWithChecklist) models.WorkUnitWithChecklist {
		for i, item := range w.ChecklistItems {
			if item.ID == itemID {
				items := append([]models.ChecklistItem(nil), w.ChecklistItems...)
				items[i].IsDone = done
				w.ChecklistItems = items
				break
			}
		}
		return w
	}

	patches := []Patch{
		PatchOf(cache.WorkUnitsActiveWithChecklists, func(list []models.WorkUnitWithChecklist) []models.WorkUnitWithChecklist {
			out := make([]models.WorkUnitWithChecklist, len(list))
			for i, w := range list {
				out[i] = toggle(w)
			}
			return out
		}),
	}
	for _, k := range s.store.Keys() {
		if k.HasPrefix(cache.WorkUnitDetailPrefix) {
			patches = append(patches, PatchOf(k, toggle))
		}
	}

	var owner string
	res := Run(s.store, func() error {
		item, err := s.backend.ToggleChecklistItem(s.userID, itemID, done)
		owner = item.WorkUnitID
		return err
	}, patches...)
	if !res.OK() {
		return s.fail("update checklist item", res)
	}

	s.invalidate([]cache.Key{cache.WorkUnitDetail(owner), cache.WorkUnitsActiveWithCounts, cache.WorkUnitsActiveWithChecklists})
	return res
}

// SetTodayWorkUnit switches today's focus. An empty id clears it.
func (s *Synchronizer) SetTodayWorkUnit(workUnitID string) Result {
	unit := s.cachedWorkUnit(workUnitID)

	res := Run(s.store, func() error {
		_, err := s.backend.SetTodayWorkUnit(s.userID, workUnitID)
		return err
	}, PatchOf(cache.TodayDay, func(d models.DayDetails) models.DayDetails {
		d = d.Clone()
		if workUnitID == "" {
			d.SelectedWorkUnitID, d.WorkUnit = nil, nil
			return d
		}
		id := workUnitID
		d.SelectedWorkUnitID = &id
		d.WorkUnit = unit
		return d
	}))
	if !res.OK() {
		return s.fail("set today's work unit", res)
	}

	// The switch changes counts, checklists and both aggregates, none of
	// which live in the patched day.
	s.invalidate([]cache.Key{cache.TodayDay, cache.TodayStreaks, cache.TodayMomentum}, cache.WorkUnitsPrefix)
	return res
}

// cachedWorkUnit finds the unit in any cached work-unit view so the patched
// day can show its title before the server answers.
func (s *Synchronizer) cachedWorkUnit(id string) *models.WorkUnit {
	if id == "" {
		return nil
	}
	if w, ok := cache.Get[models.WorkUnitWithChecklist](s.store, cache.WorkUnitDetail(id)); ok {
		return &w.WorkUnit
	}
	if list, ok := cache.Get[[]models.WorkUnitWithChecklist](s.store, cache.WorkUnitsActiveWithChecklists); ok {
		for _, w := range list {
			if w.ID == id {
				wu := w.WorkUnit
				return &wu
			}
		}
	}
	if list, ok := cache.Get[[]models.WorkUnit](s.store, cache.WorkUnitsList); ok {
		for _, wu := range list {
			if wu.ID == id {
				return &wu
			}
		}
	}
	return nil
}

func intentFieldKey(dayID string) string {
	return "intent/" + dayID
}

func horizonFieldKey(dayID string, h models.HorizonType) string {
	return "horizon/" + string(h) + "/" + dayID
}

func (s *Synchronizer) field(key, initial string, save func(string) error) *TextField {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fields[key]; ok {
		return f
	}
	f := NewTextField(key, initial, s.debouncer, s.delay, save, func(_ string, err error) {
		if err == nil {
			s.emit(Event{Kind: EventSaved, Intent: key})
		}
	})
	s.fields[key] = f
	return f
}

func (s *Synchronizer) cachedDay(dayID string) (models.DayDetails, bool) {
	d, ok := cache.Get[models.DayDetails](s.store, cache.TodayDay)
	if !ok || d.ID != dayID {
		return models.DayDetails{}, false
	}
	return d, true
}

// IntentField returns the autosaving field for the day's intent.
func (s *Synchronizer) IntentField(dayID string) *TextField {
	d, _ := s.cachedDay(dayID)
	return s.field(intentFieldKey(dayID), d.DailyIntent, func(text string) error {
		return s.saveIntent(dayID, text)
	})
}

// HorizonField returns the autosaving field for one of the day's horizons.
func (s *Synchronizer) HorizonField(dayID string, h models.HorizonType) *TextField {
	d, _ := s.cachedDay(dayID)
	return s.field(horizonFieldKey(dayID, h), d.Horizon(h), func(text string) error {
		return s.saveHorizon(dayID, h, text)
	})
}

// EditIntent records typing in the intent field; the write follows after
// the autosave delay.
func (s *Synchronizer) EditIntent(dayID, text string) {
	s.IntentField(dayID).Edit(text)
}

// SaveIntent writes the intent now.
func (s *Synchronizer) SaveIntent(dayID, text string) error {
	return s.IntentField(dayID).Save(text)
}

func (s *Synchronizer) EditHorizon(dayID string, h models.HorizonType, text string) {
	s.HorizonField(dayID, h).Edit(text)
}

func (s *Synchronizer) SaveHorizon(dayID string, h models.HorizonType, text string) error {
	return s.HorizonField(dayID, h).Save(text)
}

func (s *Synchronizer) saveIntent(dayID, text string) error {
	res := Run(s.store, func() error {
		_, err := s.backend.SaveDailyIntent(s.userID, dayID, text)
		return err
	}, PatchOf(cache.TodayDay, func(d models.DayDetails) models.DayDetails {
		if d.ID != dayID {
			return d
		}
		d = d.Clone()
		d.DailyIntent = text
		return d
	}))
	return s.fail("save intent", res).Err
}

func (s *Synchronizer) saveHorizon(dayID string, h models.HorizonType, text string) error {
	res := Run(s.store, func() error {
		_, err := s.backend.SaveHorizon(s.userID, dayID, h, text)
		return err
	}, PatchOf(cache.TodayDay, func(d models.DayDetails) models.DayDetails {
		if d.ID != dayID {
			return d
		}
		d = d.Clone()
		d.Day = d.Day.WithHorizon(h, text)
		return d
	}))
	return s.fail("save "+string(h)+" horizon", res).Err
}

// RefreshFields offers a freshly loaded day to its text fields. Fields the
// user is editing keep their text.
func (s *Synchronizer) RefreshFields(day models.Day) {
	s.mu.Lock()
	intent := s.fields[intentFieldKey(day.ID)]
	horizons := make(map[models.HorizonType]*TextField)
	for _, h := range models.HorizonTypes {
		if f, ok := s.fields[horizonFieldKey(day.ID, h)]; ok {
			horizons[h] = f
		}
	}
	s.mu.Unlock()

	if intent != nil {
		intent.Refresh(day.DailyIntent)
	}
	for h, f := range horizons {
		f.Refresh(day.Horizon(h))
	}
}

// Flush writes every pending text edit now.
func (s *Synchronizer) Flush() {
	s.debouncer.FlushAll()
}

// Close flushes pending edits and stops the autosave timers.
func (s *Synchronizer) Close() {
	s.debouncer.FlushAll()
	s.debouncer.Stop()
}
