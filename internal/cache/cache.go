// Package cache is the client-side copy of server data. Views are read
// through registered loaders, written optimistically by the synchronizer, and
// marked stale after confirmed writes so the next read refetches them.
package cache

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/dailyos/internal/logger"
)

// Loader fetches the server value for a key.
type Loader func(key Key) (any, error)

type entry struct {
	value any
	stale bool
}

type prefixLoader struct {
	prefix string
	load   Loader
}

type Store struct {
	mu       sync.RWMutex
	entries  map[Key]*entry
	loaders  map[Key]Loader
	prefixes []prefixLoader
	// writes counts Set/Delete per key so a slow load never overwrites a
	// newer optimistic value.
	writes map[Key]uint64
	// invalidations counts Invalidate calls per key so a load that read the
	// server before a confirmed write is never stored as fresh.
	invalidations map[Key]uint64
	// inflight counts running loads per key, letting InvalidatePrefix fence
	// keys that are not cached yet.
	inflight map[Key]int
	group    singleflight.Group

	lockMu sync.Mutex
	locks  map[Key]*sync.Mutex
}

func New() *Store {
	return &Store{
		entries: make(map[Key]*entry),
		loaders: make(map[Key]Loader),
		writes:        make(map[Key]uint64),
		invalidations: make(map[Key]uint64),
		inflight:      make(map[Key]int),
		locks:         make(map[Key]*sync.Mutex),
	}
}

// Register sets the loader for an exact key.
func (s *Store) Register(key Key, load Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaders[key] = load
}

// RegisterPrefix sets the loader for every key under prefix that has no
// exact loader. The longest matching prefix wins.
func (s *Store) RegisterPrefix(prefix string, load Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefixes = append(s.prefixes, prefixLoader{prefix: prefix, load: load})
	sort.SliceStable(s.prefixes, func(i, j int) bool {
		return len(s.prefixes[i].prefix) > len(s.prefixes[j].prefix)
	})
}

func (s *Store) loaderFor(key Key) Loader {
	if l, ok := s.loaders[key]; ok {
		return l
	}
	for _, p := range s.prefixes {
		if key.HasPrefix(p.prefix) {
			return p.load
		}
	}
	return nil
}

// Get returns the cached value, stale or not.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Stale reports whether key is missing or was invalidated since it was last set.
func (s *Store) Stale(key Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return !ok || e.stale
}

// Set stores a fresh value.
func (s *Store) Set(key Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{value: value}
	s.writes[key]++
}

// Delete drops the entry entirely.
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	s.writes[key]++
}

// Invalidate marks keys stale. Their values stay readable until refetched.
// A load already running for one of the keys cannot store its result as
// fresh, and the next Fetch starts a new load instead of joining it.
func (s *Store) Invalidate(keys ...Key) {
	s.mu.Lock()
	for _, k := range keys {
		s.invalidateLocked(k)
	}
	s.mu.Unlock()

	for _, k := range keys {
		s.group.Forget(string(k))
	}
	logger.Debug("Cache invalidated", "keys", keys)
}

func (s *Store) invalidateLocked(k Key) {
	if e, ok := s.entries[k]; ok {
		e.stale = true
	}
	s.invalidations[k]++
}

// InvalidatePrefix marks every cached key under prefix stale and returns them.
func (s *Store) InvalidatePrefix(prefix string) []Key {
	s.mu.Lock()
	var keys []Key
	for k := range s.entries {
		if k.HasPrefix(prefix) {
			s.invalidateLocked(k)
			keys = append(keys, k)
		}
	}
	var loading []Key
	for k := range s.inflight {
		if _, cached := s.entries[k]; !cached && k.HasPrefix(prefix) {
			s.invalidateLocked(k)
			loading = append(loading, k)
		}
	}
	s.mu.Unlock()

	for _, k := range append(loading, keys...) {
		s.group.Forget(string(k))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	logger.Debug("Cache invalidated by prefix", "prefix", prefix, "keys", len(keys))
	return keys
}

// Keys lists cached keys in order.
func (s *Store) Keys() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]Key, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Snapshot is a restorable copy of one entry, including its absence.
type Snapshot struct {
	Key     Key
	Value   any
	Present bool
	Stale   bool
}

// Snapshot captures key for a later Restore.
func (s *Store) Snapshot(key Key) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Key: key}
	if e, ok := s.entries[key]; ok {
		snap.Value, snap.Present, snap.Stale = e.value, true, e.stale
	}
	return snap
}

// Restore puts the entry back exactly as captured, deleting it if it was absent.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Present {
		s.entries[snap.Key] = &entry{value: snap.Value, stale: snap.Stale}
	} else {
		delete(s.entries, snap.Key)
	}
	s.writes[snap.Key]++
}

// LockKeys serializes writers of the same keys. Keys are locked in sorted
// order so overlapping sets cannot deadlock. The returned func unlocks.
func (s *Store) LockKeys(keys ...Key) func() {
	sorted := append([]Key(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var held []*sync.Mutex
	for i, k := range sorted {
		if i > 0 && k == sorted[i-1] {
			continue
		}
		s.lockMu.Lock()
		m, ok := s.locks[k]
		if !ok {
			m = &sync.Mutex{}
			s.locks[k] = m
		}
		s.lockMu.Unlock()
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// Fetch returns the fresh cached value or loads it. Concurrent fetches of one
// key share a single load.
func (s *Store) Fetch(key Key) (any, error) {
	if v, ok := s.fresh(key); ok {
		return v, nil
	}
	return s.load(key, false)
}

// Refetch loads key even when the cached value is fresh.
func (s *Store) Refetch(key Key) (any, error) {
	return s.load(key, true)
}

func (s *Store) fresh(key Key) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[key]; ok && !e.stale {
		return e.value, true
	}
	return nil, false
}

// load stores the loaded value unless the entry changed while the load was in
// flight. A local write wins outright. An invalidation means the server may
// have moved past what the loader read, so the result is kept only as a stale
// placeholder for an empty entry.
func (s *Store) load(key Key, force bool) (any, error) {
	s.mu.RLock()
	loader := s.loaderFor(key)
	s.mu.RUnlock()
	if loader == nil {
		return nil, fmt.Errorf("no loader registered for %s", key)
	}

	v, err, _ := s.group.Do(string(key), func() (any, error) {
		// A caller that missed the cache may arrive after the previous
		// shared load already stored its result.
		if v, ok := s.fresh(key); ok && !force {
			return v, nil
		}

		s.mu.Lock()
		before, invalidatedBefore := s.writes[key], s.invalidations[key]
		s.inflight[key]++
		s.mu.Unlock()

		value, err := loader(key)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.inflight[key]--; s.inflight[key] <= 0 {
			delete(s.inflight, key)
		}
		if err != nil {
			return nil, err
		}
		if s.writes[key] != before {
			logger.Debug("Discarding load overtaken by a local write", "key", key)
			if e, ok := s.entries[key]; ok {
				return e.value, nil
			}
			return value, nil
		}
		if s.invalidations[key] != invalidatedBefore {
			logger.Debug("Keeping load overtaken by an invalidation stale", "key", key)
			if _, ok := s.entries[key]; !ok {
				s.entries[key] = &entry{value: value, stale: true}
			}
			return value, nil
		}
		s.entries[key] = &entry{value: value}
		return value, nil
	})
	return v, err
}

// Get returns the cached value for key as a T.
func Get[T any](s *Store, key Key) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Fetch is Store.Fetch with the result asserted to T.
func Fetch[T any](s *Store, key Key) (T, error) {
	var zero T
	v, err := s.Fetch(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cached %s holds %T, not %T", key, v, zero)
	}
	return t, nil
}
