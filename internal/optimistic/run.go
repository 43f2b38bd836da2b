// Package optimistic applies user edits to the local cache first and makes
// them durable second, rolling the cache back when the write fails.
package optimistic

import (
	"github.com/julianstephens/dailyos/internal/cache"
)

// Result is the outcome of one optimistic mutation. A zero Result is success.
type Result struct {
	Err        error
	RolledBack bool
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Patch is the optimistic delta for one cache entry. Apply receives the
// current value (present is false when the key is not cached) and returns the
// value to store; returning false leaves the entry untouched.
type Patch struct {
	Key   cache.Key
	Apply func(old any, present bool) (next any, ok bool)
}

// PatchOf builds a Patch that only touches an entry already cached as a T.
func PatchOf[T any](key cache.Key, apply func(T) T) Patch {
	return Patch{
		Key: key,
		Apply: func(old any, present bool) (any, bool) {
			if !present {
				return nil, false
			}
			v, ok := old.(T)
			if !ok {
				return nil, false
			}
			return apply(v), true
		},
	}
}

// Run snapshots every patched key, applies the patches, then calls commit.
// If commit fails each key is restored to its exact snapshot. Runs touching
// the same keys are queued behind one another.
func Run(store *cache.Store, commit func() error, patches ...Patch) Result {
	keys := make([]cache.Key, len(patches))
	for i, p := range patches {
		keys[i] = p.Key
	}
	unlock := store.LockKeys(keys...)
	defer unlock()

	snaps := make([]cache.Snapshot, len(patches))
	for i, p := range patches {
		snaps[i] = store.Snapshot(p.Key)
		if next, ok := p.Apply(snaps[i].Value, snaps[i].Present); ok {
			store.Set(p.Key, next)
		}
	}

	if err := commit(); err != nil {
		for i := len(snaps) - 1; i >= 0; i-- {
			store.Restore(snaps[i])
		}
		return Result{Err: err, RolledBack: true}
	}
	return Result{}
}

// RunOptimistic is Run for a single key whose value is a T. apply is called
// with ok false when nothing usable is cached yet.
func RunOptimistic[T any](store *cache.Store, key cache.Key, apply func(old T, ok bool) T, commit func() error) Result {
	return Run(store, commit, Patch{
		Key: key,
		Apply: func(old any, present bool) (any, bool) {
			v, ok := old.(T)
			return apply(v, present && ok), true
		},
	})
}
