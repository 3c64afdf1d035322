package tracker

import (
	"reflect"
	"runtime"
	"sync"
	"time"

	"github.com/fllarpy/memory-probe/domain/memory"
)

const (
	// DefaultGracePeriod is the survival threshold for scope-bound objects.
	DefaultGracePeriod = 3 * time.Second
)

type Config struct {
	// GracePeriod overrides DefaultGracePeriod when positive.
	GracePeriod time.Duration
}

// entry is the tracker's record of one registered object. The object itself
// is never referenced from here; liveness arrives as a push signal from a
// runtime cleanup, so tracking exerts no ownership pressure.
type entry struct {
	typeName     string
	lifetime     memory.Lifetime
	registeredAt time.Time
	released     bool
	cleanup      runtime.Cleanup
}

// Tracker registers objects with an expected lifetime and reports the ones
// that outlive it. Objects are keyed by pointer identity and observed through
// a release hook installed with runtime.AddCleanup; only pointer values can
// be tracked, anything else is ignored. Interior pointers are accepted: the
// hook then fires when the enclosing allocation is freed.
//
// All mutation is serialized by one non-reentrant mutex. No callback runs
// while the mutex is held.
type Tracker struct {
	mu      sync.Mutex
	entries map[uintptr]*entry
	grace   time.Duration
}

// NewTracker creates an empty tracker.
func NewTracker(config Config) *Tracker {
	grace := config.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Tracker{
		entries: make(map[uintptr]*entry),
		grace:   grace,
	}
}

// TrackObject registers object under its identity with the given expected
// lifetime. Re-registering the same object replaces the previous entry and
// detaches its hook. Non-pointer and nil values are ignored. The hook never
// interferes with finalizers or cleanups the host attaches to the same
// object.
func (t *Tracker) TrackObject(object any, lifetime memory.Lifetime) {
	key, ptr, ok := identityOf(object)
	if !ok {
		return
	}

	e := &entry{
		typeName:     reflect.TypeOf(object).Elem().String(),
		lifetime:     lifetime,
		registeredAt: time.Now(),
	}
	// The closure captures the entry, not the key; if the address is reused
	// by a later registration the stale hook marks only its own entry. It
	// must not capture the object itself, or the object would never become
	// unreachable.
	e.cleanup = runtime.AddCleanup(ptr, func(struct{}) {
		t.markReleased(key, e)
	}, struct{}{})

	t.mu.Lock()
	prev := t.entries[key]
	t.entries[key] = e
	t.mu.Unlock()

	if prev != nil {
		prev.cleanup.Stop()
	}
}

// RemoveTracking deletes the registration for object, reporting whether it
// was present. The release hook is detached so the object behaves as if it
// had never been tracked.
func (t *Tracker) RemoveTracking(object any) bool {
	key, _, ok := identityOf(object)
	if !ok {
		return false
	}

	t.mu.Lock()
	e, present := t.entries[key]
	delete(t.entries, key)
	t.mu.Unlock()

	if present {
		e.cleanup.Stop()
	}
	return present
}

// CheckForLeaks purges entries whose object is already unreachable, then
// reports every remaining entry that has exceeded its lifetime threshold:
// the grace period for scope-bound objects, the declared duration for
// time-bound ones. A surviving object is reported on every call until it is
// removed or released.
func (t *Tracker) CheckForLeaks() []memory.LeakReport {
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.purgeLocked()

	var reports []memory.LeakReport
	for _, e := range t.entries {
		threshold := t.grace
		if e.lifetime.Kind == memory.LifetimeTimeBound {
			threshold = e.lifetime.Duration
		}
		if now.Sub(e.registeredAt) > threshold {
			reports = append(reports, memory.LeakReport{
				ObjectType:     e.typeName,
				SuspectedCount: 1,
				DetectedAt:     now,
			})
		}
	}
	return reports
}

// PurgeReleasedObjects removes entries whose object has been collected. It is
// intended as periodic housekeeping to bound the tracker's own footprint.
func (t *Tracker) PurgeReleasedObjects() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.purgeLocked()
}

// TrackedCount reports the number of live registrations, including entries
// whose release has been signalled but not yet purged.
func (t *Tracker) TrackedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *Tracker) purgeLocked() {
	for key, e := range t.entries {
		if e.released {
			delete(t.entries, key)
		}
	}
}

// markReleased is invoked from the cleanup goroutine once the object has
// become unreachable.
func (t *Tracker) markReleased(key uintptr, e *entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.entries[key] == e {
		e.released = true
	}
}

// identityOf maps an object to its pointer identity. Only non-nil pointers
// are trackable.
func identityOf(object any) (uintptr, *byte, bool) {
	v := reflect.ValueOf(object)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return 0, nil, false
	}
	return v.Pointer(), (*byte)(v.UnsafePointer()), true
}
