package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
)

// Change describes one committed mutation. Rev increases by one for every
// commit of the same key, so consumers can drop stale notifications.
type Change[S any] struct {
	Key    string
	Rev    uint64
	Action string
	State  S
}

// Listener is notified after a committed change.
type Listener[S any] func(change Change[S])

// ActionReset tags the change produced by Reset.
const ActionReset = "reset"

// Eviction defaults used by the store modules. An evicted session is
// reloaded from its stored snapshot on next access.
const (
	DefaultIdleTimeout      = 30 * time.Minute
	DefaultEvictionInterval = time.Minute
)

type entry[S any] struct {
	mu     sync.Mutex
	loaded bool
	rev    uint64
	state  S

	// guarded by Container.mu
	users    int
	lastUsed time.Time
}

// Container holds the state of one store slice for every session.
//
// Each key has its own critical section: the first access loads the stored
// snapshot, and every mutation runs the reducer, commits the new document
// and only then publishes it in memory. Listeners run after the lock is
// released.
type Container[S any] struct {
	slice   string
	store   Store
	initial func() S

	mu      sync.Mutex
	entries map[string]*entry[S]
	now     func() time.Time

	lmu       sync.RWMutex
	listeners map[int]Listener[S]
	nextID    int
}

// NewContainer creates a Container for slice. initial builds the state used
// for keys without a snapshot and for malformed snapshots.
func NewContainer[S any](slice string, store Store, initial func() S) *Container[S] {
	return &Container[S]{
		slice:     slice,
		store:     store,
		initial:   initial,
		entries:   make(map[string]*entry[S]),
		now:       time.Now,
		listeners: make(map[int]Listener[S]),
	}
}

// Slice returns the slice name.
func (c *Container[S]) Slice() string {
	return c.slice
}

// Get returns the current state for key, loading it on first access.
func (c *Container[S]) Get(ctx context.Context, key string) (S, error) {
	e := c.acquire(key)
	defer c.release(e)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := c.load(ctx, key, e); err != nil {
		var zero S
		return zero, err
	}
	return e.state, nil
}

// Update applies mutate to the state for key and commits the result. When
// the commit fails the previous state is kept and an error wrapping
// ErrCommitFailed is returned together with that previous state.
func (c *Container[S]) Update(ctx context.Context, key string, mutate func(S) S) (S, error) {
	return c.Apply(ctx, key, "update", mutate)
}

// Apply is Update with an action name passed on to listeners.
func (c *Container[S]) Apply(ctx context.Context, key, action string, mutate func(S) S) (S, error) {
	e := c.acquire(key)
	defer c.release(e)
	e.mu.Lock()

	if err := c.load(ctx, key, e); err != nil {
		e.mu.Unlock()
		var zero S
		return zero, err
	}

	prev := e.state
	next := mutate(prev)
	if err := c.commit(ctx, key, next); err != nil {
		e.mu.Unlock()
		return prev, err
	}
	e.state = next
	e.rev++
	rev := e.rev
	e.mu.Unlock()

	c.notify(Change[S]{Key: key, Rev: rev, Action: action, State: next})
	return next, nil
}

// Reset deletes the stored snapshot for key and returns it to the initial
// state.
func (c *Container[S]) Reset(ctx context.Context, key string) (S, error) {
	e := c.acquire(key)
	defer c.release(e)
	e.mu.Lock()

	if err := c.store.Delete(ctx, key); err != nil {
		e.mu.Unlock()
		commitTotal.WithLabelValues(c.slice, "error").Inc()
		var zero S
		return zero, fmt.Errorf("%w: %s/%s: %v", ErrCommitFailed, c.slice, key, err)
	}
	commitTotal.WithLabelValues(c.slice, "deleted").Inc()
	e.state = c.initial()
	e.loaded = true
	e.rev++
	rev := e.rev
	state := e.state
	e.mu.Unlock()

	c.notify(Change[S]{Key: key, Rev: rev, Action: ActionReset, State: state})
	return state, nil
}

// Forget drops the in-memory copy of key unless a call on it is in
// flight. The stored snapshot is kept and will be loaded again on next
// access.
func (c *Container[S]) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && e.users == 0 {
		c.drop(key)
	}
}

// Evict drops every entry that has not been used for longer than idle and
// reports how many were dropped. Entries with a call in flight are kept.
func (c *Container[S]) Evict(idle time.Duration) int {
	cutoff := c.now().Add(-idle)
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key, e := range c.entries {
		if e.users == 0 && e.lastUsed.Before(cutoff) {
			c.drop(key)
			n++
		}
	}
	return n
}

// RunEviction calls Evict every interval until ctx is done.
func (c *Container[S]) RunEviction(ctx context.Context, idle, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Evict(idle); n > 0 {
				log.Printf("[snapshot] Evicted %d idle %s sessions", n, c.slice)
			}
		}
	}
}

// Len returns the number of sessions held in memory.
func (c *Container[S]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the sessions held in memory, in no particular order.
func (c *Container[S]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Subscribe registers l for committed changes and returns a function that
// removes it.
func (c *Container[S]) Subscribe(l Listener[S]) func() {
	c.lmu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.lmu.Unlock()

	return func() {
		c.lmu.Lock()
		delete(c.listeners, id)
		c.lmu.Unlock()
	}
}

// acquire returns the entry for key and pins it against eviction until
// release is called.
func (c *Container[S]) acquire(key string) *entry[S] {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry[S]{}
		c.entries[key] = e
		activeSessions.WithLabelValues(c.slice).Inc()
	}
	e.users++
	return e
}

func (c *Container[S]) release(e *entry[S]) {
	c.mu.Lock()
	e.users--
	e.lastUsed = c.now()
	c.mu.Unlock()
}

// drop must be called with c.mu held.
func (c *Container[S]) drop(key string) {
	delete(c.entries, key)
	activeSessions.WithLabelValues(c.slice).Dec()
}

// load must be called with e.mu held.
func (c *Container[S]) load(ctx context.Context, key string, e *entry[S]) error {
	if e.loaded {
		return nil
	}

	data, found, err := c.store.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load %s snapshot for %s: %w", c.slice, key, err)
	}

	state := c.initial()
	if found {
		decoded := c.initial()
		if err := json.Unmarshal(data, &decoded); err != nil {
			log.Printf("[snapshot] Malformed %s snapshot for %s, using defaults: %v", c.slice, key, err)
			loadFallbackTotal.WithLabelValues(c.slice).Inc()
		} else {
			state = decoded
		}
	}

	e.state = state
	e.loaded = true
	return nil
}

func (c *Container[S]) commit(ctx context.Context, key string, state S) error {
	data, err := json.Marshal(state)
	if err != nil {
		commitTotal.WithLabelValues(c.slice, "error").Inc()
		return fmt.Errorf("%w: %s/%s: %v", ErrCommitFailed, c.slice, key, err)
	}
	if err := c.store.Save(ctx, key, data); err != nil {
		commitTotal.WithLabelValues(c.slice, "error").Inc()
		log.Printf("[snapshot] Failed to commit %s snapshot for %s: %v", c.slice, key, err)
		return fmt.Errorf("%w: %s/%s: %v", ErrCommitFailed, c.slice, key, err)
	}
	commitTotal.WithLabelValues(c.slice, "ok").Inc()
	return nil
}

func (c *Container[S]) notify(change Change[S]) {
	c.lmu.RLock()
	listeners := make([]Listener[S], 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.lmu.RUnlock()

	for _, l := range listeners {
		l(change)
	}
}
