// Package cache keeps a confirmed local copy of one remote table.
//
// Every mutation is a single remote round trip supplied by the caller. The
// local state only changes after the remote has confirmed, so a failed call
// leaves no trace. Update and Remove are sequenced per id: while one is in
// flight for an id, any other Update or Remove for that id is rejected.
package cache

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"bibliotech/internal/shared/failure"
)

// EntityCache is an ordered collection of T unique by key.
type EntityCache[T any] struct {
	name string
	key  func(T) string

	mu       sync.RWMutex
	records  []T
	index    map[string]int
	loading  bool
	version  uint64
	inFlight map[string]struct{}
	closed   bool
}

// New returns an empty cache in the loading state. key extracts the identity
// of a record; name is used in logs and failure ops.
func New[T any](name string, key func(T) string) *EntityCache[T] {
	return &EntityCache[T]{
		name:     name,
		key:      key,
		index:    make(map[string]int),
		loading:  true,
		inFlight: make(map[string]struct{}),
	}
}

// Load replaces the whole collection with the result of fetch. On failure the
// previous records are kept. Loading is false afterwards either way.
func (c *EntityCache[T]) Load(ctx context.Context, fetch func(ctx context.Context) ([]T, error)) error {
	records, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		log.Warn().Err(err).Str("cache", c.name).Msg("load failed")
		return failure.Remote(c.name+".load", err)
	}
	if c.closed {
		return nil
	}

	c.records = make([]T, 0, len(records))
	c.index = make(map[string]int, len(records))
	for _, r := range records {
		c.putLocked(r)
	}
	c.version++
	log.Debug().Str("cache", c.name).Int("count", len(c.records)).Msg("loaded")
	return nil
}

// Add calls create and appends the confirmed record. A record whose key is
// already cached replaces the existing entry.
func (c *EntityCache[T]) Add(ctx context.Context, create func(ctx context.Context) (T, error)) (T, error) {
	op := c.name + ".add"
	if c.isClosed() {
		var zero T
		return zero, failure.Closed(op)
	}

	r, err := create(ctx)
	if err != nil {
		var zero T
		log.Warn().Err(err).Str("cache", c.name).Msg("add rejected by remote")
		return zero, failure.Remote(op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return r, nil
	}
	c.putLocked(r)
	c.version++
	log.Debug().Str("cache", c.name).Str("id", c.key(r)).Msg("added")
	return r, nil
}

// Update calls update for id and replaces the cached entry with the returned
// record. If id was removed while the call was in flight the result is
// dropped.
func (c *EntityCache[T]) Update(ctx context.Context, id string, update func(ctx context.Context) (T, error)) (T, error) {
	op := c.name + ".update"
	var zero T
	if err := c.acquire(op, id); err != nil {
		return zero, err
	}
	defer c.release(id)

	r, err := update(ctx)
	if err != nil {
		log.Warn().Err(err).Str("cache", c.name).Str("id", id).Msg("update rejected by remote")
		return zero, failure.Remote(op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok || c.closed {
		log.Debug().Str("cache", c.name).Str("id", id).Msg("update confirmed for uncached record")
		return r, nil
	}
	if newID := c.key(r); newID != id {
		delete(c.index, id)
		c.index[newID] = i
	}
	c.records[i] = r
	c.version++
	log.Debug().Str("cache", c.name).Str("id", id).Msg("updated")
	return r, nil
}

// Remove calls remove for id and deletes the cached entry once confirmed.
func (c *EntityCache[T]) Remove(ctx context.Context, id string, remove func(ctx context.Context) error) error {
	op := c.name + ".remove"
	if err := c.acquire(op, id); err != nil {
		return err
	}
	defer c.release(id)

	if err := remove(ctx); err != nil {
		log.Warn().Err(err).Str("cache", c.name).Str("id", id).Msg("remove rejected by remote")
		return failure.Remote(op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	if i, ok := c.index[id]; ok {
		c.records = slices.Delete(c.records, i, i+1)
		c.reindexLocked()
		c.version++
	}
	log.Debug().Str("cache", c.name).Str("id", id).Msg("removed")
	return nil
}

// Records returns a copy of the cached records in cache order.
func (c *EntityCache[T]) Records() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.records)
}

func (c *EntityCache[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.records[i], true
}

func (c *EntityCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// IsLoading is true from construction until the first Load completes.
func (c *EntityCache[T]) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Version increases on every confirmed change to the records.
func (c *EntityCache[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// InFlight reports whether an update or remove for id is pending.
func (c *EntityCache[T]) InFlight(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.inFlight[id]
	return ok
}

// Close discards the records. Mutations started afterwards fail; results of
// calls already in flight are not applied.
func (c *EntityCache[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.loading = false
	c.records = nil
	c.index = make(map[string]int)
	c.version++
}

func (c *EntityCache[T]) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *EntityCache[T]) acquire(op, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return failure.Closed(op)
	}
	if _, busy := c.inFlight[id]; busy {
		log.Debug().Str("cache", c.name).Str("id", id).Msg("rejected overlapping operation")
		return failure.Conflict(op, failure.ErrInFlight)
	}
	c.inFlight[id] = struct{}{}
	return nil
}

func (c *EntityCache[T]) release(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, id)
}

func (c *EntityCache[T]) putLocked(r T) {
	k := c.key(r)
	if i, ok := c.index[k]; ok {
		c.records[i] = r
		return
	}
	c.index[k] = len(c.records)
	c.records = append(c.records, r)
}

func (c *EntityCache[T]) reindexLocked() {
	clear(c.index)
	for i, r := range c.records {
		c.index[c.key(r)] = i
	}
}
