package util

import (
	"sync"
	"sync/atomic"
)

// SlicePool provides pooling for flat slices keyed by length, to reduce
// allocations when the same image dimensions are processed repeatedly.
type SlicePool[T any] struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex

	// Metrics
	hits        atomic.Int64
	misses      atomic.Int64
	outstanding atomic.Int64
}

// BytePool is the shared pool used for pixel data when no other pool is supplied.
var BytePool = NewSlicePool[byte]()

func NewSlicePool[T any]() *SlicePool[T] {
	return &SlicePool[T]{pools: make(map[int]*sync.Pool)}
}

// Get retrieves a zeroed slice of the given length from the pool or creates a new one.
// Every slice handed out must be given back with Put exactly once.
func (p *SlicePool[T]) Get(size int) []T {
	if size <= 0 {
		return make([]T, 0)
	}
	p.outstanding.Add(1)

	// Fast path: read lock
	p.mu.RLock()
	pool, exists := p.pools[size]
	p.mu.RUnlock()

	if exists {
		if s := pool.Get(); s != nil {
			p.hits.Add(1)
			return s.([]T)
		}
	} else {
		// Slow path: create new pool
		p.mu.Lock()
		// Double-check after acquiring write lock
		if _, exists = p.pools[size]; !exists {
			p.pools[size] = &sync.Pool{}
		}
		p.mu.Unlock()
	}

	p.misses.Add(1)
	return make([]T, size)
}

// Put returns a slice to the pool after clearing it
func (p *SlicePool[T]) Put(s []T) {
	if len(s) == 0 {
		return
	}
	p.outstanding.Add(-1)

	p.mu.RLock()
	pool, exists := p.pools[len(s)]
	p.mu.RUnlock()

	if exists {
		clear(s)
		pool.Put(s)
	}
}

// GetMetrics returns pool usage statistics
func (p *SlicePool[T]) GetMetrics() (hits, misses int64) {
	return p.hits.Load(), p.misses.Load()
}

// Outstanding returns how many slices have been handed out by Get and not yet returned.
func (p *SlicePool[T]) Outstanding() int64 {
	return p.outstanding.Load()
}
