// File: pool/pool.go
// Package pool implements size-classed storage pooling for buffer nodes.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync"

	"github.com/momentics/bufq/api"
)

// Predefined (power-of-two) block size classes (bytes).
// This table can be tuned for deployment needs.
var sizeClasses = [...]int{
	2 * 1024,        // 2K
	4 * 1024,        // 4K
	8 * 1024,        // 8K
	16 * 1024,       // 16K
	32 * 1024,       // 32K
	64 * 1024,       // 64K
	128 * 1024,      // 128K
	256 * 1024,      // 256K
	512 * 1024,      // 512K
	1 * 1024 * 1024, // 1M
}

// sizeClassUpperBound returns the smallest class >= requested size,
// or 0 when the request exceeds the largest class.
func sizeClassUpperBound(size int) int {
	for _, c := range sizeClasses {
		if size <= c {
			return c
		}
	}
	return 0
}

// Manager routes allocation requests to per-class slab pools.
type Manager struct {
	mu      sync.RWMutex
	class   map[int]*slabPool // maps size class -> slab pool
	freeCap int
}

// Option customizes Manager initialization.
type Option func(*Manager)

// WithFreeListCapacity overrides the per-class free list capacity.
func WithFreeListCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.freeCap = n
		}
	}
}

// NewManager creates a manager with lazily allocated per-class pools.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		class:   make(map[int]*slabPool),
		freeCap: defaultFreeListCapacity,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns a block with capacity of at least size bytes. Requests
// beyond the largest class are served directly from the platform
// allocator and are not pooled on return.
func (m *Manager) Get(size int) []byte {
	if size < 0 {
		panic("pool: negative block size")
	}
	clz := sizeClassUpperBound(size)
	if clz == 0 {
		return allocBlock(size)
	}
	return m.getOrCreatePool(clz).get()
}

// Put returns a block to its class pool. Blocks whose capacity does not
// match a class exactly (oversized direct allocations, foreign slices)
// are handed back to the platform allocator.
func (m *Manager) Put(block []byte) {
	if block == nil {
		return
	}
	clz := cap(block)
	m.mu.RLock()
	sp, ok := m.class[clz]
	m.mu.RUnlock()
	if !ok {
		releaseBlock(block)
		return
	}
	sp.put(block)
}

// Stats aggregates counters across all class pools.
func (m *Manager) Stats() api.AllocStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := api.AllocStats{ClassStats: make(map[int]int64, len(m.class))}
	for clz, sp := range m.class {
		alloc, free := sp.counters()
		out.TotalAlloc += alloc
		out.TotalFree += free
		out.ClassStats[clz] = alloc - free
	}
	out.InUse = out.TotalAlloc - out.TotalFree
	return out
}

// getOrCreatePool returns the subpool for a class, lazily allocating on
// first use.
func (m *Manager) getOrCreatePool(class int) *slabPool {
	m.mu.RLock()
	sp, ok := m.class[class]
	m.mu.RUnlock()
	if ok {
		return sp
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if sp, ok = m.class[class]; ok {
		return sp
	}
	sp = newSlabPool(class, m.freeCap)
	m.class[class] = sp
	return sp
}

var _ api.Allocator = (*Manager)(nil)

var (
	defaultOnce sync.Once
	defaultMgr  *Manager
)

// Default returns a process-wide Manager so all components reuse the
// same class pools instead of fragmenting allocations.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultMgr = NewManager()
	})
	return defaultMgr
}
