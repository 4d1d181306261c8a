// File: pool/slab.go
// Package pool implements slab allocation with size class support.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

const defaultFreeListCapacity = 4096

// slabPool: fixed-size block allocation for one size class.
// Recycled blocks are kept in a FIFO so the coldest block is reused
// first, which keeps mmap-backed classes from thrashing the same page.
type slabPool struct {
	size    int
	freeCap int

	mu   sync.Mutex
	free *queue.Queue

	totalAlloc atomic.Int64
	totalFree  atomic.Int64
}

func newSlabPool(size, freeCap int) *slabPool {
	return &slabPool{
		size:    size,
		freeCap: freeCap,
		free:    queue.New(),
	}
}

func (sp *slabPool) get() []byte {
	sp.totalAlloc.Add(1)
	sp.mu.Lock()
	if sp.free.Length() > 0 {
		block := sp.free.Remove().([]byte)
		sp.mu.Unlock()
		return block
	}
	sp.mu.Unlock()

	return allocBlock(sp.size)
}

func (sp *slabPool) put(block []byte) {
	sp.totalFree.Add(1)
	block = block[:cap(block)]
	sp.mu.Lock()
	if sp.free.Length() < sp.freeCap {
		sp.free.Add(block)
		sp.mu.Unlock()
		return
	}
	sp.mu.Unlock()

	// Free list full, release to the platform.
	releaseBlock(block)
}

func (sp *slabPool) counters() (alloc, free int64) {
	return sp.totalAlloc.Load(), sp.totalFree.Load()
}
