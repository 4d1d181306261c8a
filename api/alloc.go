// File: api/alloc.go
// Author: momentics <momentics@gmail.com>
//
// Storage allocation contract consumed by buffer nodes.
//
// Storage blocks may be heap slices or mmap-backed regions. Reference
// counting and sharing semantics live above this layer, in core/buffer;
// an Allocator only hands out and takes back raw capacity.

package api

// Allocator abstracts storage block management for buffers.
type Allocator interface {
	// Get returns a block with capacity of at least 'size' bytes.
	// The returned slice has length equal to its capacity.
	Get(size int) []byte

	// Put returns a block to the allocator; the block must not be used
	// afterwards. Blocks not originating from Get are silently dropped.
	Put(block []byte)

	// Stats exposes resource/accounting metrics for observability.
	Stats() AllocStats
}

// AllocStats aggregates block allocation/reuse stats.
type AllocStats struct {
	TotalAlloc int64
	TotalFree  int64
	InUse      int64
	ClassStats map[int]int64
}
