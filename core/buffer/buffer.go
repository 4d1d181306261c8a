// File: core/buffer/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buf node: one storage block with headroom/data/tailroom regions and a
// shared-storage reference count.

package buffer

import (
	"sync/atomic"

	"github.com/momentics/bufq/api"
	"github.com/momentics/bufq/pool"
)

// storage is one backing block, possibly referenced by several nodes
// after cloning. A readonly block wraps caller-owned memory and is never
// written through a Buf.
type storage struct {
	block    []byte
	refs     atomic.Int32
	readonly bool
	alloc    api.Allocator // nil: block is not poolable (wraps, split remainders)
}

var defaultAlloc api.Allocator = pool.Default()

// SetAllocator replaces the allocator used by New and Coalesce.
// Intended for embedders with their own storage management; not safe to
// call while buffers are live.
func SetAllocator(a api.Allocator) {
	if a != nil {
		defaultAlloc = a
	}
}

// Buf is a single chainable buffer node. The zero value is not usable;
// construct through New or Wrap.
type Buf struct {
	store  *storage
	off    int // start of the data region within store.block
	length int // data region length

	next, prev *Buf
}

// New allocates a node with capacity of at least size bytes and an empty
// data region. Storage comes from the block pool and may exceed size.
func New(size int) *Buf {
	if size < 0 {
		panic("buffer: negative size")
	}
	s := &storage{block: defaultAlloc.Get(size), alloc: defaultAlloc}
	s.refs.Store(1)
	return selfLinked(&Buf{store: s})
}

// Wrap creates a read-only node over caller-owned memory without copying.
// The node borrows the storage: the caller keeps it alive for the node's
// lifetime and must not mutate it while wrapped. Wrapped nodes always
// report IsShared.
func Wrap(p []byte) *Buf {
	s := &storage{block: p[:len(p):len(p)], readonly: true}
	s.refs.Store(1)
	return selfLinked(&Buf{store: s, length: len(p)})
}

func selfLinked(b *Buf) *Buf {
	b.next, b.prev = b, b
	return b
}

// Len returns the data region length.
func (b *Buf) Len() int { return b.length }

// Cap returns the storage block capacity available to this node.
func (b *Buf) Cap() int { return len(b.store.block) }

// Headroom returns the unused capacity before the data region.
func (b *Buf) Headroom() int { return b.off }

// Tailroom returns the unused capacity after the data region.
func (b *Buf) Tailroom() int { return len(b.store.block) - b.off - b.length }

// Bytes returns the data region. Callers must treat it as immutable when
// IsShared reports true.
func (b *Buf) Bytes() []byte { return b.store.block[b.off : b.off+b.length] }

// WritableTail returns the tailroom region for writing. Must not be used
// when IsShared reports true.
func (b *Buf) WritableTail() []byte {
	return b.store.block[b.off+b.length:]
}

// HeadroomBytes returns the headroom region, or nil when the storage is
// shared and must not be written.
func (b *Buf) HeadroomBytes() []byte {
	if b.IsShared() {
		return nil
	}
	return b.store.block[:b.off]
}

// ExtendTail grows the data region by n bytes already written into the
// tailroom.
func (b *Buf) ExtendTail(n int) {
	if n < 0 || n > b.Tailroom() {
		panic("buffer: extend past tailroom")
	}
	b.length += n
}

// ExtendHead grows the data region backward by n bytes already written
// into the headroom.
func (b *Buf) ExtendHead(n int) {
	if n < 0 || n > b.off {
		panic("buffer: extend past headroom")
	}
	b.off -= n
	b.length += n
}

// TrimFront drops n bytes from the front of the data region. Pure offset
// arithmetic; safe on shared nodes.
func (b *Buf) TrimFront(n int) {
	if n < 0 || n > b.length {
		panic("buffer: trim past data")
	}
	b.off += n
	b.length -= n
}

// TrimBack drops n bytes from the end of the data region.
func (b *Buf) TrimBack(n int) {
	if n < 0 || n > b.length {
		panic("buffer: trim past data")
	}
	b.length -= n
}

// Clear resets the data region to zero length at the start of storage.
// Capacity is unchanged.
func (b *Buf) Clear() {
	b.off, b.length = 0, 0
}

// IsShared reports whether the storage may have other holders: wrapped
// external memory, or more than one node referencing the block after a
// clone. Shared storage must never be mutated in place.
func (b *Buf) IsShared() bool {
	return b.store.readonly || b.store.refs.Load() > 1
}

// CloneOne returns a new unchained node sharing this node's storage.
func (b *Buf) CloneOne() *Buf {
	b.store.refs.Add(1)
	return selfLinked(&Buf{store: b.store, off: b.off, length: b.length})
}

// Clone returns a new chain mirroring this node's whole chain, sharing
// storage node for node.
func (b *Buf) Clone() *Buf {
	head := b.CloneOne()
	for cur := b.next; cur != b; cur = cur.next {
		head.AppendChain(cur.CloneOne())
	}
	return head
}

// Release drops this node's storage reference. The last reference returns
// poolable storage to its allocator. The node must not be used afterwards;
// chain links are not touched.
func (b *Buf) Release() {
	s := b.store
	if s == nil {
		return
	}
	b.store = nil
	if s.refs.Add(-1) == 0 && s.alloc != nil && !s.readonly {
		s.alloc.Put(s.block[:cap(s.block)])
	}
}

// ReleaseChain releases every node in b's chain.
func (b *Buf) ReleaseChain() {
	cur := b
	for {
		next := cur.next
		cur.Release()
		if next == b {
			return
		}
		cur = next
	}
}

// TrySplitTail splits the unused tail capacity off into a new zero-length
// node. The two nodes end up over disjoint sub-slices of the same backing
// array, so both remain exclusively owned and writable. Returns nil when
// the storage is shared or there is no tailroom. Neither block returns to
// the pool afterwards since class capacities no longer match.
func (b *Buf) TrySplitTail() *Buf {
	if b.IsShared() || b.Tailroom() == 0 {
		return nil
	}
	cut := b.off + b.length
	block := b.store.block
	b.store.block = block[:cut:cut]
	b.store.alloc = nil

	s := &storage{block: block[cut:]}
	s.refs.Store(1)
	return selfLinked(&Buf{store: s})
}
