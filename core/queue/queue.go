// File: core/queue/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Chain store and the copy/splice append family.

package queue

import (
	"github.com/momentics/bufq/api"
	"github.com/momentics/bufq/core/buffer"
)

const (
	// DefaultPackCopyLimit bounds how many bytes one append may copy
	// while packing small fragments into existing tail capacity.
	DefaultPackCopyLimit = 4096

	// Growth bounds for the raw-byte append path.
	minAllocSize = 2000
	maxAllocSize = 8000
)

// Options configures a Queue. The zero value is valid.
type Options struct {
	// CacheChainLength keeps a running byte total so Len is O(1)
	// instead of walking the chain.
	CacheChainLength bool

	// PackCopyLimit overrides DefaultPackCopyLimit; zero selects the
	// default.
	PackCopyLimit int
}

// DefaultOptions returns the configuration most callers want.
func DefaultOptions() Options {
	return Options{CacheChainLength: true, PackCopyLimit: DefaultPackCopyLimit}
}

// Queue accumulates buffer nodes in a circular chain and serves bytes
// from the front.
type Queue struct {
	opts Options

	head        *buffer.Buf // nil when empty; head.Prev() is the tail
	chainLength int         // maintained only when opts.CacheChainLength

	// Write-range cache slot. cache normally points at local; an
	// attached Writer lends the slot out (see cache.go).
	cache *rangeCache
	local rangeCache
}

// New constructs a queue with the given configuration.
func New(opts Options) *Queue {
	q := &Queue{opts: opts}
	q.cache = &q.local
	return q
}

func (q *Queue) packLimit() int {
	if q.opts.PackCopyLimit > 0 {
		return q.opts.PackCopyLimit
	}
	return DefaultPackCopyLimit
}

// Len returns the total number of bytes held, including bytes written
// into the current lease but not yet committed. O(1) when chain length
// caching is enabled, O(nodes) otherwise.
func (q *Queue) Len() int {
	if q.opts.CacheChainLength {
		return q.chainLength + q.cache.used
	}
	if q.head == nil {
		return 0
	}
	return q.head.ChainLen() + q.cache.used
}

// Empty reports whether the queue holds no bytes.
func (q *Queue) Empty() bool { return q.Len() == 0 }

// Front returns the head node without detaching it, or nil when empty.
// The node stays owned by the queue; callers must not mutate or release
// it.
func (q *Queue) Front() *buffer.Buf {
	q.flushCache()
	return q.head
}

// packInto copies leading nodes of src into tail's spare capacity, bounded
// by the budget. Consumed nodes are released; the unconsumed remainder is
// returned (nil when src was fully consumed). A shared tail packs nothing.
func packInto(tail *buffer.Buf, src *buffer.Buf, budget int) *buffer.Buf {
	if tail.IsShared() {
		return src
	}
	for src != nil {
		n := src.Len()
		if n > budget || n > tail.Tailroom() {
			break
		}
		if n > 0 {
			copy(tail.WritableTail(), src.Bytes())
			tail.ExtendTail(n)
			budget -= n
		}
		next := src.Pop()
		src.Release()
		src = next
	}
	return src
}

// appendToChain joins an owned chain onto the queue's tail, packing first
// when requested. Must run inside an update guard.
func (q *Queue) appendToChain(b *buffer.Buf, pack bool) {
	if b == nil {
		return
	}
	if q.head == nil {
		q.head = b
		return
	}
	if pack {
		b = packInto(q.head.Prev(), b, q.packLimit())
		if b == nil {
			return
		}
	}
	q.head.AppendChain(b)
}

// Append moves an owned node (or whole chain) onto the queue. With pack
// set, leading fragments small enough for the tail's spare capacity are
// copied and freed instead of spliced. allowTailReuse additionally lets
// the queue reclaim unused capacity of the previously leased tail.
func (q *Queue) Append(b *buffer.Buf, pack, allowTailReuse bool) {
	if b == nil {
		return
	}
	q.updateGuard(allowTailReuse, func() {
		if q.opts.CacheChainLength {
			q.chainLength += b.ChainLen()
		}
		q.appendToChain(b, pack)
	})
}

// AppendShared appends a borrowed chain without consuming it. The source
// is walked read-only: packable leading nodes are physically copied, the
// remainder is cloned node by node (storage-sharing, no byte copy).
func (q *Queue) AppendShared(b *buffer.Buf, pack, allowTailReuse bool) {
	if b == nil {
		return
	}
	if q.head == nil || !pack {
		q.Append(b.Clone(), pack, allowTailReuse)
		return
	}
	q.updateGuard(allowTailReuse, func() {
		if q.opts.CacheChainLength {
			q.chainLength += b.ChainLen()
		}
		tail := q.head.Prev()
		src := b
		if !tail.IsShared() {
			budget := q.packLimit()
			for src != nil {
				n := src.Len()
				if n > budget || n > tail.Tailroom() {
					break
				}
				if n > 0 {
					copy(tail.WritableTail(), src.Bytes())
					tail.ExtendTail(n)
					budget -= n
				}
				if next := src.Next(); next != b {
					src = next
				} else {
					src = nil
				}
			}
		}
		if src == nil {
			return // consumed full input
		}
		for {
			q.head.AppendChain(src.CloneOne())
			src = src.Next()
			if src == b {
				return
			}
		}
	})
}

// AppendQueue moves the entire content of other into q. Both queues'
// pending leases are committed first; other ends empty with no lease
// outstanding.
func (q *Queue) AppendQueue(other *Queue, pack, allowTailReuse bool) {
	if other == nil || other == q || other.head == nil {
		return
	}
	other.updateGuard(false, func() {
		q.updateGuard(allowTailReuse, func() {
			if q.opts.CacheChainLength {
				if other.opts.CacheChainLength {
					q.chainLength += other.chainLength
				} else {
					q.chainLength += other.head.ChainLen()
				}
			}
			q.appendToChain(other.head, pack)
			other.head = nil
			other.chainLength = 0
		})
	})
}

// AppendBytes copies raw bytes into the queue, reusing the tail's spare
// capacity while it lasts and growing by nodes sized between 2000 and
// 8000 bytes. This path never packs; there is no source chain.
func (q *Queue) AppendBytes(p []byte) {
	if len(p) == 0 {
		return
	}
	q.updateGuard(false, func() {
		for len(p) > 0 {
			if q.head == nil || q.head.Prev().IsShared() || q.head.Prev().Tailroom() == 0 {
				size := len(p)
				if size > maxAllocSize {
					size = maxAllocSize
				}
				if size < minAllocSize {
					size = minAllocSize
				}
				q.appendToChain(buffer.New(size), false)
			}
			tail := q.head.Prev()
			n := copy(tail.WritableTail(), p)
			tail.ExtendTail(n)
			if q.opts.CacheChainLength {
				q.chainLength += n
			}
			p = p[n:]
		}
	})
}

// WrapBytes ingests caller-owned memory with zero copying: the span is
// split into ceil(len/blockSize) read-only wrap nodes appended through
// the normal append path. The caller keeps the memory alive and unmodified
// for as long as the bytes remain queued (including in split results and
// clones).
func (q *Queue) WrapBytes(p []byte, blockSize int) error {
	if blockSize < 1 {
		return api.ErrInvalidArgument
	}
	for len(p) > 0 {
		n := blockSize
		if n > len(p) {
			n = len(p)
		}
		q.Append(buffer.Wrap(p[:n]), false, false)
		p = p[n:]
	}
	return nil
}

// HeadroomBytes returns the writable headroom region of the head node,
// or nil when the queue is empty or the head's storage is shared.
// Headroom is independent from the tail, so the lease stays untouched.
func (q *Queue) HeadroomBytes() []byte {
	if q.head == nil {
		return nil
	}
	return q.head.HeadroomBytes()
}

// MarkPrepended extends the head's data region backward over n bytes the
// caller already wrote into the region returned by HeadroomBytes.
func (q *Queue) MarkPrepended(n int) {
	if n == 0 {
		return
	}
	q.head.ExtendHead(n)
	if q.opts.CacheChainLength {
		q.chainLength += n
	}
}

// Prepend copies p into the head node's headroom. Returns ErrCapacity
// when the queue is empty, the head is shared, or headroom is too small;
// callers are expected to check HeadroomBytes first.
func (q *Queue) Prepend(p []byte) error {
	hb := q.HeadroomBytes()
	if len(hb) < len(p) {
		return api.ErrCapacity
	}
	copy(hb[len(hb)-len(p):], p)
	q.MarkPrepended(len(p))
	return nil
}

// Move commits any pending lease and hands the whole chain to the caller.
// The queue ends empty with no lease outstanding.
func (q *Queue) Move() *buffer.Buf {
	q.flushCache()
	h := q.head
	q.head = nil
	q.chainLength = 0
	q.cache = &q.local
	q.updateCache()
	return h
}

// MoveFrom transfers other's configuration, chain, length and cache state
// into q. Any content q held is released; other ends empty with no lease
// outstanding.
func (q *Queue) MoveFrom(other *Queue) {
	if other == nil || other == q {
		return
	}
	other.flushCache()
	q.flushCache()
	if q.head != nil {
		q.head.ReleaseChain()
	}
	q.opts = other.opts
	q.head = other.head
	q.chainLength = other.chainLength
	other.head = nil
	other.chainLength = 0
	other.cache = &other.local
	other.updateCache()
	q.cache = &q.local
	q.updateCache()
}
