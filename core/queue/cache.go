// File: core/queue/cache.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Write-range cache: a scoped lease of writable tail capacity that lets a
// writer fill bytes without chain bookkeeping per write. Every structural
// mutation runs inside updateGuard, which commits the lease on entry and
// re-derives it (plus optional tail reclamation) on exit.

package queue

import "github.com/momentics/bufq/core/buffer"

// rangeCache is the lease state over the current tail's tailroom.
// The lease range starts at the tail's data end as of the last commit;
// used counts bytes the writer reported but that are not yet folded into
// the node's length.
type rangeCache struct {
	buf  *buffer.Buf
	used int
}

// flushCache commits the pending lease: the written bytes become part of
// the tail node's data region and of the cached chain length. Idempotent.
func (q *Queue) flushCache() {
	c := q.cache
	if c.buf == nil || c.used == 0 {
		return
	}
	c.buf.ExtendTail(c.used)
	if q.opts.CacheChainLength {
		q.chainLength += c.used
	}
	c.used = 0
}

// updateCache re-derives the lease against the current tail. Only valid
// with nothing pending (guards flush first). A shared tail takes no lease.
func (q *Queue) updateCache() {
	c := q.cache
	if q.head == nil {
		c.buf = nil
		return
	}
	tail := q.head.Prev()
	if tail.IsShared() {
		c.buf = nil
		return
	}
	c.buf = tail
}

// updateGuard wraps one structural mutation: commit the lease on entry,
// run fn, then reclaim the previously observed tail (when allowed) and
// re-derive the lease. The exit actions run on every path out of fn.
func (q *Queue) updateGuard(allowTailReuse bool, fn func()) {
	q.flushCache()
	var oldTail *buffer.Buf
	if allowTailReuse && q.head != nil {
		oldTail = q.head.Prev()
	}
	defer func() {
		if oldTail != nil {
			q.maybeReuseTail(oldTail)
		}
		q.updateCache()
	}()
	fn()
}

// maybeReuseTail recovers spare capacity of the tail observed at guard
// entry after later appends moved the effective tail elsewhere. The old
// tail (or just its unused capacity, split off zero-copy) is re-spliced
// at the end of the chain so the next lease can use it.
func (q *Queue) maybeReuseTail(oldTail *buffer.Buf) {
	if q.head == nil {
		return
	}
	tail := q.head.Prev()
	if oldTail.IsShared() || // can't detach or split a shared node
		tail == oldTail || // no new nodes were appended
		// current tail is writable with at least as much room
		(tail.Tailroom() >= oldTail.Tailroom() && !tail.IsShared()) {
		return
	}

	var newTail *buffer.Buf
	if oldTail.Len() == 0 {
		// Nothing was committed to the old tail; move the whole node.
		if oldTail == q.head {
			q.head = oldTail.Pop()
		} else {
			oldTail.Unlink()
		}
		newTail = oldTail
	} else {
		newTail = oldTail.TrySplitTail()
		if newTail == nil {
			return
		}
	}
	q.head.AppendChain(newTail)
}

// Preallocate leases a contiguous writable span at the tail: at least min
// bytes, at most max. The fast path serves the request from the committed
// lease with no allocation. The slow path commits, allocates a node of
// max(min, newAllocSize) and splices it without packing, since a fresh
// node is never worth copy-merging. Bytes written into the span count
// toward Len only after Postallocate reports them.
func (q *Queue) Preallocate(min, newAllocSize, max int) []byte {
	if c := q.cache; c.buf != nil {
		if avail := c.buf.Tailroom() - c.used; avail >= min {
			room := c.buf.WritableTail()[c.used:]
			if len(room) > max {
				room = room[:max]
			}
			return room
		}
	}
	return q.preallocateSlow(min, newAllocSize, max)
}

func (q *Queue) preallocateSlow(min, newAllocSize, max int) []byte {
	// Manually re-anchors the cache; no guard here.
	q.flushCache()
	size := newAllocSize
	if size < min {
		size = min
	}
	b := buffer.New(size)
	c := q.cache
	c.buf = b
	c.used = 0
	q.appendToChain(b, false)
	room := b.WritableTail()
	if len(room) > max {
		room = room[:max]
	}
	return room
}

// Postallocate reports that n bytes of the outstanding lease were written,
// advancing the committed edge. Callers must not report more than the
// lease offered.
func (q *Queue) Postallocate(n int) {
	if n == 0 {
		return
	}
	c := q.cache
	if c.buf == nil || n < 0 || c.used+n > c.buf.Tailroom() {
		panic("queue: postallocate past leased range")
	}
	c.used += n
}

// Writer borrows the queue's write-range cache slot, becoming its sole
// attached owner until Detach. While attached it offers allocation-free
// appends through the lease; structural queue operations remain legal and
// keep the shared slot coherent through the usual guard protocol.
type Writer struct {
	q    *Queue
	slot rangeCache
}

// AttachWriter hands the cache slot to a new Writer. Panics if another
// Writer is already attached.
func (q *Queue) AttachWriter() *Writer {
	if q.cache != &q.local {
		panic("queue: write cache already attached")
	}
	q.flushCache()
	w := &Writer{q: q}
	w.slot = q.local
	q.cache = &w.slot
	return w
}

// Detach commits anything pending and returns the slot to the queue.
// Idempotent; the Writer is unusable afterwards.
func (w *Writer) Detach() {
	if w.q == nil {
		return
	}
	q := w.q
	w.q = nil
	q.flushCache()
	q.cache = &q.local
	q.updateCache()
}

// Append copies p into the queue through the lease, growing it as needed.
func (w *Writer) Append(p []byte) {
	if w.q == nil {
		panic("queue: append on detached writer")
	}
	for len(p) > 0 {
		room := w.q.Preallocate(1, len(p), len(p))
		n := copy(room, p)
		w.q.Postallocate(n)
		p = p[n:]
	}
}

// Writable leases a span exactly like Queue.Preallocate.
func (w *Writer) Writable(min, newAllocSize, max int) []byte {
	if w.q == nil {
		panic("queue: writable on detached writer")
	}
	return w.q.Preallocate(min, newAllocSize, max)
}

// Written reports n bytes written into the span from Writable.
func (w *Writer) Written(n int) {
	if w.q == nil {
		panic("queue: written on detached writer")
	}
	w.q.Postallocate(n)
}
