// File: core/queue/remove.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Exact-removal algorithms: split, trim, pop, drain, serialize, gather.
// Strict forms fail with ErrUnderflow before touching the chain, so a
// failed call leaves the queue byte-for-byte unchanged. AtMost forms
// never fail.

package queue

import (
	"slices"

	"github.com/momentics/bufq/api"
	"github.com/momentics/bufq/core/buffer"
)

// Split removes exactly n bytes from the front and returns them as an
// independent chain. Whole nodes move without copying; a node consumed
// partially is cloned (storage-sharing) and trimmed on both sides.
// Returns ErrUnderflow, with the queue unchanged, when fewer than n bytes
// are present.
func (q *Queue) Split(n int) (*buffer.Buf, error) {
	if n < 0 {
		return nil, api.ErrInvalidArgument
	}
	if n > q.Len() {
		return nil, api.ErrUnderflow
	}
	return q.split(n), nil
}

// SplitAtMost removes up to n bytes from the front, stopping early when
// the queue is exhausted. Always returns a valid (possibly empty) chain.
func (q *Queue) SplitAtMost(n int) *buffer.Buf {
	if n < 0 {
		n = 0
	}
	return q.split(n)
}

func (q *Queue) split(n int) *buffer.Buf {
	var result *buffer.Buf
	q.updateGuard(false, func() {
		for n != 0 && q.head != nil {
			if q.head.Len() <= n {
				n -= q.head.Len()
				if q.opts.CacheChainLength {
					q.chainLength -= q.head.Len()
				}
				moved := q.head
				q.head = moved.Pop()
				result = appendChain(result, moved)
			} else {
				clone := q.head.CloneOne()
				clone.TrimBack(clone.Len() - n)
				result = appendChain(result, clone)
				q.head.TrimFront(n)
				if q.opts.CacheChainLength {
					q.chainLength -= n
				}
				n = 0
			}
		}
	})
	if result == nil {
		result = buffer.New(0)
	}
	return result
}

func appendChain(dst, src *buffer.Buf) *buffer.Buf {
	if dst == nil {
		return src
	}
	dst.AppendChain(src)
	return dst
}

// TrimStart removes exactly n bytes from the front. Returns ErrUnderflow,
// with the queue unchanged, when fewer than n bytes are present.
func (q *Queue) TrimStart(n int) error {
	if n < 0 {
		return api.ErrInvalidArgument
	}
	if n > q.Len() {
		return api.ErrUnderflow
	}
	q.TrimStartAtMost(n)
	return nil
}

// TrimStartAtMost removes up to n bytes from the front and returns the
// number actually removed. Never fails.
func (q *Queue) TrimStartAtMost(n int) int {
	original := n
	q.updateGuard(false, func() {
		for n > 0 && q.head != nil {
			if q.head.Len() > n {
				q.head.TrimFront(n)
				if q.opts.CacheChainLength {
					q.chainLength -= n
				}
				n = 0
				return
			}
			n -= q.head.Len()
			if q.opts.CacheChainLength {
				q.chainLength -= q.head.Len()
			}
			dropped := q.head
			q.head = dropped.Pop()
			dropped.Release()
		}
	})
	return original - n
}

// TrimEnd removes exactly n bytes from the back. Returns ErrUnderflow,
// with the queue unchanged, when fewer than n bytes are present.
func (q *Queue) TrimEnd(n int) error {
	if n < 0 {
		return api.ErrInvalidArgument
	}
	if n > q.Len() {
		return api.ErrUnderflow
	}
	q.TrimEndAtMost(n)
	return nil
}

// TrimEndAtMost removes up to n bytes from the back and returns the
// number actually removed. Never fails.
func (q *Queue) TrimEndAtMost(n int) int {
	original := n
	q.updateGuard(false, func() {
		for n > 0 && q.head != nil {
			tail := q.head.Prev()
			if tail.Len() > n {
				tail.TrimBack(n)
				if q.opts.CacheChainLength {
					q.chainLength -= n
				}
				n = 0
				return
			}
			n -= tail.Len()
			if q.opts.CacheChainLength {
				q.chainLength -= tail.Len()
			}
			if tail == q.head {
				q.head = nil
			} else {
				tail.Unlink()
			}
			tail.Release()
		}
	})
	return original - n
}

// PopFront detaches and returns the entire head node, whatever its
// length. Returns ErrEmpty when the chain holds no nodes.
func (q *Queue) PopFront() (*buffer.Buf, error) {
	var ret *buffer.Buf
	q.updateGuard(false, func() {
		if q.head == nil {
			return
		}
		ret = q.head
		q.head = ret.Pop()
		if q.opts.CacheChainLength {
			q.chainLength -= ret.Len()
		}
	})
	if ret == nil {
		return nil, api.ErrEmpty
	}
	return ret, nil
}

// ClearAndReuseLargest releases every node except the unshared one with
// the greatest capacity (first seen wins ties), clears it and keeps it as
// the sole node for reuse. The queue ends completely empty when no
// unshared node exists.
func (q *Queue) ClearAndReuseLargest() {
	q.updateGuard(false, func() {
		var best *buffer.Buf
		for q.head != nil {
			b := q.head
			q.head = b.Pop()
			if !b.IsShared() && (best == nil || b.Cap() > best.Cap()) {
				if best != nil {
					best.Release()
				}
				best = b
			} else {
				b.Release()
			}
		}
		if best != nil {
			best.Clear()
			q.head = best
		}
		q.chainLength = 0
	})
}

// AppendTo appends every committed data range, in order, followed by any
// bytes pending in the uncommitted lease, onto dst. The lease is read
// without committing; the queue is not mutated. Sink capacity is reserved
// up front.
func (q *Queue) AppendTo(dst []byte) []byte {
	if q.head == nil {
		return dst
	}
	dst = slices.Grow(dst, q.Len())
	q.head.ForEachRange(func(r []byte) {
		dst = append(dst, r...)
	})
	if c := q.cache; c.buf != nil && c.used > 0 {
		dst = append(dst, c.buf.WritableTail()[:c.used]...)
	}
	return dst
}

// Gather coalesces the leading portion of the chain, up to maxLength
// bytes, into a single contiguous node. Total bytes and byte order are
// unchanged.
func (q *Queue) Gather(maxLength int) {
	q.updateGuard(false, func() {
		if q.head != nil {
			q.head.Coalesce(maxLength)
		}
	})
}
