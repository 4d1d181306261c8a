// File: core/buffer/chain.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Circular chain operations: splice, detach, iteration, coalescing.

package buffer

// Next returns the following node in the chain (itself when unchained).
func (b *Buf) Next() *Buf { return b.next }

// Prev returns the preceding node; for a chain head this is the tail.
func (b *Buf) Prev() *Buf { return b.prev }

// IsChained reports whether b is linked to other nodes.
func (b *Buf) IsChained() bool { return b.next != b }

// Pop detaches b from its chain and returns the remainder, or nil when b
// was the only node. b ends up self-linked.
func (b *Buf) Pop() *Buf {
	next := b.next
	if next == b {
		return nil
	}
	b.prev.next = next
	next.prev = b.prev
	b.next, b.prev = b, b
	return next
}

// Unlink removes b from wherever it sits in its chain and returns it.
func (b *Buf) Unlink() *Buf {
	b.Pop()
	return b
}

// InsertAfter splices the entire chain rooted at other directly after b.
func (b *Buf) InsertAfter(other *Buf) {
	if other == nil {
		return
	}
	otherTail := other.prev
	otherTail.next = b.next
	b.next.prev = otherTail
	b.next = other
	other.prev = b
}

// AppendChain splices the chain rooted at other onto the end of b's chain.
func (b *Buf) AppendChain(other *Buf) {
	b.prev.InsertAfter(other)
}

// ChainLen returns the total data length across the chain. O(nodes).
func (b *Buf) ChainLen() int {
	total := b.length
	for cur := b.next; cur != b; cur = cur.next {
		total += cur.length
	}
	return total
}

// ForEachRange calls fn with every non-empty data range across the chain,
// in stream order.
func (b *Buf) ForEachRange(fn func(data []byte)) {
	cur := b
	for {
		if cur.length > 0 {
			fn(cur.Bytes())
		}
		cur = cur.next
		if cur == b {
			return
		}
	}
}

// Coalesce merges leading nodes so that the first min(maxLength, chain
// length) bytes live in this node, allocating and copying once. Byte
// order and total length are unchanged; fully consumed followers are
// released. No-op when the head already covers the requested span.
func (b *Buf) Coalesce(maxLength int) {
	if maxLength <= 0 {
		return
	}
	target := maxLength
	if cl := b.ChainLen(); target > cl {
		target = cl
	}
	if b.length >= target {
		return
	}

	alloc := b.store.alloc
	if alloc == nil {
		alloc = defaultAlloc
	}
	s := &storage{block: alloc.Get(target), alloc: alloc}
	s.refs.Store(1)

	n := copy(s.block, b.Bytes())
	for n < target {
		cur := b.next
		take := cur.length
		if take > target-n {
			take = target - n
		}
		copy(s.block[n:], cur.Bytes()[:take])
		n += take
		if take == cur.length {
			cur.Unlink()
			cur.Release()
		} else {
			cur.TrimFront(take)
		}
	}

	b.Release()
	b.store = s
	b.off = 0
	b.length = target
}
