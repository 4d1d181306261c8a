// File: core/queue/cache_test.go
// Author: momentics <momentics@gmail.com>
//
// Unit tests for the write-range cache: lease fast/slow paths, pending
// byte accounting, tail reclamation, and writer attachment.

package queue_test

import (
	"testing"

	"github.com/momentics/bufq/core/buffer"
)

func wrapNode(s string) *buffer.Buf {
	return buffer.Wrap([]byte(s))
}

func TestPreallocateSlowThenFast(t *testing.T) {
	q := newQ()

	// Empty queue: slow path allocates and splices a fresh node.
	room := q.Preallocate(10, 64, 32)
	if len(room) < 10 || len(room) > 32 {
		t.Fatalf("leased %d bytes, want within [10,32]", len(room))
	}
	n := copy(room, "0123456789")
	q.Postallocate(n)

	// The committed lease now serves requests without allocation.
	before := nodeCount(q)
	room = q.Preallocate(1, 64, 16)
	if len(room) == 0 || len(room) > 16 {
		t.Fatalf("fast path leased %d bytes", len(room))
	}
	copy(room, "ab")
	q.Postallocate(2)
	if nodeCount(q) != before {
		t.Error("fast path must not add nodes")
	}
	if got := content(q); got != "0123456789ab" {
		t.Errorf("content = %q", got)
	}
}

func TestPendingBytesCountAndSerialize(t *testing.T) {
	q := newQ()
	q.AppendBytes([]byte("base."))

	room := q.Preallocate(4, 16, 16)
	copy(room, "tail")
	q.Postallocate(4)

	// Bytes reported but not yet committed count toward the total and
	// appear in serialization without forcing a commit.
	if q.Len() != 9 {
		t.Errorf("length with pending bytes = %d", q.Len())
	}
	if got := content(q); got != "base.tail" {
		t.Errorf("content = %q", got)
	}

	// A structural operation commits them into the tail node.
	head := q.Front()
	if head.ChainLen() != 9 {
		t.Errorf("chain length after commit = %d", head.ChainLen())
	}
}

func TestPostallocateBounds(t *testing.T) {
	q := newQ()
	room := q.Preallocate(8, 8, 8)
	q.Postallocate(len(room))
	defer func() {
		if recover() == nil {
			t.Error("reporting past the lease must panic")
		}
	}()
	q.Postallocate(1 << 20)
}

func TestTailReuseEmptyOldTail(t *testing.T) {
	q := newQ()
	// Grant a lease but commit nothing to it.
	q.Preallocate(64, 4096, 64)
	oldCount := nodeCount(q)

	// Splice a read-only node past the leased tail, allowing reuse.
	q.Append(wrapNode("data"), false, true)

	// The empty old tail must be re-spliced at the end, keeping its
	// capacity available for the next lease.
	if nodeCount(q) != oldCount+1 {
		t.Fatalf("node count = %d, want %d", nodeCount(q), oldCount+1)
	}
	if got := content(q); got != "data" {
		t.Errorf("content = %q", got)
	}
	tail := q.Front().Prev()
	if tail.Len() != 0 || tail.Tailroom() == 0 {
		t.Errorf("tail after reuse: len=%d tailroom=%d", tail.Len(), tail.Tailroom())
	}

	// The next lease is served from the reclaimed capacity.
	before := nodeCount(q)
	room := q.Preallocate(1, 4096, 8)
	copy(room, "+")
	q.Postallocate(1)
	if nodeCount(q) != before {
		t.Error("lease after reclamation must not allocate")
	}
	if got := content(q); got != "data+" {
		t.Errorf("content = %q", got)
	}
}

func TestTailReuseSplitsDataTail(t *testing.T) {
	q := newQ()
	room := q.Preallocate(64, 4096, 64)
	copy(room, "kept")
	q.Postallocate(4)

	q.Append(wrapNode("-mid-"), false, true)

	// The old tail carried data: only its unused capacity splits off to
	// the end, leaving the data bytes in place.
	if got := content(q); got != "kept-mid-" {
		t.Errorf("content = %q", got)
	}
	head := q.Front()
	if head.Len() != 4 || head.Tailroom() != 0 {
		t.Errorf("old tail after split: len=%d tailroom=%d", head.Len(), head.Tailroom())
	}
	tail := head.Prev()
	if tail.Len() != 0 || tail.Tailroom() == 0 {
		t.Errorf("reclaimed node: len=%d tailroom=%d", tail.Len(), tail.Tailroom())
	}
	if q.Len() != 9 {
		t.Errorf("length = %d", q.Len())
	}
}

func TestTailReuseSkippedWhenNewTailBetter(t *testing.T) {
	q := newQ()
	q.Preallocate(16, 16, 16) // small leased tail
	oldTail := q.Front()

	// The appended node has at least as much tailroom and is writable;
	// reclaiming would buy nothing.
	big := newQ()
	big.Preallocate(8192, 8192, 1)
	q.AppendQueue(big, false, true)

	if q.Front() != oldTail {
		t.Error("head must be unchanged")
	}
	tail := q.Front().Prev()
	if tail == oldTail {
		t.Fatal("expected the appended node as tail")
	}
	if tail.Tailroom() < oldTail.Tailroom() {
		t.Error("test setup: new tail should offer more room")
	}
	if nodeCount(q) != 2 {
		t.Errorf("node count = %d, reclamation should have been skipped", nodeCount(q))
	}
}

func TestWriterAppend(t *testing.T) {
	q := newQ()
	q.AppendBytes([]byte("head:"))

	w := q.AttachWriter()
	w.Append([]byte("one,"))
	w.Append([]byte("two"))

	if q.Len() != 12 {
		t.Errorf("length = %d", q.Len())
	}
	if got := content(q); got != "head:one,two" {
		t.Errorf("content = %q", got)
	}

	w.Detach()
	w.Detach() // idempotent
	if got := content(q); got != "head:one,two" {
		t.Errorf("content after detach = %q", got)
	}
	if q.Front().ChainLen() != 12 {
		t.Error("detach must commit pending bytes")
	}
}

func TestWriterWritable(t *testing.T) {
	q := newQ()
	w := q.AttachWriter()
	room := w.Writable(5, 64, 5)
	if len(room) != 5 {
		t.Fatalf("leased %d bytes", len(room))
	}
	copy(room, "hello")
	w.Written(5)
	w.Detach()
	if got := content(q); got != "hello" {
		t.Errorf("content = %q", got)
	}
}

func TestWriterDetachedPanics(t *testing.T) {
	q := newQ()
	w := q.AttachWriter()
	w.Detach()
	defer func() {
		if recover() == nil {
			t.Error("append on detached writer must panic")
		}
	}()
	w.Append([]byte("x"))
}

func TestMoveClearsLeaseOwnership(t *testing.T) {
	src, dst := newQ(), newQ()
	w := src.AttachWriter()
	w.Append([]byte("pending"))

	// Moving forces a commit; no written byte may be lost.
	dst.MoveFrom(src)
	if got := content(dst); got != "pending" {
		t.Errorf("content = %q", got)
	}
	if src.Len() != 0 {
		t.Error("source must end empty")
	}
	// The source owns its slot again and can attach a fresh writer.
	w2 := src.AttachWriter()
	w2.Append([]byte("new"))
	w2.Detach()
	if got := content(src); got != "new" {
		t.Errorf("source content = %q", got)
	}
}
