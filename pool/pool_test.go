// File: pool/pool_test.go
// Author: momentics <momentics@gmail.com>
//
// Unit tests for the size-classed block pool.

package pool_test

import (
	"testing"

	"github.com/momentics/bufq/pool"
)

func TestPoolClassRouting(t *testing.T) {
	mgr := pool.NewManager()
	b := mgr.Get(100)
	if len(b) != cap(b) {
		t.Errorf("block length %d != capacity %d", len(b), cap(b))
	}
	if cap(b) < 100 {
		t.Errorf("block capacity %d below request", cap(b))
	}
	if cap(b) != 2*1024 {
		t.Errorf("expected 2K class for 100-byte request, got %d", cap(b))
	}
}

func TestPoolReuse(t *testing.T) {
	mgr := pool.NewManager()
	b1 := mgr.Get(4096)
	mgr.Put(b1)
	b2 := mgr.Get(4096)
	if &b1[0] != &b2[0] {
		t.Error("expected block reuse from the free list")
	}
}

func TestPoolOversizeDirect(t *testing.T) {
	mgr := pool.NewManager()
	b := mgr.Get(2 * 1024 * 1024)
	if len(b) != 2*1024*1024 {
		t.Errorf("oversize block length = %d", len(b))
	}
	// Must not enter a class free list.
	mgr.Put(b)
	b2 := mgr.Get(2 * 1024 * 1024)
	if len(b2) != 2*1024*1024 {
		t.Errorf("second oversize block length = %d", len(b2))
	}
}

func TestPoolStats(t *testing.T) {
	mgr := pool.NewManager()
	b := mgr.Get(100)
	st := mgr.Stats()
	if st.TotalAlloc != 1 || st.InUse != 1 {
		t.Errorf("stats after get: %+v", st)
	}
	mgr.Put(b)
	st = mgr.Stats()
	if st.TotalFree != 1 || st.InUse != 0 {
		t.Errorf("stats after put: %+v", st)
	}
}

func TestPoolFreeListCapacity(t *testing.T) {
	mgr := pool.NewManager(pool.WithFreeListCapacity(1))
	b1 := mgr.Get(1024)
	b2 := mgr.Get(1024)
	mgr.Put(b1)
	mgr.Put(b2) // free list full; released to the platform
	got := mgr.Get(1024)
	if &got[0] != &b1[0] {
		t.Error("expected the single pooled block back first")
	}
}

func BenchmarkPoolGetPut(b *testing.B) {
	mgr := pool.NewManager()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		blk := mgr.Get(8192)
		mgr.Put(blk)
	}
}
