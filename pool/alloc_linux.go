//go:build linux

// File: pool/alloc_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific block allocation. Large blocks come from anonymous
// private mappings so they return whole pages to the kernel on release
// instead of lingering on the Go heap.

package pool

import "golang.org/x/sys/unix"

// mmapThreshold: blocks at or above this size are mmap-backed.
const mmapThreshold = 256 * 1024

func allocBlock(size int) []byte {
	if size >= mmapThreshold {
		block, err := unix.Mmap(-1, 0, size,
			unix.PROT_READ|unix.PROT_WRITE,
			unix.MAP_ANON|unix.MAP_PRIVATE)
		if err == nil {
			return block
		}
		// Fall through to the heap on mmap failure.
	}
	return make([]byte, size)
}

func releaseBlock(block []byte) {
	block = block[:cap(block)]
	if len(block) >= mmapThreshold {
		// Munmap rejects regions it did not map; heap fallbacks are
		// left to the GC.
		_ = unix.Munmap(block)
	}
}
