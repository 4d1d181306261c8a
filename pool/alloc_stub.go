//go:build !linux

// File: pool/alloc_stub.go
// Author: momentics <momentics@gmail.com>
//
// Portable block allocation fallback for non-Linux platforms.

package pool

func allocBlock(size int) []byte {
	return make([]byte, size)
}

func releaseBlock(block []byte) {
	// GC handles memory.
	_ = block
}
