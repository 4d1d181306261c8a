// Package pool
// Author: momentics <momentics@gmail.com>
//
// Size-classed storage block pooling for bufq buffers.
// Implements slab-style free lists per power-of-two size class, with
// mmap-backed blocks for large classes on Linux. All primitives are
// cross-platform and safe for concurrent use.
// See pool.go, slab.go, alloc_linux.go for implementation details.
package pool
