// Package buffer
// Author: momentics <momentics@gmail.com>
//
// Reference-counted, chainable buffer nodes for zero-copy byte streams.
//
// A Buf covers one storage block split into headroom, data, and tailroom
// regions. Nodes link into a circular doubly-linked chain representing a
// single logical byte stream; the head's prev link is the chain's tail.
// Clones share storage and are tracked by a reference count, so callers
// can always ask whether in-place mutation is safe via IsShared.
package buffer
