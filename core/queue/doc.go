// Package queue
// Author: momentics <momentics@gmail.com>
//
// Buffer-chain queue: the staging abstraction for network and streaming
// I/O. Callers append bytes from many sources (owned nodes, borrowed
// chains, raw memory, other queues) and consume from the front in exact
// or best-effort amounts, while the queue decides per call whether to
// copy small fragments into existing tail capacity or splice nodes in
// place.
//
// A Queue instance is not safe for concurrent mutation. The storage pool
// underneath is.
package queue
