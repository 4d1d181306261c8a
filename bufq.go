// File: bufq.go
// Unified facade for the bufq library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file re-exports the library surface behind a single import: the
// buffer-chain Queue with its copy/splice append family and write-range
// lease, the chainable Buf node, and the error kinds queue operations
// surface. Storage pooling lives in package pool and is wired in
// automatically.

package bufq

import (
	"github.com/momentics/bufq/api"
	"github.com/momentics/bufq/core/buffer"
	"github.com/momentics/bufq/core/queue"
)

// Core types.
type (
	// Queue is a buffer-chain queue for staging network/streaming I/O.
	Queue = queue.Queue
	// Options configures a Queue.
	Options = queue.Options
	// Writer is the attached owner of a queue's write-range cache slot.
	Writer = queue.Writer
	// Buf is a single chainable buffer node.
	Buf = buffer.Buf
)

// Error kinds surfaced by queue operations.
var (
	ErrCapacity        = api.ErrCapacity
	ErrUnderflow       = api.ErrUnderflow
	ErrEmpty           = api.ErrEmpty
	ErrInvalidArgument = api.ErrInvalidArgument
)

// New constructs a queue with the given configuration.
func New(opts Options) *Queue { return queue.New(opts) }

// DefaultOptions returns the configuration most callers want:
// O(1) length tracking and the default pack-copy budget.
func DefaultOptions() Options { return queue.DefaultOptions() }

// NewBuffer allocates a standalone buffer node with capacity of at least
// size bytes.
func NewBuffer(size int) *Buf { return buffer.New(size) }

// Wrap creates a read-only node over caller-owned memory without copying.
func Wrap(p []byte) *Buf { return buffer.Wrap(p) }
