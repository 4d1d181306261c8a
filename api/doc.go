// Package api
// Author: momentics <momentics@gmail.com>
//
// Shared contracts for the bufq library: error kinds surfaced by queue
// operations and the storage allocator interface consumed by buffers.
package api
