// Package arena implements the bump allocator that realizes Gaut's block
// lifetimes: one arena per function activation, nested blocks reuse it
// through mark/reset scoping.
//
// Out-of-range access policy: every indexing helper returns a sentinel zero
// value (zero byte, empty slice) instead of failing. This matches the
// generated C runtime and is applied uniformly across the toolchain.
package arena

import (
	"errors"
)

// ErrExhausted reports an allocation request that exceeds the remaining
// capacity. It is a resource condition, not a soundness violation; callers
// fall back to the heap.
var ErrExhausted = errors.New("arena exhausted")

// Arena is a fixed-capacity bump allocator over a caller-owned buffer.
// The zero value is an uninitialized arena: every Alloc fails and
// LeaveScope is a no-op.
type Arena struct {
	buf []byte
	off int
}

// Mark is an opaque scope marker: the bump offset at EnterScope time.
type Mark int

// FromBuffer wraps a caller-owned buffer. The arena never frees it.
func FromBuffer(buf []byte) *Arena {
	return &Arena{buf: buf}
}

// New allocates a backing buffer of the given capacity.
func New(capacity int) *Arena {
	if capacity < 0 {
		capacity = 0
	}
	return &Arena{buf: make([]byte, capacity)}
}

// Capacity returns the total buffer size in bytes.
func (a *Arena) Capacity() int {
	if a == nil {
		return 0
	}
	return len(a.buf)
}

// Remaining returns the free space in bytes.
func (a *Arena) Remaining() int {
	if a == nil {
		return 0
	}
	return len(a.buf) - a.off
}

// EnterScope records the current offset. Pure; allocates nothing.
func (a *Arena) EnterScope() Mark {
	if a == nil {
		return 0
	}
	return Mark(a.off)
}

// LeaveScope rolls the offset back to the mark, clamped to capacity.
// Everything allocated since the matching EnterScope becomes reusable.
// A nil or uninitialized arena ignores the call.
func (a *Arena) LeaveScope(m Mark) {
	if a == nil || a.buf == nil {
		return
	}
	off := int(m)
	if off > len(a.buf) {
		off = len(a.buf)
	}
	if off < 0 {
		off = 0
	}
	a.off = off
}

// Alloc returns a slice of exactly size bytes from the arena.
// A zero-size request succeeds without touching state. Requests beyond the
// remaining capacity (or on an arena without a buffer) return ErrExhausted;
// the arena is left unchanged.
func (a *Arena) Alloc(size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	if a == nil || a.buf == nil || size < 0 || size > len(a.buf)-a.off {
		return nil, ErrExhausted
	}
	start := a.off
	a.off += size
	return a.buf[start : start+size : start+size], nil
}
