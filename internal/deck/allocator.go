package deck

import "time"

// Allocator hands out fresh card identifiers. Identifiers double as note ids
// in the output collection, so they follow the client's convention of
// epoch-millisecond based ids. Sequential from a base rather than clocked
// per call: a run that creates thousands of cards must not collide with
// itself inside one millisecond.
type Allocator struct {
	next int64
}

// NewAllocator creates an Allocator starting at the current epoch
// millisecond.
func NewAllocator() *Allocator {
	return NewAllocatorAt(time.Now().UnixMilli())
}

// NewAllocatorAt creates an Allocator starting at base. Used by tests that
// need deterministic identifiers.
func NewAllocatorAt(base int64) *Allocator {
	return &Allocator{next: base}
}

// Next returns a fresh identifier. Never returns the same value twice.
func (a *Allocator) Next() int64 {
	id := a.next
	a.next++
	return id
}
