// Package buffer provides memory-managed buffering for the log pipeline.
package buffer

import (
	"github.com/Geun-Oh/alog/internal/entry"
)

// DefaultCapacity is the slot count used when a non-positive capacity is requested.
const DefaultCapacity = 256

// Ring is a circular queue of LogEntry values that never drops entries.
// When a push would fill it, the ring doubles its capacity and compacts the
// live entries to the front, keeping FIFO order.
//
// Ring has no locking of its own; the owner must serialize all calls.
type Ring struct {
	entries []entry.LogEntry
	head    int // next slot to consume
	tail    int // next slot to produce
	grows   int
}

// NewRing creates a ring buffer with the given capacity. Every slot gets a
// preallocated message buffer.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	r := &Ring{entries: make([]entry.LogEntry, capacity)}
	for i := range r.entries {
		r.entries[i] = entry.New()
	}
	return r
}

// Reserve returns the slot at the tail, reset for writing. The slot is not
// visible to consumers until Commit is called.
func (r *Ring) Reserve() *entry.LogEntry {
	e := &r.entries[r.tail]
	e.Reset()
	return e
}

// Commit publishes the reserved slot and advances the tail. It reports
// whether the ring had to grow to keep the next slot free.
func (r *Ring) Commit() bool {
	r.tail = (r.tail + 1) % len(r.entries)
	if r.tail != r.head {
		return false
	}
	r.grow()
	return true
}

// PushBack copies e into the tail slot. The message bytes are copied into
// the slot's own storage, so the caller keeps ownership of e.
func (r *Ring) PushBack(e entry.LogEntry) bool {
	slot := r.Reserve()
	slot.Level = e.Level
	slot.Verbosity = e.Verbosity
	slot.Timestamp = e.Timestamp
	slot.Msg = append(slot.Msg, e.Msg...)
	slot.End = e.End
	return r.Commit()
}

// PopFront moves the head entry into dst and advances the head. The storage
// dst held before the call is handed to the vacated slot, so after PopFront
// dst and the ring never share message bytes.
//
// PopFront must only be called when the ring is not empty.
func (r *Ring) PopFront(dst *entry.LogEntry) {
	slot := &r.entries[r.head]
	*dst, *slot = *slot, *dst
	if cap(slot.Msg) == 0 {
		slot.Msg = make([]byte, 0, entry.DefaultMsgSize)
	}
	r.head = (r.head + 1) % len(r.entries)
}

// Empty reports whether there is nothing to consume.
func (r *Ring) Empty() bool {
	return r.head == r.tail
}

// Len returns the number of entries waiting to be consumed.
func (r *Ring) Len() int {
	if r.tail >= r.head {
		return r.tail - r.head
	}
	return len(r.entries) - r.head + r.tail
}

// Cap returns the number of slots. One slot is always kept free.
func (r *Ring) Cap() int {
	return len(r.entries)
}

// Grows returns how many times the ring has doubled.
func (r *Ring) Grows() int {
	return r.grows
}

// grow doubles the storage. It is only called when tail caught up with head,
// which means every slot holds a live entry starting at head.
func (r *Ring) grow() {
	size := len(r.entries)
	next := make([]entry.LogEntry, 2*size)

	// Oldest entries first: from head to the end, then wrap around.
	n := copy(next, r.entries[r.head:])
	copy(next[n:], r.entries[:r.head])

	for i := size; i < len(next); i++ {
		next[i] = entry.New()
	}

	r.entries = next
	r.head = 0
	r.tail = size
	r.grows++
}
