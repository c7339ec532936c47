// Package buffer implements the fixed-capacity FIFO byte buffer used by
// the peripheral drivers for their receive queues.
package buffer

import (
	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
)

// Buffer is a fixed-capacity first-in first-out byte queue. The zero
// value is not usable; construct with New.
//
// Buffers are not safe for concurrent use. The drivers only touch a
// buffer from a single logical thread of control; the interrupt-path
// writer uses TryPut, which never raises.
type Buffer struct {
	data []byte
	head int
	size int
}

// New returns an empty buffer holding at most capacity bytes.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Len returns the number of bytes currently queued.
func (b *Buffer) Len() int { return b.size }

// Cap returns the maximum number of bytes the buffer can hold.
func (b *Buffer) Cap() int { return len(b.data) }

// Empty reports whether the buffer holds no bytes.
func (b *Buffer) Empty() bool { return b.size == 0 }

// Full reports whether the buffer is at capacity.
func (b *Buffer) Full() bool { return b.size >= len(b.data) }

// Put appends a byte at the end of the buffer. Appending to a full
// buffer raises ERR_BUFFER_OVERFLOW.
func (b *Buffer) Put(data byte) {
	if b.Full() {
		fault.Raisef(fault.BufferOverflow, "put: buffer full at %d bytes", len(b.data))
	}
	b.data[(b.head+b.size)%len(b.data)] = data
	b.size++
}

// TryPut appends a byte and reports whether it fit. It never raises and
// is the only mutation allowed from interrupt context.
func (b *Buffer) TryPut(data byte) bool {
	if b.Full() {
		return false
	}
	b.data[(b.head+b.size)%len(b.data)] = data
	b.size++
	return true
}

// Get removes and returns the oldest byte. Reading from an empty buffer
// raises ERR_OUT_OF_RANGE.
func (b *Buffer) Get() byte {
	if b.Empty() {
		fault.Raisef(fault.OutOfRange, "get: buffer empty")
	}
	data := b.data[b.head]
	b.head = (b.head + 1) % len(b.data)
	b.size--
	return data
}

// Clear removes all queued bytes.
func (b *Buffer) Clear() {
	b.head = 0
	b.size = 0
}
