// Package ring provides a fixed-capacity FIFO with non-blocking push and pop.
//
// Indices run modulo 2*cap, so full (distance cap) and empty (distance 0)
// stay distinct and any capacity >= 1 is allowed. A single producer and a
// single consumer may run concurrently; multiple producers must serialise
// externally.
package ring

import "sync/atomic"

// Ring is a bounded FIFO of T. The backing array is allocated once by New.
type Ring[T any] struct {
	buf []T
	lim uint32        // 2 * cap
	rd  atomic.Uint32 // consumer index in [0, lim)
	wr  atomic.Uint32 // producer index in [0, lim)

	readable chan struct{} // empty -> non-empty edge
}

// New allocates a Ring holding at most capacity elements.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 || capacity > 1<<30 {
		panic("ring: capacity must be in 1..1<<30")
	}
	return &Ring[T]{
		buf:      make([]T, capacity),
		lim:      2 * uint32(capacity),
		readable: make(chan struct{}, 1),
	}
}

func (r *Ring[T]) size() uint32 { return uint32(len(r.buf)) }

// count is the number of elements between rd and wr.
func (r *Ring[T]) count(rd, wr uint32) uint32 {
	if wr >= rd {
		return wr - rd
	}
	return wr + r.lim - rd
}

func (r *Ring[T]) slot(i uint32) uint32 {
	if i >= r.size() {
		return i - r.size()
	}
	return i
}

// advance moves index i forward by n <= cap.
func (r *Ring[T]) advance(i, n uint32) uint32 {
	i += n
	if i >= r.lim {
		i -= r.lim
	}
	return i
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Len returns the number of queued elements.
func (r *Ring[T]) Len() int {
	return int(r.count(r.rd.Load(), r.wr.Load()))
}

// Space returns the number of free slots.
func (r *Ring[T]) Space() int { return r.Cap() - r.Len() }

// TryPush appends v. It returns false, leaving the ring untouched, when full.
func (r *Ring[T]) TryPush(v T) bool {
	rd := r.rd.Load()
	wr := r.wr.Load()
	before := r.count(rd, wr)
	if before >= r.size() {
		return false
	}
	r.buf[r.slot(wr)] = v
	r.wr.Store(r.advance(wr, 1)) // release
	if before == 0 {
		r.notify()
	}
	return true
}

// TryPop removes the oldest element.
func (r *Ring[T]) TryPop() (v T, ok bool) {
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	if wr == rd {
		return v, false
	}
	i := r.slot(rd)
	v = r.buf[i]
	var zero T
	r.buf[i] = zero
	r.rd.Store(r.advance(rd, 1)) // release
	return v, true
}

// Peek returns the oldest element without removing it.
func (r *Ring[T]) Peek() (v T, ok bool) {
	rd := r.rd.Load()
	if r.wr.Load() == rd {
		return v, false
	}
	return r.buf[r.slot(rd)], true
}

// PushFrom copies as many elements of src as fit and returns the count.
func (r *Ring[T]) PushFrom(src []T) (n int) {
	if len(src) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	before := r.count(rd, wr)
	space := int(r.size() - before)
	if space <= 0 {
		return 0
	}
	if len(src) < space {
		space = len(src)
	}
	n = space

	size := r.size()
	wrIdx := r.slot(wr)
	first := int(size - wrIdx)
	if first > n {
		first = n
	}
	copy(r.buf[wrIdx:wrIdx+uint32(first)], src[:first])
	if second := n - first; second > 0 {
		copy(r.buf[:second], src[first:n])
	}
	r.wr.Store(r.advance(wr, uint32(n))) // release

	if before == 0 {
		r.notify()
	}
	return n
}

// PopInto moves up to len(dst) of the oldest elements into dst.
func (r *Ring[T]) PopInto(dst []T) (n int) {
	if len(dst) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	avail := int(r.count(rd, wr))
	if avail <= 0 {
		return 0
	}
	if len(dst) < avail {
		avail = len(dst)
	}
	n = avail

	size := r.size()
	rdIdx := r.slot(rd)
	first := int(size - rdIdx)
	if first > n {
		first = n
	}
	copy(dst[:first], r.buf[rdIdx:rdIdx+uint32(first)])
	if second := n - first; second > 0 {
		copy(dst[first:n], r.buf[:second])
	}
	r.rd.Store(r.advance(rd, uint32(n))) // release
	return n
}

// Reset discards all queued elements. Consumer side only.
func (r *Ring[T]) Reset() {
	r.rd.Store(r.wr.Load())
}

// Watermarks exposes the raw indices, each in [0, 2*cap) (diagnostics).
func (r *Ring[T]) Watermarks() (rd, wr uint32) {
	return r.rd.Load(), r.wr.Load()
}

// Readable fires on the empty -> non-empty transition (coalesced).
func (r *Ring[T]) Readable() <-chan struct{} { return r.readable }

func (r *Ring[T]) notify() {
	select {
	case r.readable <- struct{}{}:
	default:
	}
}
