// Package dense provides the append-only record stack of a
// self-initializing vector.
//
// Elements are stored in geometrically growing chunks. A chunk is never
// reallocated once created, so the address of an element stays valid until
// the stack is Reset. Storage grows with the number of pushed elements, not
// with the declared capacity.
package dense

import (
	"iter"
	"math/bits"
	"unsafe"

	"github.com/coregx/sivec/internal/conv"
)

// firstChunkShift sizes the first chunk at 1<<firstChunkShift elements.
// Chunk k holds firstChunk<<k elements.
const firstChunkShift = 3

const firstChunk = 1 << firstChunkShift

// Stack is an append-only sequence of up to a fixed number of elements.
type Stack[T any] struct {
	chunks [][]T
	size   uint32
	limit  uint32
}

// New creates an empty stack that holds at most limit elements.
func New[T any](limit uint32) *Stack[T] {
	return &Stack[T]{limit: limit}
}

// locate maps an element offset to its chunk and position within that chunk.
func locate(r uint32) (chunk, pos int) {
	q := uint64(r)>>firstChunkShift + 1
	chunk = bits.Len64(q) - 1
	start := (uint64(1)<<chunk - 1) << firstChunkShift
	return chunk, int(uint64(r) - start)
}

// Push appends v and returns its offset.
// Panics if the stack already holds limit elements.
func (s *Stack[T]) Push(v T) uint32 {
	if s.size >= s.limit {
		panic("dense: push beyond stack limit")
	}
	r := s.size
	chunk, _ := locate(r)
	if chunk == len(s.chunks) {
		// Clamp the last chunk to what the limit still allows.
		n := uint64(firstChunk) << chunk
		if remaining := uint64(s.limit - r); n > remaining {
			n = remaining
		}
		s.chunks = append(s.chunks, make([]T, 0, int(n)))
	}
	// Never exceeds the chunk's capacity, so the backing array never moves.
	s.chunks[chunk] = append(s.chunks[chunk], v)
	s.size++
	return r
}

// At returns the address of the element at offset r.
// r must be less than Len.
func (s *Stack[T]) At(r uint32) *T {
	chunk, pos := locate(r)
	return &s.chunks[chunk][pos]
}

// Len returns the number of elements.
func (s *Stack[T]) Len() int {
	return conv.Uint32ToInt(s.size)
}

// Size returns the number of elements as a uint32, the unit back-pointers
// are compared in.
func (s *Stack[T]) Size() uint32 {
	return s.size
}

// Limit returns the maximum number of elements.
func (s *Stack[T]) Limit() uint32 {
	return s.limit
}

// Reset removes all elements in O(1). Chunks are dropped rather than
// zeroed, handing the values to the garbage collector; addresses taken
// before Reset keep their referents alive but no longer alias the stack.
func (s *Stack[T]) Reset() {
	s.chunks = nil
	s.size = 0
}

// MemoryUsage returns the bytes reserved by allocated chunks.
func (s *Stack[T]) MemoryUsage() int {
	var zero T
	elem := int(unsafe.Sizeof(zero))
	total := 0
	for _, c := range s.chunks {
		total += cap(c) * elem
	}
	return total
}

// All yields offsets and element addresses in push order.
func (s *Stack[T]) All() iter.Seq2[uint32, *T] {
	return func(yield func(uint32, *T) bool) {
		var r uint32
		for _, c := range s.chunks {
			for i := range c {
				if !yield(r, &c[i]) {
					return
				}
				r++
			}
		}
	}
}
