// Package conv provides checked integer conversions between the int-based
// public API and the uint32 back-pointers stored in the index region.
//
// Capacities are validated when a vector is built, so an overflow here is
// a programming error and panics.
package conv

import "math"

// IntToUint32 converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit platforms never need to represent MaxUint32 as int.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("sivec: int value out of uint32 range")
	}
	return uint32(n)
}

// Uint32ToInt converts a uint32 to int.
// Panics on 32-bit platforms when n does not fit in int.
//
//go:inline
func Uint32ToInt(n uint32) int {
	if uint64(n) > uint64(math.MaxInt) {
		panic("sivec: uint32 value out of int range")
	}
	return int(n)
}
