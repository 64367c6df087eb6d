// Package sparse provides the index region of a self-initializing vector.
//
// An Index holds one uint32 back-pointer per logical position. Like the
// sparse half of a sparse set, its contents are never trusted on their own:
// a slot may still hold whatever the allocator handed out, or an offset left
// behind before the owning vector was cleared. Callers validate every Load
// against the dense record stack before acting on it.
package sparse

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"unsafe"
)

// slotSize is the size in bytes of one back-pointer.
const slotSize = int(unsafe.Sizeof(uint32(0)))

// DefaultMmapThreshold is the region size in bytes at which Auto switches
// from a heap slice to an anonymous mapping.
const DefaultMmapThreshold = 1 << 20

// ErrMmapUnsupported is returned when Mmap backing is requested on a
// platform without anonymous mapping support.
var ErrMmapUnsupported = errors.New("mmap-backed index not supported on this platform")

// Backing selects where the index region lives.
type Backing uint8

const (
	// Auto maps large regions and keeps small ones on the heap.
	Auto Backing = iota

	// Heap allocates the region as a Go slice.
	Heap

	// Mmap allocates the region as an anonymous private mapping whose pages
	// are only committed once touched.
	Mmap
)

// String returns the backing name.
func (b Backing) String() string {
	switch b {
	case Auto:
		return "Auto"
	case Heap:
		return "Heap"
	case Mmap:
		return "Mmap"
	default:
		return fmt.Sprintf("UnknownBacking(%d)", b)
	}
}

// Index is a fixed-length array of back-pointers.
type Index struct {
	slots   []uint32
	backing Backing // resolved, never Auto

	// mapping is the raw region when backing == Mmap.
	mapping []byte
	cleanup runtime.Cleanup
}

// New allocates an index region of n slots.
//
// threshold is the region size in bytes at which Auto prefers a mapping;
// it is ignored for Heap and Mmap.
func New(n int, backing Backing, threshold int) (*Index, error) {
	if n < 0 || n > math.MaxInt/slotSize {
		return nil, fmt.Errorf("index length %d out of range", n)
	}

	resolved := backing
	if backing == Auto {
		resolved = Heap
		if mmapSupported && n*slotSize >= threshold {
			resolved = Mmap
		}
	}

	switch resolved {
	case Heap:
		// Large allocations come from fresh spans that the runtime does not
		// zero eagerly, so this is not an O(n) pass in practice.
		return &Index{slots: make([]uint32, n), backing: Heap}, nil
	case Mmap:
		return newMapped(n)
	default:
		return nil, fmt.Errorf("unknown index backing %v", backing)
	}
}

func newMapped(n int) (*Index, error) {
	if n == 0 {
		return &Index{backing: Mmap}, nil
	}
	mapping, err := mapSlots(n * slotSize)
	if err != nil {
		return nil, err
	}
	idx := &Index{
		slots:   unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(mapping))), n),
		backing: Mmap,
		mapping: mapping,
	}
	// The cleanup argument must not reference idx, or idx is never collected.
	idx.cleanup = runtime.AddCleanup(idx, func(m []byte) {
		_ = unmapSlots(m)
	}, mapping)
	return idx, nil
}

// Load returns the raw back-pointer stored at slot i.
// The value may be garbage; see the package documentation.
func (x *Index) Load(i uint32) uint32 {
	return x.slots[i]
}

// Store sets the back-pointer at slot i.
func (x *Index) Store(i, r uint32) {
	x.slots[i] = r
}

// Len returns the number of slots.
func (x *Index) Len() int {
	return len(x.slots)
}

// Backing reports where the region was actually allocated.
func (x *Index) Backing() Backing {
	return x.backing
}

// MemoryUsage returns the size of the region in bytes.
// For a mapping this is reserved address space, not resident memory.
func (x *Index) MemoryUsage() int {
	return len(x.slots) * slotSize
}

// Close releases a mapped region. It is a no-op for heap regions and on
// repeated calls. The Index must not be used afterwards.
func (x *Index) Close() error {
	if x.mapping == nil {
		x.slots = nil
		return nil
	}
	x.cleanup.Stop()
	mapping := x.mapping
	x.mapping = nil
	x.slots = nil
	return unmapSlots(mapping)
}
