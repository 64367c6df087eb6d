package sivec

import (
	"fmt"
	"math"

	"github.com/coregx/sivec/internal/sparse"
)

// MaxCapacity is the largest supported capacity. Back-pointers and record
// origins are stored as uint32.
const MaxCapacity uint64 = math.MaxUint32

// Backing selects where the index region (one back-pointer per logical
// slot) is allocated.
type Backing = sparse.Backing

const (
	// BackingAuto uses an anonymous mapping for regions of at least
	// Config.MmapThreshold bytes where the platform supports it, and the
	// Go heap otherwise.
	BackingAuto = sparse.Auto

	// BackingHeap always allocates the index region as a Go slice.
	BackingHeap = sparse.Heap

	// BackingMmap always uses an anonymous private mapping. Pages are
	// committed on first write, so a huge, sparsely used vector only pays
	// for what it touches. Only available on Linux.
	BackingMmap = sparse.Mmap
)

// Config controls how a Vec is allocated.
//
// Example:
//
//	config := sivec.DefaultConfig(1 << 30)
//	config.Backing = sivec.BackingMmap
//	v, err := sivec.NewWithConfig[int](config, nil)
type Config struct {
	// Capacity is the fixed number of logical slots.
	// Valid range: 1 to MaxCapacity.
	Capacity int

	// Backing selects the index region allocator.
	// Default: BackingAuto
	Backing Backing

	// MmapThreshold is the index region size in bytes from which
	// BackingAuto prefers a mapping over the heap. Ignored otherwise.
	// Default: 1 MiB
	MmapThreshold int
}

// DefaultConfig returns a configuration for the given capacity with
// automatic index backing.
func DefaultConfig(capacity int) Config {
	return Config{
		Capacity:      capacity,
		Backing:       BackingAuto,
		MmapThreshold: sparse.DefaultMmapThreshold,
	}
}

// Validate checks if the configuration is valid.
// Capacity problems are reported as InvalidCapacity, everything else as
// InvalidConfig.
func (c Config) Validate() error {
	if c.Capacity < 1 || uint64(c.Capacity) > MaxCapacity {
		return &Error{
			Kind:     InvalidCapacity,
			Index:    -1,
			Capacity: c.Capacity,
			Message:  fmt.Sprintf("invalid capacity %d: must be between 1 and %d", c.Capacity, MaxCapacity),
		}
	}

	switch c.Backing {
	case BackingAuto, BackingHeap, BackingMmap:
	default:
		return &Error{
			Kind:     InvalidConfig,
			Index:    -1,
			Capacity: c.Capacity,
			Message:  "invalid config: Backing: unknown value " + c.Backing.String(),
		}
	}

	if c.MmapThreshold < 0 {
		return &Error{
			Kind:     InvalidConfig,
			Index:    -1,
			Capacity: c.Capacity,
			Message:  "invalid config: MmapThreshold: must not be negative",
		}
	}

	return nil
}
