// Package sivec provides a self-initializing vector: a fixed-capacity sparse
// array whose slots are created lazily, on first access, in O(1) time.
//
// A Vec never scans or zeroes its full capacity. It keeps two regions:
//   - an index region with one back-pointer per logical slot, whose contents
//     are not trusted until checked
//   - a dense, append-only stack of (origin, value) records, one per slot
//     that has ever been touched
//
// Slot i is initialized if and only if its back-pointer r is below the
// current record count and record r names i as its origin. A stale or
// arbitrary back-pointer fails one of the two tests, so it is never mistaken
// for a live slot. Clearing the vector only truncates the record stack,
// which invalidates every back-pointer at once: Clear is O(1) regardless of
// how many slots were in use.
//
// Basic usage:
//
//	v, err := sivec.WithValue(1_000_000, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, _ := v.GetOrInit(42) // creates slot 42 holding 0
//	*p = 7
//	_ = v.Set(99, 3)
//
//	for i, x := range v.All() {
//	    fmt.Println(i, *x) // 42 7, then 99 3
//	}
//
// Memory usage is 4 bytes per unit of capacity for the index region plus
// storage proportional to Len. Large index regions are backed by anonymous
// mappings on Linux, so untouched pages cost address space only.
//
// A Vec is not safe for concurrent use. Guard it with a sync.Mutex when it
// is shared between goroutines.
package sivec

import (
	"iter"

	"github.com/coregx/sivec/internal/conv"
	"github.com/coregx/sivec/internal/dense"
	"github.com/coregx/sivec/internal/sparse"
)

// record is one initialized slot: the logical index that created it and
// the value stored there.
type record[T any] struct {
	origin uint32
	value  T
}

// Vec is a self-initializing vector of T with a capacity fixed at
// construction.
//
// Pointers returned by GetOrInit, Lookup and All point into record storage
// that is never moved. They remain valid and keep aliasing their slot until
// the next Clear or Close; after that they are still safe to dereference
// but no longer connected to the vector.
type Vec[T any] struct {
	index    *sparse.Index
	records  *dense.Stack[record[T]]
	init     func(i int) T
	capacity int

	// mods counts mutating calls; iterators use it to detect overlap.
	mods   uint64
	closed bool
}

// New creates a Vec with the given capacity and no initializer.
//
// Reading a slot before it has been written with Set fails with
// ErrUninitialized.
func New[T any](capacity int) (*Vec[T], error) {
	return NewWithConfig[T](DefaultConfig(capacity), nil)
}

// WithValue creates a Vec whose slots start as a copy of value.
//
// The copy is a Go assignment: slices, maps and pointers held in value
// are shared between slots. Use WithFunc to build independent values.
func WithValue[T any](capacity int, value T) (*Vec[T], error) {
	return NewWithConfig(DefaultConfig(capacity), func(int) T { return value })
}

// WithFunc creates a Vec whose slot i starts as init(i).
//
// init is called exactly once per slot, the first time the slot is read
// through GetOrInit or Get. It is not called for slots first written with
// Set.
func WithFunc[T any](capacity int, init func(i int) T) (*Vec[T], error) {
	return NewWithConfig(DefaultConfig(capacity), init)
}

// NewWithConfig creates a Vec from an explicit configuration.
// init may be nil, which behaves like New.
func NewWithConfig[T any](config Config, init func(i int) T) (*Vec[T], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	index, err := sparse.New(config.Capacity, config.Backing, config.MmapThreshold)
	if err != nil {
		return nil, &Error{
			Kind:     AllocationFailed,
			Index:    -1,
			Capacity: config.Capacity,
			Message:  "index allocation failed",
			Cause:    err,
		}
	}

	return &Vec[T]{
		index:    index,
		records:  dense.New[record[T]](conv.IntToUint32(config.Capacity)),
		init:     init,
		capacity: config.Capacity,
	}, nil
}

// Must returns v or panics if err is non-nil.
//
// This is useful for vectors with capacities known to be valid:
//
//	var seen = sivec.Must(sivec.WithValue(4096, false))
func Must[T any](v *Vec[T], err error) *Vec[T] {
	if err != nil {
		panic(err)
	}
	return v
}

// slot checks i against the capacity and returns it as a back-pointer
// index.
func (v *Vec[T]) slot(i int) (uint32, error) {
	if v.closed {
		return 0, &Error{Kind: Closed, Index: i, Capacity: v.capacity, Message: "vector is closed"}
	}
	if i < 0 || i >= v.capacity {
		return 0, outOfBounds(i, v.capacity)
	}
	return conv.IntToUint32(i), nil
}

// find applies the validity check to slot s. The back-pointer is only
// trusted if it lands inside the live records and the record found there
// points back at s.
func (v *Vec[T]) find(s uint32) (*record[T], bool) {
	r := v.index.Load(s)
	if r >= v.records.Size() {
		return nil, false
	}
	rec := v.records.At(r)
	if rec.origin != s {
		return nil, false
	}
	return rec, true
}

// push records value as the first value of slot s.
func (v *Vec[T]) push(s uint32, value T) *T {
	r := v.records.Push(record[T]{origin: s, value: value})
	v.index.Store(s, r)
	v.mods++
	return &v.records.At(r).value
}

// GetOrInit returns the address of the value in slot i, creating the slot
// from the initializer if this is its first access.
//
// Returns ErrIndexOutOfBounds if i is outside [0, Capacity()), and
// ErrUninitialized if the slot is new and the Vec has no initializer.
// Neither error modifies the vector.
//
// The initializer may read the vector but must not mutate it; doing so
// panics with an error matching ErrConcurrentModification.
func (v *Vec[T]) GetOrInit(i int) (*T, error) {
	s, err := v.slot(i)
	if err != nil {
		return nil, err
	}
	if rec, ok := v.find(s); ok {
		return &rec.value, nil
	}
	if v.init == nil {
		return nil, uninitialized(i, v.capacity)
	}
	mods := v.mods
	value := v.init(i)
	if v.mods != mods {
		panic(v.modified("vector modified by initializer"))
	}
	return v.push(s, value), nil
}

// Get returns the value in slot i, creating it as GetOrInit does.
func (v *Vec[T]) Get(i int) (T, error) {
	p, err := v.GetOrInit(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// Lookup returns the address of the value in slot i if the slot is
// initialized. It never creates a slot. Out-of-range indices report false.
func (v *Vec[T]) Lookup(i int) (*T, bool) {
	s, err := v.slot(i)
	if err != nil {
		return nil, false
	}
	rec, ok := v.find(s)
	if !ok {
		return nil, false
	}
	return &rec.value, true
}

// Set stores value in slot i. An initialized slot is overwritten in place;
// a new slot is created holding value directly, without calling the
// initializer.
func (v *Vec[T]) Set(i int, value T) error {
	s, err := v.slot(i)
	if err != nil {
		return err
	}
	if rec, ok := v.find(s); ok {
		rec.value = value
		v.mods++
		return nil
	}
	v.push(s, value)
	return nil
}

// IsInitialized reports whether slot i has been created since construction
// or the last Clear. Out-of-range indices report false.
func (v *Vec[T]) IsInitialized(i int) bool {
	_, ok := v.Lookup(i)
	return ok
}

// Len returns the number of initialized slots.
func (v *Vec[T]) Len() int {
	return v.records.Len()
}

// IsEmpty reports whether no slot is initialized.
func (v *Vec[T]) IsEmpty() bool {
	return v.records.Size() == 0
}

// Capacity returns the number of logical slots fixed at construction.
func (v *Vec[T]) Capacity() int {
	return v.capacity
}

// Backing reports where the index region was allocated.
func (v *Vec[T]) Backing() Backing {
	return v.index.Backing()
}

// Clear returns every slot to the uninitialized state in O(1).
//
// The index region is left as is; its back-pointers become stale and fail
// the validity check because the record stack is empty. Stored values are
// released to the garbage collector. Clear does nothing on a closed
// vector.
func (v *Vec[T]) Clear() {
	if v.closed {
		return
	}
	v.records.Reset()
	v.mods++
}

// All returns an iterator over initialized slots as (index, value address)
// pairs, in the order the slots were first initialized.
//
// The vector must not be mutated (GetOrInit creating a slot, Set, Clear,
// Close) while the iteration runs; doing so panics with an error matching
// ErrConcurrentModification. Writing through the yielded pointer is fine.
func (v *Vec[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		mods := v.mods
		for _, rec := range v.records.All() {
			if !yield(conv.Uint32ToInt(rec.origin), &rec.value) {
				return
			}
			if v.mods != mods {
				panic(v.modified("vector modified during iteration"))
			}
		}
	}
}

func (v *Vec[T]) modified(msg string) error {
	return &Error{
		Kind:     ConcurrentModification,
		Index:    -1,
		Capacity: v.capacity,
		Message:  msg,
	}
}

// Indices returns an iterator over initialized slot indices, in the order
// the slots were first initialized. The same mutation rule as All applies.
func (v *Vec[T]) Indices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range v.All() {
			if !yield(i) {
				return
			}
		}
	}
}

// MemoryUsage returns the approximate number of bytes held by the vector:
// the index region plus allocated record chunks.
func (v *Vec[T]) MemoryUsage() int {
	return v.index.MemoryUsage() + v.records.MemoryUsage()
}

// Close releases the index region. It is only required for promptly
// returning mapped memory; unreachable vectors are released by the garbage
// collector. Every later access fails with ErrClosed. Close is idempotent.
func (v *Vec[T]) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	v.records.Reset()
	v.mods++
	if err := v.index.Close(); err != nil {
		return &Error{
			Kind:     AllocationFailed,
			Index:    -1,
			Capacity: v.capacity,
			Message:  "releasing index region",
			Cause:    err,
		}
	}
	return nil
}
