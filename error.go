package sivec

import "fmt"

// ErrorKind classifies vector errors into categories.
type ErrorKind uint8

const (
	// InvalidCapacity indicates a capacity outside [1, MaxCapacity]
	InvalidCapacity ErrorKind = iota

	// IndexOutOfBounds indicates a logical index outside [0, Capacity())
	IndexOutOfBounds

	// Uninitialized indicates a read of a never-written slot on a vector
	// built without an initializer
	Uninitialized

	// InvalidConfig indicates a Config field other than Capacity is invalid
	InvalidConfig

	// AllocationFailed indicates the index region could not be allocated
	AllocationFailed

	// ConcurrentModification indicates the vector was mutated while an
	// iterator over it was running
	ConcurrentModification

	// Closed indicates use of a vector after Close
	Closed
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case InvalidCapacity:
		return "InvalidCapacity"
	case IndexOutOfBounds:
		return "IndexOutOfBounds"
	case Uninitialized:
		return "Uninitialized"
	case InvalidConfig:
		return "InvalidConfig"
	case AllocationFailed:
		return "AllocationFailed"
	case ConcurrentModification:
		return "ConcurrentModification"
	case Closed:
		return "Closed"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// Error is the error type returned by every fallible Vec operation.
//
// Use errors.Is with the sentinels below to test the category; the
// comparison only looks at Kind, so
//
//	errors.Is(err, sivec.ErrIndexOutOfBounds)
//
// holds for any out-of-range access regardless of the index involved.
type Error struct {
	Kind     ErrorKind
	Index    int // offending logical index, -1 when not applicable
	Capacity int
	Message  string
	Cause    error // Optional underlying error
}

// Sentinel errors for errors.Is.
var (
	ErrInvalidCapacity = &Error{Kind: InvalidCapacity, Index: -1, Message: "invalid capacity"}

	ErrIndexOutOfBounds = &Error{Kind: IndexOutOfBounds, Index: -1, Message: "index out of bounds"}

	ErrUninitialized = &Error{Kind: Uninitialized, Index: -1, Message: "read before write with no initializer"}

	ErrInvalidConfig = &Error{Kind: InvalidConfig, Index: -1, Message: "invalid config"}

	ErrAllocationFailed = &Error{Kind: AllocationFailed, Index: -1, Message: "index allocation failed"}

	ErrConcurrentModification = &Error{Kind: ConcurrentModification, Index: -1, Message: "vector modified during iteration"}

	ErrClosed = &Error{Kind: Closed, Index: -1, Message: "vector is closed"}
)

// Error implements the error interface
func (e *Error) Error() string {
	msg := "sivec: " + e.Message
	switch e.Kind {
	case IndexOutOfBounds, Uninitialized:
		if e.Index >= 0 {
			msg = fmt.Sprintf("%s: index %d, capacity %d", msg, e.Index, e.Capacity)
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error (for errors.Is/As)
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func outOfBounds(i, capacity int) error {
	return &Error{
		Kind:     IndexOutOfBounds,
		Index:    i,
		Capacity: capacity,
		Message:  "index out of bounds",
	}
}

func uninitialized(i, capacity int) error {
	return &Error{
		Kind:     Uninitialized,
		Index:    i,
		Capacity: capacity,
		Message:  "read before write with no initializer",
	}
}
