package setops

import "errors"

var (
	// ErrShapeMismatch is returned when the row counts of two inputs are
	// neither equal nor broadcastable.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidOperation is returned when an operation can't be applied to
	// the given inputs, such as an unsupported element type.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrTypeMismatch is returned when two input columns don't share the same
	// list type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrOffsetOverflow is returned when a list result holds more elements
	// than the offsets of its list type can address.
	ErrOffsetOverflow = errors.New("list offset overflow")

	// ErrNotImplemented is returned for operations that are recognized but not
	// yet supported.
	ErrNotImplemented = errors.New("not implemented")
)
