package memory

import "github.com/grafana/listops/pkg/memory/internal/unsafecast"

// Buffer is a growable sequence of fixed-width values. The zero value is ready
// for use.
type Buffer[T any] struct {
	data []T
}

// MakeBuffer returns a Buffer with room for at least n values.
func MakeBuffer[T any](n int) Buffer[T] {
	return Buffer[T]{data: make([]T, 0, n)}
}

// Len returns the number of values in the buffer.
func (b *Buffer[T]) Len() int { return len(b.data) }

// Grow ensures there is room for n more values.
func (b *Buffer[T]) Grow(n int) {
	if n <= 0 || len(b.data)+n <= cap(b.data) {
		return
	}
	newCap := max(len(b.data)+n, 2*cap(b.data))
	data := make([]T, len(b.data), newCap)
	copy(data, b.data)
	b.data = data
}

// Append appends values to the buffer.
func (b *Buffer[T]) Append(values ...T) {
	b.Grow(len(values))
	b.data = append(b.data, values...)
}

// Data returns the values of the buffer. The slice is only valid until the
// next call that modifies b.
func (b *Buffer[T]) Data() []T { return b.data }

// Bytes returns the raw memory of the buffer.
func (b *Buffer[T]) Bytes() []byte { return unsafecast.Slice[T, byte](b.data) }
