// Package memory provides growable, Go-heap backed buffers used while
// materializing columnar results.
//
// Buffers in this package are single-writer: they grow through appends while a
// result is built and are then handed to Arrow with [Export], after which they
// should no longer be modified.
package memory

import (
	arrowmem "github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/grafana/listops/pkg/memory/internal/unsafecast"
)

// Export copies src into a new buffer owned by alloc. The caller is
// responsible for releasing the returned buffer.
func Export(alloc arrowmem.Allocator, src []byte) *arrowmem.Buffer {
	buf := arrowmem.NewResizableBuffer(alloc)
	buf.Resize(len(src))
	copy(buf.Bytes(), src)
	return buf
}

// Reinterpret returns the bytes of b viewed as a slice of T. No data is
// copied; the result aliases b.
func Reinterpret[T any](b []byte) []T {
	return unsafecast.Slice[byte, T](b)
}
