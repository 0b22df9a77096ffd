package setops

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	arrowmem "github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/grafana/listops/pkg/memory"
)

// numericReader reads integer elements straight from the values buffer of an
// array, so logical types backed by integers (dates, timestamps, durations)
// share the same path as plain integers.
type numericReader[T integer] struct {
	arr    arrow.Array
	values []T
}

func newNumericReader[T integer](arr arrow.Array) *numericReader[T] {
	r := &numericReader[T]{arr: arr}

	data := arr.Data()
	if buf := data.Buffers()[1]; buf != nil && data.Len() > 0 {
		r.values = memory.Reinterpret[T](buf.Bytes())[data.Offset():]
	}
	return r
}

func (r *numericReader[T]) at(i int) element[T] {
	if r.arr.IsNull(i) {
		return element[T]{null: true}
	}
	return element[T]{value: r.values[i]}
}

type numericSink[T integer] struct {
	values   memory.Buffer[T]
	validity memory.Bitmap
	nulls    int
}

func (s *numericSink[T]) grow(n int) {
	s.values.Grow(n)
	s.validity.Grow(n)
}

func (s *numericSink[T]) append(e element[T]) {
	s.values.Append(e.value) // Zero for nulls.
	s.validity.Append(!e.null)
	if e.null {
		s.nulls++
	}
}

func (s *numericSink[T]) len() int { return s.values.Len() }

// finish returns the appended values as array data of type dt. The caller
// must release the returned data.
func (s *numericSink[T]) finish(alloc arrowmem.Allocator, dt arrow.DataType) arrow.ArrayData {
	buffers := make([]*arrowmem.Buffer, 2)
	if s.nulls > 0 {
		buffers[0] = memory.Export(alloc, s.validity.Bytes())
	}
	buffers[1] = memory.Export(alloc, s.values.Bytes())

	data := array.NewData(dt, s.values.Len(), buffers, nil, s.nulls, 0)
	releaseBuffers(buffers)
	return data
}

func numericLists[T integer, O offset](alloc arrowmem.Allocator, a, b listInput[O], op Operation) (arrow.Array, error) {
	values := &numericSink[T]{}
	st := newRowState[T](op, integerHasher[T]{}, values)

	if op.IsBoolean() {
		st.bools.Grow(max(a.rows(), b.rows()))
	} else {
		values.grow(max(a.total(), b.total()))
	}

	offsets, err := driveRows[T, O](st, newNumericReader[T](a.values), newNumericReader[T](b.values), a.offsets, b.offsets)
	if err != nil {
		return nil, err
	}

	return buildResult(alloc, a, b, op, &offsets, &st.bools, func() arrow.ArrayData {
		return values.finish(alloc, a.values.DataType())
	}), nil
}
