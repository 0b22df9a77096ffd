package setops

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	arrowmem "github.com/apache/arrow-go/v18/arrow/memory"
)

// binaryArray is implemented by [array.Binary] and [array.LargeBinary].
type binaryArray interface {
	arrow.Array
	Value(i int) []byte
}

// binaryReader yields byte slices borrowed from the values buffer of an
// array; no element is copied until it is appended to the output.
type binaryReader struct {
	arr binaryArray
}

func (r binaryReader) at(i int) element[[]byte] {
	if r.arr.IsNull(i) {
		return element[[]byte]{null: true}
	}
	return element[[]byte]{value: r.arr.Value(i)}
}

type binarySink struct {
	builder *array.BinaryBuilder
}

func (s binarySink) append(e element[[]byte]) {
	if e.null {
		s.builder.AppendNull()
		return
	}
	s.builder.Append(e.value)
}

func (s binarySink) len() int { return s.builder.Len() }

// binaryLists runs a set operation over lists of BINARY or LARGE_BINARY
// elements. The values of list results are given the type valueType, which
// must share the physical layout of the input element type.
func binaryLists[O offset](alloc arrowmem.Allocator, a, b listInput[O], op Operation, valueType arrow.DataType) (arrow.Array, error) {
	builder := array.NewBinaryBuilder(alloc, a.values.DataType().(arrow.BinaryDataType))
	defer builder.Release()

	st := newRowState[[]byte](op, binaryHasher{}, binarySink{builder: builder})

	if op.IsBoolean() {
		st.bools.Grow(max(a.rows(), b.rows()))
	} else {
		builder.Reserve(max(a.total(), b.total()))
	}

	var (
		readerA = binaryReader{arr: a.values.(binaryArray)}
		readerB = binaryReader{arr: b.values.(binaryArray)}
	)
	offsets, err := driveRows[[]byte, O](st, readerA, readerB, a.offsets, b.offsets)
	if err != nil {
		return nil, err
	}

	return buildResult(alloc, a, b, op, &offsets, &st.bools, func() arrow.ArrayData {
		values := builder.NewArray()
		defer values.Release()
		return retype(values.Data(), valueType)
	}), nil
}

// retype returns a new view of data with the type dt. dt must have the same
// physical layout as the type of data. The caller must release the returned
// data.
func retype(data arrow.ArrayData, dt arrow.DataType) arrow.ArrayData {
	return array.NewData(dt, data.Len(), data.Buffers(), data.Children(), data.NullN(), data.Offset())
}

// reinterpret returns a view of arr with the type dt, sharing all buffers with
// arr. The caller must release the returned array.
func reinterpret(arr arrow.Array, dt arrow.DataType) arrow.Array {
	data := retype(arr.Data(), dt)
	defer data.Release()
	return array.MakeFromData(data)
}
