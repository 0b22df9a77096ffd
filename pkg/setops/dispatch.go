package setops

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	arrowmem "github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/grafana/listops/pkg/memory"
)

// ListArrays applies op between every row of two list arrays. a and b must
// both be LIST or both be LARGE_LIST arrays with identical element types, and
// must have the same number of rows unless one of them has exactly one row,
// in which case that row is broadcast.
//
// ListArrays returns a list array of the same type as a for list-producing
// operations, and a boolean array for predicates (see [Operation.IsBoolean]).
// Rows that are null in either input are null in the result.
//
// Supported element types are integers (including logical types stored as
// integers, such as timestamps), binary, and UTF-8 strings. Other element
// types, including booleans, result in [ErrInvalidOperation].
//
// ListArrays panics if the element types of a and b differ; callers must unify
// the input types beforehand.
func ListArrays(alloc arrowmem.Allocator, a, b arrow.Array, op Operation) (arrow.Array, error) {
	if got, want := b.DataType().ID(), a.DataType().ID(); got != want {
		return nil, fmt.Errorf("%w: list kinds differ: %s and %s", ErrTypeMismatch, a.DataType(), b.DataType())
	}

	switch a.DataType().ID() {
	case arrow.LIST:
		return dispatchElements(alloc, newListInput[int32](a), newListInput[int32](b), op)
	case arrow.LARGE_LIST:
		return dispatchElements(alloc, newListInput[int64](a), newListInput[int64](b), op)
	default:
		return nil, fmt.Errorf("%w: expected list input for %s, got %s", ErrInvalidOperation, op, a.DataType())
	}
}

func dispatchElements[O offset](alloc arrowmem.Allocator, a, b listInput[O], op Operation) (arrow.Array, error) {
	if rowsA, rowsB := a.rows(), b.rows(); rowsA != rowsB && rowsA != 1 && rowsB != 1 {
		return nil, fmt.Errorf("%w: list lengths don't match: %d != %d", ErrShapeMismatch, rowsA, rowsB)
	}

	elemType := a.values.DataType()
	if other := b.values.DataType(); !arrow.TypeEqual(elemType, other) {
		panic(fmt.Sprintf("list element types differ: %s != %s", elemType, other))
	}

	switch elemType.ID() {
	case arrow.STRING:
		return textLists(alloc, a, b, op, arrow.BinaryTypes.Binary)
	case arrow.LARGE_STRING:
		return textLists(alloc, a, b, op, arrow.BinaryTypes.LargeBinary)
	case arrow.BINARY, arrow.LARGE_BINARY:
		return binaryLists(alloc, a, b, op, elemType)

	case arrow.BOOL:
		return nil, fmt.Errorf("%w: boolean type not yet supported in list %s", ErrInvalidOperation, op)

	case arrow.INT8:
		return numericLists[int8](alloc, a, b, op)
	case arrow.UINT8:
		return numericLists[uint8](alloc, a, b, op)
	case arrow.INT16:
		return numericLists[int16](alloc, a, b, op)
	case arrow.UINT16:
		return numericLists[uint16](alloc, a, b, op)
	case arrow.INT32, arrow.DATE32, arrow.TIME32:
		return numericLists[int32](alloc, a, b, op)
	case arrow.UINT32:
		return numericLists[uint32](alloc, a, b, op)
	case arrow.INT64, arrow.DATE64, arrow.TIME64, arrow.TIMESTAMP, arrow.DURATION:
		return numericLists[int64](alloc, a, b, op)
	case arrow.UINT64:
		return numericLists[uint64](alloc, a, b, op)

	default:
		return nil, fmt.Errorf("%w: unsupported list element type %s for %s", ErrInvalidOperation, elemType, op)
	}
}

// textLists runs op over lists of UTF-8 strings by viewing their values as
// binaryType. List results are viewed as strings again before returning.
func textLists[O offset](alloc arrowmem.Allocator, a, b listInput[O], op Operation, binaryType arrow.DataType) (arrow.Array, error) {
	textType := a.values.DataType()

	valuesA := reinterpret(a.values, binaryType)
	defer valuesA.Release()
	valuesB := reinterpret(b.values, binaryType)
	defer valuesB.Release()

	a.values, b.values = valuesA, valuesB
	return binaryLists(alloc, a, b, op, textType)
}

// buildResult wraps the output of a run into a list array of the same type as
// a, or into a boolean array for predicates. values is only called for list
// results and must return data the caller may release.
func buildResult[O offset](
	alloc arrowmem.Allocator,
	a, b listInput[O],
	op Operation,
	offsets *memory.Buffer[O],
	bools *memory.Bitmap,
	values func() arrow.ArrayData,
) arrow.Array {
	rows := offsets.Len() - 1

	validity, nulls := computeRowValidity(alloc, a.arr, b.arr, rows)
	if validity != nil {
		defer validity.Release()
	}

	if op.IsBoolean() {
		boolValues := memory.Export(alloc, bools.Bytes())
		defer boolValues.Release()

		data := array.NewData(arrow.FixedWidthTypes.Boolean, rows, []*arrowmem.Buffer{validity, boolValues}, nil, nulls, 0)
		defer data.Release()
		return array.MakeFromData(data)
	}

	valuesData := values()
	defer valuesData.Release()

	offsetsBuf := memory.Export(alloc, offsets.Bytes())
	defer offsetsBuf.Release()

	data := array.NewData(a.arr.DataType(), rows, []*arrowmem.Buffer{validity, offsetsBuf}, []arrow.ArrayData{valuesData}, nulls, 0)
	defer data.Release()
	return array.MakeFromData(data)
}

func releaseBuffers(buffers []*arrowmem.Buffer) {
	for _, buf := range buffers {
		if buf != nil {
			buf.Release()
		}
	}
}
