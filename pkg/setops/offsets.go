package setops

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/grafana/listops/pkg/memory"
)

// offset is the type of a list offset: int32 for LIST, int64 for LARGE_LIST.
type offset interface {
	~int32 | ~int64
}

// listInput is a list array split into its row offsets and flat values.
type listInput[O offset] struct {
	arr     arrow.Array
	offsets []O         // len(offsets) == rows+1, or empty for zero rows.
	values  arrow.Array // Child array, borrowed from arr.
}

func newListInput[O offset](arr arrow.Array) listInput[O] {
	var values arrow.Array
	switch arr := arr.(type) {
	case *array.List:
		values = arr.ListValues()
	case *array.LargeList:
		values = arr.ListValues()
	default:
		panic("unexpected list array type " + arr.DataType().String())
	}

	return listInput[O]{
		arr:     arr,
		offsets: listOffsets[O](arr.Data()),
		values:  values,
	}
}

// listOffsets returns the offsets of the rows exposed by data, taking the
// slice offset of data into account.
func listOffsets[O offset](data arrow.ArrayData) []O {
	if data.Len() == 0 {
		return nil
	}
	buf := data.Buffers()[1]
	if buf == nil {
		return nil
	}
	raw := memory.Reinterpret[O](buf.Bytes())
	return raw[data.Offset() : data.Offset()+data.Len()+1]
}

// rows returns the number of rows in the list.
func (in listInput[O]) rows() int { return rowCount(in.offsets) }

// total returns the number of elements referenced by all rows.
func (in listInput[O]) total() int {
	if len(in.offsets) == 0 {
		return 0
	}
	return int(in.offsets[len(in.offsets)-1] - in.offsets[0])
}

func rowCount[O offset](offsets []O) int { return max(len(offsets)-1, 0) }

func rowSpan[T any, O offset](r reader[T], offsets []O, row int) span[T] {
	return span[T]{r: r, start: int(offsets[row]), end: int(offsets[row+1])}
}
