package setops

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	arrowmem "github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/grafana/listops/pkg/memory"
)

// computeRowValidity determines the validity bitmap of a result with the given
// number of rows computed from left and right. A row is only valid if it is
// valid on both sides; a broadcast side contributes the validity of its single
// row to every output row.
//
// computeRowValidity returns a nil buffer if every row is valid. Otherwise the
// caller must release the returned buffer.
func computeRowValidity(alloc arrowmem.Allocator, left, right arrow.Array, rows int) (*arrowmem.Buffer, int) {
	var (
		validity memory.Bitmap
		nulls    int
	)

	switch {
	case rows == 0:
		return nil, 0
	case left.Len() == right.Len():
		validity, nulls = computeValidityAA(left, right)
	case left.Len() == 1:
		validity, nulls = computeValiditySA(left.IsNull(0), right)
	case right.Len() == 1:
		validity, nulls = computeValidityAS(left, right.IsNull(0))
	default:
		panic("unreachable")
	}

	if nulls == 0 {
		return nil, 0
	}
	return memory.Export(alloc, validity.Bytes()), nulls
}

// computeValiditySA determines the validity of a broadcast left row against
// every row of right.
func computeValiditySA(leftNull bool, right arrow.Array) (memory.Bitmap, int) {
	switch {
	case leftNull:
		// If the broadcast row is null, everything is null.
		validity := memory.NewBitmap(right.Len())
		validity.AppendCount(false, right.Len())
		return validity, right.Len()

	case right.NullN() == 0:
		return memory.Bitmap{}, 0

	default:
		return copyValidity(right), right.NullN()
	}
}

// computeValidityAS determines the validity of every row of left against a
// broadcast right row.
func computeValidityAS(left arrow.Array, rightNull bool) (memory.Bitmap, int) {
	switch {
	case rightNull:
		validity := memory.NewBitmap(left.Len())
		validity.AppendCount(false, left.Len())
		return validity, left.Len()

	case left.NullN() == 0:
		return memory.Bitmap{}, 0

	default:
		return copyValidity(left), left.NullN()
	}
}

// computeValidityAA determines the validity of two arrays of equal length. The
// result is a logical AND of the validity; a slot is only valid if both inputs
// are valid.
func computeValidityAA(left, right arrow.Array) (memory.Bitmap, int) {
	switch {
	case left.NullN() > 0 && right.NullN() > 0:
		n := left.Len()
		validity := memory.NewBitmap(n)
		validity.Resize(n)

		bitutil.BitmapAnd(
			left.NullBitmapBytes(),
			right.NullBitmapBytes(),
			int64(left.Data().Offset()), int64(right.Data().Offset()),
			validity.Bytes(),
			0, /* out offset */
			int64(n),
		)
		return validity, n - validity.SetCount()

	case left.NullN() > 0:
		return copyValidity(left), left.NullN()

	case right.NullN() > 0:
		return copyValidity(right), right.NullN()

	default:
		return memory.Bitmap{}, 0
	}
}

func copyValidity(arr arrow.Array) memory.Bitmap {
	validity := memory.NewBitmap(arr.Len())
	validity.AppendBits(arr.NullBitmapBytes(), arr.Data().Offset(), arr.Len())
	return validity
}
