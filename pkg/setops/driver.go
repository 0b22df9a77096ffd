package setops

import (
	"fmt"

	"github.com/grafana/listops/pkg/memory"
)

// driveRows walks the offsets of both inputs in lock-step, applies st to every
// row pair, and returns the offsets of the materialized output.
//
// A side with exactly one row is broadcast against every row of the other
// side. If the right side is broadcast, its set is built once up front and
// reused for every row. If either side has no rows, the output has no rows.
//
// driveRows returns [ErrOffsetOverflow] if the output grows past the largest
// offset representable by O.
func driveRows[T any, O offset](st *rowState[T], a, b reader[T], offsetsA, offsetsB []O) (memory.Buffer[O], error) {
	rowsA, rowsB := rowCount(offsetsA), rowCount(offsetsB)
	if rowsA == 0 || rowsB == 0 {
		out := memory.MakeBuffer[O](1)
		out.Append(0)
		return out, nil
	}

	rows := max(rowsA, rowsB)
	out := memory.MakeBuffer[O](rows + 1)
	out.Append(0)

	switch {
	case rowsB == 1:
		right := rowSpan(b, offsetsB, 0)
		st.set2.clear()
		st.set2.extend(right)

		for i := range rows {
			n := st.apply(rowSpan(a, offsetsA, i), right, true)
			if err := appendOffset(&out, n); err != nil {
				return out, err
			}
		}

	case rowsA == 1:
		left := rowSpan(a, offsetsA, 0)
		for i := range rows {
			n := st.apply(left, rowSpan(b, offsetsB, i), false)
			if err := appendOffset(&out, n); err != nil {
				return out, err
			}
		}

	default:
		for i := range rows {
			n := st.apply(rowSpan(a, offsetsA, i), rowSpan(b, offsetsB, i), false)
			if err := appendOffset(&out, n); err != nil {
				return out, err
			}
		}
	}

	return out, nil
}

// appendOffset appends the end offset n of a row to out.
func appendOffset[O offset](out *memory.Buffer[O], n int) error {
	if int64(O(n)) != int64(n) {
		return fmt.Errorf("%w: %d elements don't fit %T offsets", ErrOffsetOverflow, n, O(0))
	}
	out.Append(O(n))
	return nil
}
