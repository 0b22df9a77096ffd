package setops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOperation_String(t *testing.T) {
	expect := []string{
		"intersection",
		"union",
		"difference",
		"symmetric_difference",
		"is_disjoint",
		"is_subset",
		"is_superset",
	}

	var actual []string
	for _, op := range Operations() {
		actual = append(actual, op.String())
	}
	require.Equal(t, expect, actual)

	require.Equal(t, "Operation(42)", Operation(42).String())
}

func TestOperation_IsBoolean(t *testing.T) {
	tt := map[Operation]bool{
		OperationIntersection:        false,
		OperationUnion:               false,
		OperationDifference:          false,
		OperationSymmetricDifference: false,
		OperationIsDisjoint:          true,
		OperationIsSubset:            true,
		OperationIsSuperset:          true,
	}
	for op, expect := range tt {
		require.Equal(t, expect, op.IsBoolean(), "unexpected result for %s", op)
	}
}

func TestParseOperation(t *testing.T) {
	for _, op := range Operations() {
		parsed, err := ParseOperation(op.String())
		require.NoError(t, err)
		require.Equal(t, op, parsed)
	}

	_, err := ParseOperation("cartesian_product")
	require.ErrorIs(t, err, ErrInvalidOperation)
}

func TestOperation_Text(t *testing.T) {
	var op Operation
	require.NoError(t, op.UnmarshalText([]byte("is_subset")))
	require.Equal(t, OperationIsSubset, op)

	text, err := op.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "is_subset", string(text))

	_, err = Operation(-1).MarshalText()
	require.ErrorIs(t, err, ErrInvalidOperation)
}
