// Package setops implements set algebra between two list columns, row by row.
//
// For every row index, the lists from both columns are treated as sets of
// (possibly null) elements and combined into either a new list
// ([OperationIntersection], [OperationUnion], [OperationDifference],
// [OperationSymmetricDifference]) or a boolean ([OperationIsDisjoint],
// [OperationIsSubset], [OperationIsSuperset]).
//
// Results keep the first-seen order of elements: members of the left row come
// first in their original order, followed by novel members of the right row.
// A column of exactly one row is broadcast against every row of the other
// column.
package setops

import "fmt"

// Operation denotes the kind of set operation to perform between two rows.
type Operation int

// Recognized values of [Operation].
const (
	OperationIntersection        Operation = iota // Elements in both rows.
	OperationUnion                                // Elements in either row.
	OperationDifference                           // Elements of the left row not in the right row.
	OperationSymmetricDifference                  // Elements in exactly one of the rows.
	OperationIsDisjoint                           // Whether the rows share no element.
	OperationIsSubset                             // Whether the left row is contained in the right row.
	OperationIsSuperset                           // Whether the left row contains the right row.
)

var operationStrings = map[Operation]string{
	OperationIntersection:        "intersection",
	OperationUnion:               "union",
	OperationDifference:          "difference",
	OperationSymmetricDifference: "symmetric_difference",
	OperationIsDisjoint:          "is_disjoint",
	OperationIsSubset:            "is_subset",
	OperationIsSuperset:          "is_superset",
}

// String returns the snake_case name of the operation.
func (op Operation) String() string {
	if s, ok := operationStrings[op]; ok {
		return s
	}
	return fmt.Sprintf("Operation(%d)", op)
}

// IsBoolean reports whether op produces one boolean per row rather than a
// list.
func (op Operation) IsBoolean() bool {
	switch op {
	case OperationIsDisjoint, OperationIsSubset, OperationIsSuperset:
		return true
	default:
		return false
	}
}

// Operations returns all recognized operations in declaration order.
func Operations() []Operation {
	return []Operation{
		OperationIntersection,
		OperationUnion,
		OperationDifference,
		OperationSymmetricDifference,
		OperationIsDisjoint,
		OperationIsSubset,
		OperationIsSuperset,
	}
}

// ParseOperation returns the operation named s, as printed by
// [Operation.String].
func ParseOperation(s string) (Operation, error) {
	for op, name := range operationStrings {
		if name == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown set operation %q", ErrInvalidOperation, s)
}

// MarshalText implements [encoding.TextMarshaler].
func (op Operation) MarshalText() ([]byte, error) {
	if _, ok := operationStrings[op]; !ok {
		return nil, fmt.Errorf("%w: unknown set operation %d", ErrInvalidOperation, int(op))
	}
	return []byte(op.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (op *Operation) UnmarshalText(text []byte) error {
	parsed, err := ParseOperation(string(text))
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}
