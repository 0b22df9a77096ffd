package setops

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	arrowmem "github.com/apache/arrow-go/v18/arrow/memory"
)

// runner calls fn for every index in [0, n), stopping at the first error.
type runner func(n int, fn func(i int) error) error

func runSequential(n int, fn func(i int) error) error {
	for i := range n {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}

// ListColumns applies the list-producing operation op between every row of
// two list columns, returning a new column of the same type as a.
//
// a and b must have the same type, and either the same length or a length of
// one; a column of length one is broadcast against every row of the other
// column. ListColumns returns [ErrShapeMismatch], [ErrTypeMismatch], or
// [ErrInvalidOperation] when these conditions aren't met, or when op is a
// predicate. No partial result is returned on failure.
func ListColumns(alloc arrowmem.Allocator, a, b *arrow.Chunked, op Operation) (*arrow.Chunked, error) {
	return listColumns(alloc, a, b, op, runSequential)
}

func listColumns(alloc arrowmem.Allocator, a, b *arrow.Chunked, op Operation, run runner) (*arrow.Chunked, error) {
	if op.IsBoolean() {
		return nil, fmt.Errorf("%w: %s produces booleans, not lists", ErrInvalidOperation, op)
	}

	pairs, err := pairColumns(alloc, a, b)
	if err != nil {
		return nil, err
	}
	defer releasePairs(pairs)

	results := make([]arrow.Array, len(pairs))
	defer func() {
		for _, res := range results {
			if res != nil {
				res.Release()
			}
		}
	}()

	err = run(len(pairs), func(i int) error {
		res, err := ListArrays(alloc, pairs[i].left, pairs[i].right, op)
		if err != nil {
			return err
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return arrow.NewChunked(a.DataType(), results), nil
}

// BoolColumns validates the inputs of a predicate operation between two list
// columns. Producing boolean columns isn't supported yet: after validation
// BoolColumns always returns [ErrNotImplemented].
func BoolColumns(_ arrowmem.Allocator, a, b *arrow.Chunked, op Operation) (*arrow.Chunked, error) {
	if !op.IsBoolean() {
		return nil, fmt.Errorf("%w: %s produces lists, not booleans", ErrInvalidOperation, op)
	}
	if err := validateColumns(a, b); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s between list columns", ErrNotImplemented, op)
}

// validateColumns checks that a and b can be combined row by row.
func validateColumns(a, b *arrow.Chunked) error {
	if lenA, lenB := a.Len(), b.Len(); lenA != lenB && lenA != 1 && lenB != 1 {
		return fmt.Errorf("%w: column lengths don't match: %d != %d", ErrShapeMismatch, lenA, lenB)
	}
	if !arrow.TypeEqual(a.DataType(), b.DataType()) {
		return fmt.Errorf("%w: %s and %s", ErrTypeMismatch, a.DataType(), b.DataType())
	}
	switch a.DataType().ID() {
	case arrow.LIST, arrow.LARGE_LIST:
		return nil
	default:
		return fmt.Errorf("%w: expected list columns, got %s", ErrInvalidOperation, a.DataType())
	}
}

// pairColumns validates a and b and splits them into pairs of arrays that can
// be passed to [ListArrays]. When broadcasting, each column is concatenated
// into a single array first.
func pairColumns(alloc arrowmem.Allocator, a, b *arrow.Chunked) ([]chunkPair, error) {
	if err := validateColumns(a, b); err != nil {
		return nil, err
	}
	if a.Len() == b.Len() {
		return alignChunks(a, b), nil
	}

	left, err := concatChunks(alloc, a)
	if err != nil {
		return nil, fmt.Errorf("rechunking left column: %w", err)
	}
	right, err := concatChunks(alloc, b)
	if err != nil {
		left.Release()
		return nil, fmt.Errorf("rechunking right column: %w", err)
	}
	return []chunkPair{{left: left, right: right}}, nil
}
