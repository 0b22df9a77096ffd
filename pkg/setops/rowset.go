package setops

import (
	"fmt"

	"github.com/grafana/listops/pkg/memory"
)

// reader gives access to the elements of a flat values array.
type reader[T any] interface {
	at(i int) element[T]
}

// span is the [start, end) range of a reader holding one row.
type span[T any] struct {
	r          reader[T]
	start, end int
}

func (sp span[T]) at(i int) element[T] { return sp.r.at(i) }

// sink receives the members of list-producing results.
type sink[T any] interface {
	append(e element[T])

	// len returns the total number of elements appended so far.
	len() int
}

// rowState is the reusable state of a single run over two list arrays. It
// must not be shared between goroutines.
type rowState[T any] struct {
	op     Operation
	set    *indexSet[T] // Rebuilt from the left row on every call.
	set2   *indexSet[T] // Right row; prefilled once when the right side is broadcast.
	values sink[T]
	bools  memory.Bitmap
}

func newRowState[T any](op Operation, h hasher[T], values sink[T]) *rowState[T] {
	return &rowState[T]{
		op:     op,
		set:    newIndexSet(h),
		set2:   newIndexSet(h),
		values: values,
	}
}

// apply computes op between rows a and b, appending the result to the value
// sink (list operations) or to bools (predicates). apply returns the total
// number of values in the value sink afterwards.
//
// If prefilled is true, set2 already holds the members of b and is left
// untouched.
func (st *rowState[T]) apply(a, b span[T], prefilled bool) int {
	set, set2 := st.set, st.set2
	set.clear()

	switch st.op {
	case OperationIntersection:
		set.extend(a)
		st.fillRight(b, prefilled)
		for i := range set.entries {
			ent := &set.entries[i]
			if !ent.removed && set2.contains(ent.elem) {
				st.values.append(ent.elem)
			}
		}

	case OperationUnion:
		set.extend(a)
		set.extend(b)
		st.appendMembers(set, nil)

	case OperationDifference:
		set.extend(a)
		for i := b.start; i < b.end; i++ {
			set.remove(b.at(i))
		}
		st.appendMembers(set, nil)

	case OperationSymmetricDifference:
		st.fillRight(b, prefilled)
		set.extend(a)
		st.appendMembers(set, set2)
		st.appendMembers(set2, set)

	case OperationIsDisjoint:
		set.extend(a)
		st.fillRight(b, prefilled)
		st.bools.Append(isDisjoint(set, set2))

	case OperationIsSubset:
		set.extend(a)
		st.fillRight(b, prefilled)
		st.bools.Append(isSubset(set, set2))

	case OperationIsSuperset:
		set.extend(a)
		st.fillRight(b, prefilled)
		st.bools.Append(isSubset(set2, set))

	default:
		panic(fmt.Sprintf("unexpected set operation %s", st.op))
	}

	return st.values.len()
}

func (st *rowState[T]) fillRight(b span[T], prefilled bool) {
	if prefilled {
		return
	}
	st.set2.clear()
	st.set2.extend(b)
}

// appendMembers appends the members of s in insertion order, skipping those
// found in exclude (if non-nil).
func (st *rowState[T]) appendMembers(s, exclude *indexSet[T]) {
	for i := range s.entries {
		ent := &s.entries[i]
		if ent.removed || (exclude != nil && exclude.contains(ent.elem)) {
			continue
		}
		st.values.append(ent.elem)
	}
}

func isDisjoint[T any](a, b *indexSet[T]) bool {
	if a.Len() > b.Len() {
		a, b = b, a
	}
	for i := range a.entries {
		ent := &a.entries[i]
		if !ent.removed && b.contains(ent.elem) {
			return false
		}
	}
	return true
}

// isSubset reports whether every member of a is a member of b.
func isSubset[T any](a, b *indexSet[T]) bool {
	if a.Len() > b.Len() {
		return false
	}
	for i := range a.entries {
		ent := &a.entries[i]
		if !ent.removed && !b.contains(ent.elem) {
			return false
		}
	}
	return true
}
