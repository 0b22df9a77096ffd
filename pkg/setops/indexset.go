package setops

import "github.com/dolthub/swiss"

// indexSet is a deduplicating set that remembers insertion order. Members are
// chained by hash so that values without a natural map key, such as byte
// slices borrowed from an Arrow buffer, can be stored without copying.
//
// An indexSet is reused across rows: clear empties it while keeping its
// allocations.
type indexSet[T any] struct {
	h       hasher[T]
	entries []setEntry[T]
	heads   *swiss.Map[uint64, int32] // hash -> index of the newest entry with that hash.
	live    int
}

type setEntry[T any] struct {
	elem    element[T]
	hash    uint64
	next    int32 // Previous entry with the same hash, or -1.
	removed bool
}

func newIndexSet[T any](h hasher[T]) *indexSet[T] {
	return &indexSet[T]{h: h, heads: swiss.NewMap[uint64, int32](16)}
}

// Len returns the number of members.
func (s *indexSet[T]) Len() int { return s.live }

func (s *indexSet[T]) clear() {
	s.entries = s.entries[:0]
	s.heads.Clear()
	s.live = 0
}

func (s *indexSet[T]) hashOf(e element[T]) uint64 {
	if e.null {
		return nullHash
	}
	return s.h.hash(e.value)
}

func (s *indexSet[T]) equal(a, b element[T]) bool {
	if a.null || b.null {
		return a.null == b.null
	}
	return s.h.equal(a.value, b.value)
}

// find returns the index of the live entry equal to e, or -1.
func (s *indexSet[T]) find(e element[T], hash uint64) int32 {
	i, ok := s.heads.Get(hash)
	if !ok {
		return -1
	}
	for ; i >= 0; i = s.entries[i].next {
		ent := &s.entries[i]
		if !ent.removed && ent.hash == hash && s.equal(ent.elem, e) {
			return i
		}
	}
	return -1
}

// insert adds e if it isn't already a member and reports whether it was
// added.
func (s *indexSet[T]) insert(e element[T]) bool {
	hash := s.hashOf(e)
	if s.find(e, hash) >= 0 {
		return false
	}

	next := int32(-1)
	if head, ok := s.heads.Get(hash); ok {
		next = head
	}
	s.entries = append(s.entries, setEntry[T]{elem: e, hash: hash, next: next})
	s.heads.Put(hash, int32(len(s.entries)-1))
	s.live++
	return true
}

func (s *indexSet[T]) contains(e element[T]) bool {
	return s.find(e, s.hashOf(e)) >= 0
}

// remove deletes e from the set. The order of the remaining members is
// unchanged.
func (s *indexSet[T]) remove(e element[T]) {
	if i := s.find(e, s.hashOf(e)); i >= 0 {
		s.entries[i].removed = true
		s.live--
	}
}

// extend inserts every element of sp.
func (s *indexSet[T]) extend(sp span[T]) {
	for i := sp.start; i < sp.end; i++ {
		s.insert(sp.at(i))
	}
}
