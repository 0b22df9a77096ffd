package setops

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

// nullHash is the hash of a null element. Nulls of any representation compare
// equal to each other and to nothing else.
const nullHash = 0x9e3779b97f4a7c15

// element is a single list element. The value of a null element is the zero
// value of T.
type element[T any] struct {
	value T
	null  bool
}

// hasher provides hashing and equality for non-null values of T.
type hasher[T any] interface {
	hash(v T) uint64
	equal(a, b T) bool
}

type integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type integerHasher[T integer] struct{}

// hash mixes the bits of v with the splitmix64 finalizer.
func (integerHasher[T]) hash(v T) uint64 {
	x := uint64(v)
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

func (integerHasher[T]) equal(a, b T) bool { return a == b }

type binaryHasher struct{}

func (binaryHasher) hash(v []byte) uint64 { return xxhash.Sum64(v) }

func (binaryHasher) equal(a, b []byte) bool { return bytes.Equal(a, b) }
