package setops

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	arrowmem "github.com/apache/arrow-go/v18/arrow/memory"
)

// chunkPair is a pair of arrays covering the same rows of two columns. Both
// arrays are owned by the pair.
type chunkPair struct {
	left, right arrow.Array
}

func releasePairs(pairs []chunkPair) {
	for _, p := range pairs {
		p.left.Release()
		p.right.Release()
	}
}

// alignChunks slices a and b at the union of their chunk boundaries, so that
// the i-th pair of the result covers the same rows of both columns. a and b
// must have the same length. Empty chunks are skipped.
func alignChunks(a, b *arrow.Chunked) []chunkPair {
	var (
		pairs            []chunkPair
		chunksA, chunksB = a.Chunks(), b.Chunks()

		idxA, idxB int   // Current chunk.
		posA, posB int64 // Position within the current chunk.
	)

	for {
		for idxA < len(chunksA) && posA == int64(chunksA[idxA].Len()) {
			idxA, posA = idxA+1, 0
		}
		for idxB < len(chunksB) && posB == int64(chunksB[idxB].Len()) {
			idxB, posB = idxB+1, 0
		}
		if idxA == len(chunksA) || idxB == len(chunksB) {
			return pairs
		}

		chunkA, chunkB := chunksA[idxA], chunksB[idxB]
		n := min(int64(chunkA.Len())-posA, int64(chunkB.Len())-posB)

		pairs = append(pairs, chunkPair{
			left:  sliceChunk(chunkA, posA, posA+n),
			right: sliceChunk(chunkB, posB, posB+n),
		})
		posA += n
		posB += n
	}
}

// sliceChunk returns the rows [i, j) of arr. The caller must release the
// returned array.
func sliceChunk(arr arrow.Array, i, j int64) arrow.Array {
	if i == 0 && j == int64(arr.Len()) {
		arr.Retain()
		return arr
	}
	return array.NewSlice(arr, i, j)
}

// concatChunks returns all chunks of c as a single array. The caller must
// release the returned array.
func concatChunks(alloc arrowmem.Allocator, c *arrow.Chunked) (arrow.Array, error) {
	chunks := c.Chunks()
	switch len(chunks) {
	case 0:
		builder := array.NewBuilder(alloc, c.DataType())
		defer builder.Release()
		return builder.NewArray(), nil
	case 1:
		chunks[0].Retain()
		return chunks[0], nil
	default:
		return array.Concatenate(chunks, alloc)
	}
}
