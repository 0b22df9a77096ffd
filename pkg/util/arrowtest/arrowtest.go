// Package arrowtest provides helpers for building and inspecting Arrow arrays
// in tests.
package arrowtest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

// Array builds an array of type dt from its JSON representation, such as
// `[[1, 2], null, []]` for a list of integers. The caller must release the
// returned array.
func Array(t testing.TB, alloc memory.Allocator, dt arrow.DataType, s string) arrow.Array {
	t.Helper()

	arr, _, err := array.FromJSON(alloc, dt, strings.NewReader(s))
	require.NoError(t, err, "invalid JSON for %s", dt)
	return arr
}

// Chunked builds a chunked column of type dt with one chunk per JSON document
// in chunks. The caller must release the returned column.
func Chunked(t testing.TB, alloc memory.Allocator, dt arrow.DataType, chunks ...string) *arrow.Chunked {
	t.Helper()

	arrs := make([]arrow.Array, 0, len(chunks))
	for _, chunk := range chunks {
		arrs = append(arrs, Array(t, alloc, dt, chunk))
	}

	col := arrow.NewChunked(dt, arrs)
	for _, arr := range arrs {
		arr.Release()
	}
	return col
}

// JSON returns the JSON representation of arr.
func JSON(t testing.TB, arr arrow.Array) string {
	t.Helper()

	data, err := json.Marshal(arr)
	require.NoError(t, err)
	return string(data)
}

// ChunkedJSON returns the rows of every chunk of col as a single JSON array.
func ChunkedJSON(t testing.TB, col *arrow.Chunked) string {
	t.Helper()

	rows := []json.RawMessage{}
	for _, chunk := range col.Chunks() {
		var chunkRows []json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(JSON(t, chunk)), &chunkRows))
		rows = append(rows, chunkRows...)
	}

	data, err := json.Marshal(rows)
	require.NoError(t, err)
	return string(data)
}

// ChunkLengths returns the length of every chunk of col.
func ChunkLengths(col *arrow.Chunked) []int {
	lengths := make([]int, 0, len(col.Chunks()))
	for _, chunk := range col.Chunks() {
		lengths = append(lengths, chunk.Len())
	}
	return lengths
}
