package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/grafana/listops/pkg/util/arrowtest"
)

// rowsOf decodes the JSON output of col.
func rowsOf(t *testing.T, col *arrow.Chunked) []any {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, col))

	var rows []any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	return rows
}

func TestReadJSON(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	in := `[[1, 2], null]
[[3]]
[]
`
	src := columnSource{format: formatJSON, elementType: "int32"}
	col, err := readColumn(alloc, strings.NewReader(in), src)
	require.NoError(t, err)
	defer col.Release()

	require.True(t, arrow.TypeEqual(arrow.ListOf(arrow.PrimitiveTypes.Int32), col.DataType()))
	if diff := cmp.Diff([]int{2, 1, 0}, arrowtest.ChunkLengths(col)); diff != "" {
		t.Fatalf("unexpected chunk lengths (-want +got):\n%s", diff)
	}

	expect := []any{[]any{1.0, 2.0}, nil, []any{3.0}}
	if diff := cmp.Diff(expect, rowsOf(t, col)); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestReadJSON_Large(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	src := columnSource{format: formatJSON, elementType: "utf8", large: true}
	col, err := readColumn(alloc, strings.NewReader(`[["a"], ["b", null]]`), src)
	require.NoError(t, err)
	defer col.Release()

	require.True(t, arrow.TypeEqual(arrow.LargeListOf(arrow.BinaryTypes.String), col.DataType()))
	require.Equal(t, []any{[]any{"a"}, []any{"b", nil}}, rowsOf(t, col))
}

func TestReadJSON_Errors(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	tt := []struct {
		name string
		src  columnSource
		in   string
	}{
		{name: "unknown element type", src: columnSource{format: formatJSON, elementType: "complex128"}, in: `[]`},
		{name: "unknown format", src: columnSource{format: "csv", elementType: "int64"}, in: `[]`},
		{name: "malformed JSON", src: columnSource{format: formatJSON, elementType: "int64"}, in: `[[1], [2]`},
		{name: "wrong values", src: columnSource{format: formatJSON, elementType: "int64"}, in: `[[1]] [["a"]]`},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readColumn(alloc, strings.NewReader(tc.in), tc.src)
			require.Error(t, err)
		})
	}
}

func TestIPC_RoundTrip(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	dt := arrow.ListOf(arrow.BinaryTypes.String)
	col := arrowtest.Chunked(t, alloc, dt, `[["a", "b"], null]`, `[[], ["c"]]`)
	defer col.Release()

	var buf bytes.Buffer
	require.NoError(t, writeIPC(&buf, alloc, col))

	read, err := readColumn(alloc, &buf, columnSource{format: formatIPC, column: resultField})
	require.NoError(t, err)
	defer read.Release()

	require.True(t, arrow.TypeEqual(dt, read.DataType()))
	require.Equal(t, arrowtest.ChunkLengths(col), arrowtest.ChunkLengths(read))
	if diff := cmp.Diff(rowsOf(t, col), rowsOf(t, read)); diff != "" {
		t.Fatalf("round trip changed rows (-want +got):\n%s", diff)
	}
}

func TestReadIPC_Column(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	var (
		dt     = arrow.ListOf(arrow.PrimitiveTypes.Int64)
		schema = arrow.NewSchema([]arrow.Field{
			{Name: "ids", Type: arrow.PrimitiveTypes.Int64},
			{Name: "tags", Type: dt, Nullable: true},
		}, nil)
	)

	ids := arrowtest.Array(t, alloc, arrow.PrimitiveTypes.Int64, `[1, 2]`)
	defer ids.Release()
	tags := arrowtest.Array(t, alloc, dt, `[[7, 8], null]`)
	defer tags.Release()

	var buf bytes.Buffer
	wr := ipc.NewWriter(&buf, ipc.WithSchema(schema), ipc.WithAllocator(alloc))
	rec := array.NewRecord(schema, []arrow.Array{ids, tags}, 2)
	require.NoError(t, wr.Write(rec))
	rec.Release()
	require.NoError(t, wr.Close())

	data := buf.Bytes()

	col, err := readColumn(alloc, bytes.NewReader(data), columnSource{format: formatIPC, column: "tags"})
	require.NoError(t, err)
	defer col.Release()
	require.Equal(t, []any{[]any{7.0, 8.0}, nil}, rowsOf(t, col))

	first, err := readColumn(alloc, bytes.NewReader(data), columnSource{format: formatIPC})
	require.NoError(t, err)
	defer first.Release()
	require.Equal(t, []any{1.0, 2.0}, rowsOf(t, first))

	_, err = readColumn(alloc, bytes.NewReader(data), columnSource{format: formatIPC, column: "missing"})
	require.Error(t, err)
}

func TestElementTypeNames(t *testing.T) {
	names := elementTypeNames()
	require.Len(t, names, len(elementTypes))
	require.IsIncreasing(t, names)
	require.Contains(t, names, "int64")
}
