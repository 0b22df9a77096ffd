package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/grafana/listops/pkg/setops"
	"github.com/grafana/listops/pkg/util/arrowtest"
)

func TestApplyCommand_Evaluate(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	dir := t.TempDir()
	left := filepath.Join(dir, "left.json")
	right := filepath.Join(dir, "right.json")
	require.NoError(t, os.WriteFile(left, []byte("[[\"a\", \"b\", \"a\"], [\"c\"]]\n[null]\n"), 0o600))
	require.NoError(t, os.WriteFile(right, []byte(`[["b"], ["d"], ["e"]]`), 0o600))

	cmd := &applyCommand{
		left:   left,
		right:  right,
		source: columnSource{format: formatJSON, elementType: "utf8"},
	}

	e, err := setops.New(setops.Params{Allocator: alloc, Config: setops.Config{MaxParallelism: 2}})
	require.NoError(t, err)

	res, err := cmd.evaluate(context.Background(), e, alloc, setops.OperationUnion)
	require.NoError(t, err)
	defer res.Release()

	expect := []any{[]any{"a", "b"}, []any{"c", "d"}, nil}
	if diff := cmp.Diff(expect, rowsOf(t, res)); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}

	_, err = cmd.evaluate(context.Background(), e, alloc, setops.OperationIsSubset)
	require.ErrorIs(t, err, setops.ErrNotImplemented)
}

func TestApplyCommand_MissingInput(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	cmd := &applyCommand{
		left:   filepath.Join(t.TempDir(), "missing.json"),
		right:  filepath.Join(t.TempDir(), "missing.json"),
		source: columnSource{format: formatJSON, elementType: "int64"},
	}

	e, err := setops.New(setops.Params{Allocator: alloc, Config: setops.Config{MaxParallelism: 1}})
	require.NoError(t, err)

	_, err = cmd.evaluate(context.Background(), e, alloc, setops.OperationUnion)
	require.Error(t, err)
}

func TestApplyCommand_WriteIPC(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	res := arrowtest.Chunked(t, alloc, arrow.ListOf(arrow.PrimitiveTypes.Uint32), `[[1, 2]]`, `[null, []]`)
	defer res.Release()

	path := filepath.Join(t.TempDir(), "result.arrow")
	cmd := &applyCommand{output: path}
	require.NoError(t, cmd.writeResult(alloc, res))

	read, err := readColumnFile(alloc, path, columnSource{format: formatIPC})
	require.NoError(t, err)
	defer read.Release()

	require.Equal(t, []int{1, 2}, arrowtest.ChunkLengths(read))
	require.Equal(t, rowsOf(t, res), rowsOf(t, read))
}
