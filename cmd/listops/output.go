package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// resultField is the name of the column written to IPC output.
const resultField = "result"

// writeJSON writes the rows of col to w as a single JSON array.
func writeJSON(w io.Writer, col *arrow.Chunked) error {
	rows := make([]any, 0, col.Len())
	for _, chunk := range col.Chunks() {
		for i := range chunk.Len() {
			rows = append(rows, chunk.GetOneForMarshal(i))
		}
	}
	return json.NewEncoder(w).Encode(rows)
}

// writeIPC writes col to w as an Arrow IPC stream with a single column named
// "result". Each chunk of col is written as one record batch.
func writeIPC(w io.Writer, alloc memory.Allocator, col *arrow.Chunked) error {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: resultField, Type: col.DataType(), Nullable: true},
	}, nil)

	wr := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(alloc))
	for i, chunk := range col.Chunks() {
		rec := array.NewRecord(schema, []arrow.Array{chunk}, int64(chunk.Len()))
		err := wr.Write(rec)
		rec.Release()
		if err != nil {
			_ = wr.Close()
			return fmt.Errorf("writing batch %d: %w", i, err)
		}
	}
	return wr.Close()
}
