package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

const (
	formatJSON = "json"
	formatIPC  = "ipc"
)

var elementTypes = map[string]arrow.DataType{
	"int8":         arrow.PrimitiveTypes.Int8,
	"int16":        arrow.PrimitiveTypes.Int16,
	"int32":        arrow.PrimitiveTypes.Int32,
	"int64":        arrow.PrimitiveTypes.Int64,
	"uint8":        arrow.PrimitiveTypes.Uint8,
	"uint16":       arrow.PrimitiveTypes.Uint16,
	"uint32":       arrow.PrimitiveTypes.Uint32,
	"uint64":       arrow.PrimitiveTypes.Uint64,
	"date32":       arrow.FixedWidthTypes.Date32,
	"date64":       arrow.FixedWidthTypes.Date64,
	"utf8":         arrow.BinaryTypes.String,
	"large_utf8":   arrow.BinaryTypes.LargeString,
	"binary":       arrow.BinaryTypes.Binary,
	"large_binary": arrow.BinaryTypes.LargeBinary,
	"bool":         arrow.FixedWidthTypes.Boolean,
	"float64":      arrow.PrimitiveTypes.Float64,
}

// elementTypeNames returns the sorted names accepted by --element-type.
func elementTypeNames() []string {
	names := make([]string, 0, len(elementTypes))
	for name := range elementTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// columnSource describes where and how to read a list column.
type columnSource struct {
	format      string
	elementType string // JSON only.
	large       bool   // JSON only: read LARGE_LIST instead of LIST.
	column      string // IPC only: field name; the first field if empty.
}

// listType returns the list type of JSON input.
func (src columnSource) listType() (arrow.DataType, error) {
	elem, ok := elementTypes[src.elementType]
	if !ok {
		return nil, fmt.Errorf("unknown element type %q", src.elementType)
	}
	if src.large {
		return arrow.LargeListOf(elem), nil
	}
	return arrow.ListOf(elem), nil
}

// readColumnFile reads a column from the file at path, or from stdin if path
// is "-". The caller must release the returned column.
func readColumnFile(alloc memory.Allocator, path string, src columnSource) (*arrow.Chunked, error) {
	if path == "-" {
		return readColumn(alloc, os.Stdin, src)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	col, err := readColumn(alloc, f, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return col, nil
}

func readColumn(alloc memory.Allocator, r io.Reader, src columnSource) (*arrow.Chunked, error) {
	switch src.format {
	case formatJSON:
		dt, err := src.listType()
		if err != nil {
			return nil, err
		}
		return readJSON(alloc, r, dt)
	case formatIPC:
		return readIPC(alloc, r, src.column)
	default:
		return nil, fmt.Errorf("unknown input format %q", src.format)
	}
}

// readJSON reads a column of type dt from a stream of JSON arrays. Each array
// becomes one chunk of the column.
func readJSON(alloc memory.Allocator, r io.Reader, dt arrow.DataType) (*arrow.Chunked, error) {
	var chunks []arrow.Array
	defer func() {
		for _, chunk := range chunks {
			chunk.Release()
		}
	}()

	dec := json.NewDecoder(r)
	for {
		var doc json.RawMessage
		if err := dec.Decode(&doc); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decoding chunk %d: %w", len(chunks), err)
		}

		chunk, _, err := array.FromJSON(alloc, dt, bytes.NewReader(doc))
		if err != nil {
			return nil, fmt.Errorf("chunk %d is not a valid %s array: %w", len(chunks), dt, err)
		}
		chunks = append(chunks, chunk)
	}

	return arrow.NewChunked(dt, chunks), nil
}

// readIPC reads the column named column (or the first column) from every
// record batch of an Arrow IPC stream. Each batch becomes one chunk of the
// column.
func readIPC(alloc memory.Allocator, r io.Reader, column string) (*arrow.Chunked, error) {
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(alloc))
	if err != nil {
		return nil, fmt.Errorf("opening IPC stream: %w", err)
	}
	defer rdr.Release()

	schema := rdr.Schema()
	idx := 0
	if column != "" {
		indices := schema.FieldIndices(column)
		if len(indices) == 0 {
			return nil, fmt.Errorf("column %q not found in schema %s", column, schema)
		}
		idx = indices[0]
	}
	if idx >= len(schema.Fields()) {
		return nil, errors.New("IPC stream has no columns")
	}

	var chunks []arrow.Array
	defer func() {
		for _, chunk := range chunks {
			chunk.Release()
		}
	}()

	for rdr.Next() {
		chunk := rdr.Record().Column(idx)
		chunk.Retain()
		chunks = append(chunks, chunk)
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("reading IPC stream: %w", err)
	}

	return arrow.NewChunked(schema.Field(idx).Type, chunks), nil
}
