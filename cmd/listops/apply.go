package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/google/renameio/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/grafana/listops/pkg/setops"
)

// applyCommand applies a set operation between two list columns.
type applyCommand struct {
	global *globalFlags

	operation   string
	left, right string
	source      columnSource
	output      string
	parallelism int
	summary     bool
}

func addApplyCommand(app *kingpin.Application, global *globalFlags) {
	cmd := &applyCommand{global: global}

	names := make([]string, 0, len(setops.Operations()))
	for _, op := range setops.Operations() {
		names = append(names, op.String())
	}

	apply := app.Command("apply", "Apply a set operation between the rows of two list columns.").Action(cmd.run)
	apply.Arg("operation", "The operation to apply.").Required().EnumVar(&cmd.operation, names...)
	apply.Arg("left", `File holding the left column, or "-" for stdin.`).Required().StringVar(&cmd.left)
	apply.Arg("right", `File holding the right column, or "-" for stdin.`).Required().StringVar(&cmd.right)

	apply.Flag("format", "Format of the input files.").Default(formatJSON).EnumVar(&cmd.source.format, formatJSON, formatIPC)
	apply.Flag("element-type", "Element type of JSON input lists.").Default("int64").EnumVar(&cmd.source.elementType, elementTypeNames()...)
	apply.Flag("large", "Read JSON input as large lists.").BoolVar(&cmd.source.large)
	apply.Flag("column", "Name of the column to read from IPC input. Defaults to the first column.").StringVar(&cmd.source.column)
	apply.Flag("output", "Write the result as an Arrow IPC stream to this file instead of printing JSON.").Short('o').StringVar(&cmd.output)
	apply.Flag("parallelism", "Override the maximum number of chunk pairs evaluated concurrently.").IntVar(&cmd.parallelism)
	apply.Flag("summary", "Print a summary of the operation to stderr.").BoolVar(&cmd.summary)
}

func (cmd *applyCommand) run(_ *kingpin.ParseContext) error {
	if cmd.left == "-" && cmd.right == "-" {
		exitWithErr(errors.New("only one of left and right can be read from stdin"))
	}

	cfg, err := loadConfig(cmd.global.configFile)
	if err != nil {
		exitWithErr(err)
	}
	if cmd.parallelism > 0 {
		cfg.Evaluator.MaxParallelism = cmd.parallelism
	}

	op, err := setops.ParseOperation(cmd.operation)
	if err != nil {
		exitWithErr(err)
	}

	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	e, err := setops.New(setops.Params{
		Logger:     cmd.global.logger(),
		Registerer: prometheus.NewRegistry(),
		Allocator:  alloc,
		Config:     cfg.Evaluator,
	})
	if err != nil {
		exitWithErr(err)
	}

	start := time.Now()
	res, err := cmd.evaluate(context.Background(), e, alloc, op)
	if err != nil {
		exitWithErr(err)
	}
	defer res.Release()
	took := time.Since(start)

	if err := cmd.writeResult(alloc, res); err != nil {
		exitWithErr(err)
	}
	if cmd.summary {
		printSummary(os.Stderr, op, res, took, alloc.CurrentAlloc())
	}
	return nil
}

// evaluate reads both input columns and applies op between them.
func (cmd *applyCommand) evaluate(ctx context.Context, e *setops.Evaluator, alloc memory.Allocator, op setops.Operation) (*arrow.Chunked, error) {
	left, err := readColumnFile(alloc, cmd.left, cmd.source)
	if err != nil {
		return nil, fmt.Errorf("reading left column: %w", err)
	}
	defer left.Release()

	right, err := readColumnFile(alloc, cmd.right, cmd.source)
	if err != nil {
		return nil, fmt.Errorf("reading right column: %w", err)
	}
	defer right.Release()

	if op.IsBoolean() {
		return e.PredicateOperation(ctx, left, right, op)
	}
	return e.ListOperation(ctx, left, right, op)
}

func (cmd *applyCommand) writeResult(alloc memory.Allocator, res *arrow.Chunked) error {
	if cmd.output == "" {
		return writeJSON(os.Stdout, res)
	}

	// The output file only appears once the stream is complete.
	f, err := renameio.NewPendingFile(cmd.output)
	if err != nil {
		return err
	}
	defer func() { _ = f.Cleanup() }()

	if err := writeIPC(f, alloc, res); err != nil {
		return fmt.Errorf("writing %s: %w", cmd.output, err)
	}
	return f.CloseAtomicallyReplace()
}

func printSummary(w io.Writer, op setops.Operation, res *arrow.Chunked, took time.Duration, allocated int) {
	bold := color.New(color.Bold)
	bold.Fprintln(w, "Result:")

	var nulls int
	for _, chunk := range res.Chunks() {
		nulls += chunk.NullN()
	}

	fmt.Fprintf(w, "\toperation: %s, type: %s\n", op, res.DataType())
	fmt.Fprintf(w, "\trows: %s, null rows: %s, chunks: %d\n",
		humanize.Comma(int64(res.Len())),
		humanize.Comma(int64(nulls)),
		len(res.Chunks()),
	)
	fmt.Fprintf(w, "\tmemory: %s, took: %v\n", humanize.IBytes(uint64(allocated)), took.Round(time.Microsecond))
}
