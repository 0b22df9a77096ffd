package setops

import (
	"context"
	"errors"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	arrowmem "github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("pkg/setops")

// Params holds parameters for constructing a new [Evaluator].
type Params struct {
	Logger     log.Logger            // Logger for optional log messages.
	Registerer prometheus.Registerer // Registerer for optional metrics.
	Allocator  arrowmem.Allocator    // Allocator for results; defaults to [arrowmem.DefaultAllocator].

	Config Config // Config for the Evaluator.
}

// validate validates p and applies defaults.
func (p *Params) validate() error {
	if p.Logger == nil {
		p.Logger = log.NewNopLogger()
	}
	if p.Registerer == nil {
		p.Registerer = prometheus.NewRegistry()
	}
	if p.Allocator == nil {
		p.Allocator = arrowmem.DefaultAllocator
	}
	return p.Config.Validate()
}

// Evaluator evaluates set operations between list columns, reporting logs,
// metrics, and traces for each operation. Evaluator is safe for concurrent
// use.
type Evaluator struct {
	logger  log.Logger
	metrics *metrics
	alloc   arrowmem.Allocator
	cfg     Config
}

// New creates a new Evaluator.
func New(params Params) (*Evaluator, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	return &Evaluator{
		logger:  params.Logger,
		metrics: newMetrics(params.Registerer),
		alloc:   params.Allocator,
		cfg:     params.Config,
	}, nil
}

// ListOperation applies the list-producing operation op between every row of
// a and b. See [ListColumns] for the requirements on a and b.
//
// Aligned chunk pairs of a and b are evaluated concurrently up to the
// configured parallelism. Cancelling ctx stops evaluating pairs that haven't
// started yet.
func (e *Evaluator) ListOperation(ctx context.Context, a, b *arrow.Chunked, op Operation) (*arrow.Chunked, error) {
	return e.evaluate(ctx, op, a, b, func(run runner) (*arrow.Chunked, error) {
		return listColumns(e.alloc, a, b, op, run)
	})
}

// PredicateOperation applies the predicate op between every row of a and b.
// See [BoolColumns].
func (e *Evaluator) PredicateOperation(ctx context.Context, a, b *arrow.Chunked, op Operation) (*arrow.Chunked, error) {
	return e.evaluate(ctx, op, a, b, func(runner) (*arrow.Chunked, error) {
		return BoolColumns(e.alloc, a, b, op)
	})
}

func (e *Evaluator) evaluate(ctx context.Context, op Operation, a, b *arrow.Chunked, fn func(runner) (*arrow.Chunked, error)) (*arrow.Chunked, error) {
	ctx, span := tracer.Start(ctx, "setops.Evaluate", trace.WithAttributes(
		attribute.Stringer("operation", op),
		attribute.Int("left_rows", a.Len()),
		attribute.Int("right_rows", b.Len()),
		attribute.Int("left_chunks", len(a.Chunks())),
		attribute.Int("right_chunks", len(b.Chunks())),
	))
	defer span.End()

	logger := log.With(e.logger, "operation", op, "left_rows", a.Len(), "right_rows", b.Len())
	start := time.Now()

	res, err := fn(e.runner(ctx))
	took := time.Since(start)

	e.metrics.duration.WithLabelValues(op.String()).Observe(took.Seconds())
	e.metrics.operations.WithLabelValues(op.String(), statusOf(err)).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "set operation failed")

		if errors.Is(err, ErrNotImplemented) {
			level.Debug(logger).Log("msg", "set operation not implemented", "err", err)
		} else {
			level.Error(logger).Log("msg", "set operation failed", "duration", took, "err", err)
		}
		return nil, err
	}

	e.metrics.rows.WithLabelValues(op.String()).Add(float64(res.Len()))
	span.SetAttributes(
		attribute.Int("result_rows", res.Len()),
		attribute.Int("result_chunks", len(res.Chunks())),
	)
	span.SetStatus(codes.Ok, "")

	if threshold := e.cfg.SlowOperationThreshold; threshold > 0 && took >= threshold {
		level.Warn(logger).Log("msg", "slow set operation", "duration", took, "threshold", threshold, "result_rows", res.Len())
	} else {
		level.Debug(logger).Log("msg", "set operation finished", "duration", took, "result_rows", res.Len())
	}
	return res, nil
}

// runner returns a runner evaluating up to MaxParallelism indices at a time.
// Indices that haven't started when ctx is cancelled are skipped.
func (e *Evaluator) runner(ctx context.Context) runner {
	return func(n int, fn func(i int) error) error {
		if e.cfg.MaxParallelism <= 1 || n <= 1 {
			return runSequential(n, func(i int) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return fn(i)
			})
		}

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(e.cfg.MaxParallelism)

		for i := range n {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return fn(i)
			})
		}
		return g.Wait()
	}
}
