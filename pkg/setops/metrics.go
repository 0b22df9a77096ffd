package setops

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess        = "success"
	statusInvalid        = "invalid"
	statusNotImplemented = "not_implemented"
	statusCanceled       = "canceled"
	statusFailure        = "failure"
)

type metrics struct {
	operations *prometheus.CounterVec
	rows       *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "listops_operations_total",
			Help: "Total number of set operations between list columns by operation and status.",
		}, []string{"operation", "status"}),
		rows: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "listops_rows_total",
			Help: "Total number of result rows produced by set operations.",
		}, []string{"operation"}),
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name: "listops_operation_duration_seconds",
			Help: "Time taken to evaluate a set operation between two list columns.",

			Buckets:                         prometheus.DefBuckets,
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: time.Hour,
		}, []string{"operation"}),
	}
}

// statusOf classifies err for the status label of listops_operations_total.
func statusOf(err error) string {
	switch {
	case err == nil:
		return statusSuccess
	case errors.Is(err, ErrNotImplemented):
		return statusNotImplemented
	case errors.Is(err, ErrShapeMismatch), errors.Is(err, ErrTypeMismatch), errors.Is(err, ErrInvalidOperation):
		return statusInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return statusCanceled
	default:
		return statusFailure
	}
}
