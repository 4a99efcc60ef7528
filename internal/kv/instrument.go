package kv

import (
	"context"
	"errors"
	"time"

	"github.com/DukeRupert/sitewalk/internal/metrics"
)

// Instrumented records Prometheus metrics for every call to the wrapped
// Store, labeled with the backend name.
type Instrumented struct {
	next    Store
	backend string
}

// Instrument wraps next with operation counters and latency histograms.
func Instrument(next Store, backend string) *Instrumented {
	return &Instrumented{next: next, backend: backend}
}

func (i *Instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := i.next.Get(ctx, key)
	metrics.KVObserved(i.backend, "get", result(err), time.Since(start))
	return value, err
}

func (i *Instrumented) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.next.Set(ctx, key, value)
	metrics.KVObserved(i.backend, "set", result(err), time.Since(start))
	return err
}

func result(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, ErrNotFound):
		return metrics.ResultMiss
	default:
		return metrics.ResultError
	}
}
