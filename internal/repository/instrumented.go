package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/pkg/errors"
	"github.com/jwalitptl/provider-directory/pkg/metrics"
)

type instrumented struct {
	next    ProviderRepository
	metrics *metrics.Metrics
	backend string
}

// Instrument records operation counts and latency of next under the
// backend label.
func Instrument(next ProviderRepository, m *metrics.Metrics, backend string) ProviderRepository {
	return &instrumented{next: next, metrics: m, backend: backend}
}

func (r *instrumented) observe(operation string, start time.Time, err error) {
	status := "ok"
	switch {
	case err == nil:
	case errors.IsNotFound(err):
		status = "not_found"
	default:
		status = "error"
	}
	r.metrics.StoreOperations.WithLabelValues(r.backend, operation, status).Inc()
	r.metrics.StoreLatency.WithLabelValues(r.backend, operation).Observe(time.Since(start).Seconds())
}

func (r *instrumented) Get(ctx context.Context, id string) (p *model.Provider, err error) {
	defer func(start time.Time) { r.observe("get", start, err) }(time.Now())
	return r.next.Get(ctx, id)
}

func (r *instrumented) List(ctx context.Context) (m map[string]*model.Provider, err error) {
	defer func(start time.Time) { r.observe("list", start, err) }(time.Now())
	return r.next.List(ctx)
}

func (r *instrumented) Put(ctx context.Context, provider *model.Provider) (err error) {
	defer func(start time.Time) { r.observe("put", start, err) }(time.Now())
	return r.next.Put(ctx, provider)
}

func (r *instrumented) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { r.observe("delete", start, err) }(time.Now())
	return r.next.Delete(ctx, id)
}

func (r *instrumented) Exists(ctx context.Context, id string) (ok bool, err error) {
	defer func(start time.Time) { r.observe("exists", start, err) }(time.Now())
	return r.next.Exists(ctx, id)
}
