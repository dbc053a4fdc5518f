package repository_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/provider-directory/internal/repository"
	"github.com/jwalitptl/provider-directory/internal/repository/memory"
	"github.com/jwalitptl/provider-directory/internal/repository/repositorytest"
	"github.com/jwalitptl/provider-directory/pkg/metrics"
)

func TestInstrument(t *testing.T) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	repo := repository.Instrument(memory.NewProviderRepository(), m, "memory")
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, repositorytest.NewProvider("a1")))
	_, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	_, err = repo.Get(ctx, "missing")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("memory", "put", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("memory", "get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("memory", "get", "not_found")))
}

func TestInstrumentedContract(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) repository.ProviderRepository {
		m := metrics.NewMetrics("test", prometheus.NewRegistry())
		return repository.Instrument(memory.NewProviderRepository(), m, "memory")
	})
}
