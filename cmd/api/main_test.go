package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/provider-directory/internal/config"
	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/internal/repository/memory"
	"github.com/jwalitptl/provider-directory/internal/repository/repositorytest"
)

func TestSeedFillsEmptyStore(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProviderRepository()

	require.NoError(t, seed(ctx, repo, zerolog.Nop()))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(model.SeedProviders()))
}

func TestSeedLogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, seed(context.Background(), memory.NewProviderRepository(), zerolog.New(&buf)))
	assert.Contains(t, buf.String(), "seeded provider store")
	assert.Contains(t, buf.String(), fmt.Sprintf(`"count":%d`, len(model.SeedProviders())))
}

func TestSeedLeavesExistingData(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProviderRepository(repositorytest.NewProvider("a1"))

	require.NoError(t, seed(ctx, repo, zerolog.Nop()))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOpenFileRepository(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{
		Backend:  config.BackendFile,
		FilePath: filepath.Join(t.TempDir(), "providers.json"),
	}}

	repo, closeRepo, err := openRepository(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeRepo()

	require.NoError(t, repo.Put(context.Background(), repositorytest.NewProvider("a1")))
	assert.FileExists(t, cfg.Store.FilePath)
}
