package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/internal/repository"
	"github.com/jwalitptl/provider-directory/internal/repository/memory"
	"github.com/jwalitptl/provider-directory/internal/repository/repositorytest"
	"github.com/jwalitptl/provider-directory/pkg/errors"
)

type countingRepository struct {
	repository.ProviderRepository
	gets int
}

func (c *countingRepository) Get(ctx context.Context, id string) (*model.Provider, error) {
	c.gets++
	return c.ProviderRepository.Get(ctx, id)
}

func TestProviderRepository(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) repository.ProviderRepository {
		return NewProviderRepository(memory.NewProviderRepository(), time.Minute, time.Minute)
	})
}

func TestGetIsCached(t *testing.T) {
	ctx := context.Background()
	backing := &countingRepository{ProviderRepository: memory.NewProviderRepository(repositorytest.NewProvider("a1"))}
	repo := NewProviderRepository(backing, time.Minute, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := repo.Get(ctx, "a1")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, backing.gets)
}

func TestDeletedRecordIsNeverServed(t *testing.T) {
	ctx := context.Background()
	repo := NewProviderRepository(memory.NewProviderRepository(repositorytest.NewProvider("a1")), time.Minute, time.Minute)

	_, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, "a1"))

	_, err = repo.Get(ctx, "a1")
	assert.True(t, errors.IsNotFound(err))

	ok, err := repo.Exists(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutRefreshesCache(t *testing.T) {
	ctx := context.Background()
	repo := NewProviderRepository(memory.NewProviderRepository(repositorytest.NewProvider("a1")), time.Minute, time.Minute)

	_, err := repo.Get(ctx, "a1")
	require.NoError(t, err)

	updated := repositorytest.NewProvider("a1")
	updated.Name = "Kevin Pitt"
	require.NoError(t, repo.Put(ctx, updated))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Kevin Pitt", got.Name)
}

// blockingRepository parks the first Get after it has read from the
// backend until release is closed.
type blockingRepository struct {
	repository.ProviderRepository
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (b *blockingRepository) Get(ctx context.Context, id string) (*model.Provider, error) {
	p, err := b.ProviderRepository.Get(ctx, id)
	b.once.Do(func() {
		close(b.read)
		<-b.release
	})
	return p, err
}

func TestWriteDuringGetMissIsNotOverwritten(t *testing.T) {
	tests := []struct {
		name  string
		write func(ctx context.Context, repo repository.ProviderRepository) error
		check func(t *testing.T, repo repository.ProviderRepository)
	}{
		{
			name: "delete",
			write: func(ctx context.Context, repo repository.ProviderRepository) error {
				return repo.Delete(ctx, "a1")
			},
			check: func(t *testing.T, repo repository.ProviderRepository) {
				_, err := repo.Get(context.Background(), "a1")
				assert.True(t, errors.IsNotFound(err))

				ok, err := repo.Exists(context.Background(), "a1")
				require.NoError(t, err)
				assert.False(t, ok)
			},
		},
		{
			name: "put",
			write: func(ctx context.Context, repo repository.ProviderRepository) error {
				updated := repositorytest.NewProvider("a1")
				updated.Name = "Kevin Pitt"
				return repo.Put(ctx, updated)
			},
			check: func(t *testing.T, repo repository.ProviderRepository) {
				got, err := repo.Get(context.Background(), "a1")
				require.NoError(t, err)
				assert.Equal(t, "Kevin Pitt", got.Name)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backing := &blockingRepository{
				ProviderRepository: memory.NewProviderRepository(repositorytest.NewProvider("a1")),
				read:               make(chan struct{}),
				release:            make(chan struct{}),
			}
			repo := NewProviderRepository(backing, time.Minute, time.Minute)

			done := make(chan error, 1)
			go func() {
				_, err := repo.Get(ctx, "a1")
				done <- err
			}()

			<-backing.read
			require.NoError(t, tt.write(ctx, repo))
			close(backing.release)
			require.NoError(t, <-done)

			tt.check(t, repo)
		})
	}
}

func TestExistsAsksBackend(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewProviderRepository(repositorytest.NewProvider("a1"))
	repo := NewProviderRepository(backing, time.Minute, time.Minute)

	_, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	require.NoError(t, backing.Delete(ctx, "a1"))

	ok, err := repo.Exists(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, ok)
}
