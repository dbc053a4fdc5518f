package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/internal/repository"
)

type providerRepository struct {
	next  repository.ProviderRepository
	cache *gocache.Cache

	// generation counts completed writes per id. A Get miss only fills the
	// cache if no write finished while it was reading next.
	mu         sync.Mutex
	generation map[string]uint64
}

// NewProviderRepository caches Get results of next for ttl. Writes go
// through to next and evict the cached copy.
func NewProviderRepository(next repository.ProviderRepository, ttl, cleanupInterval time.Duration) repository.ProviderRepository {
	return &providerRepository{
		next:       next,
		cache:      gocache.New(ttl, cleanupInterval),
		generation: make(map[string]uint64),
	}
}

func (r *providerRepository) Get(ctx context.Context, id string) (*model.Provider, error) {
	if v, ok := r.cache.Get(id); ok {
		return v.(*model.Provider).Clone(), nil
	}

	r.mu.Lock()
	gen := r.generation[id]
	r.mu.Unlock()

	p, err := r.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.generation[id] == gen {
		r.cache.SetDefault(id, p.Clone())
	}
	r.mu.Unlock()
	return p, nil
}

func (r *providerRepository) List(ctx context.Context) (map[string]*model.Provider, error) {
	return r.next.List(ctx)
}

func (r *providerRepository) Put(ctx context.Context, provider *model.Provider) error {
	err := r.next.Put(ctx, provider)
	r.invalidate(provider.ProviderID)
	return err
}

func (r *providerRepository) Delete(ctx context.Context, id string) error {
	err := r.next.Delete(ctx, id)
	r.invalidate(id)
	return err
}

// Exists always asks next; a cached copy may outlive the record.
func (r *providerRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.next.Exists(ctx, id)
}

func (r *providerRepository) invalidate(id string) {
	r.mu.Lock()
	r.generation[id]++
	r.cache.Delete(id)
	r.mu.Unlock()
}
