package memory

import (
	"context"
	"sync"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/internal/repository"
	"github.com/jwalitptl/provider-directory/pkg/errors"
)

type providerRepository struct {
	mu    sync.RWMutex
	items map[string]*model.Provider
}

// NewProviderRepository returns an in-memory repository preloaded with seed.
// State is lost when the process exits.
func NewProviderRepository(seed ...*model.Provider) repository.ProviderRepository {
	r := &providerRepository{items: make(map[string]*model.Provider, len(seed))}
	for _, p := range seed {
		r.items[p.ProviderID] = p.Clone()
	}
	return r
}

func (r *providerRepository) Get(ctx context.Context, id string) (*model.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("providerID not found")
	}
	return p.Clone(), nil
}

func (r *providerRepository) List(ctx context.Context) (map[string]*model.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*model.Provider, len(r.items))
	for id, p := range r.items {
		out[id] = p.Clone()
	}
	return out, nil
}

func (r *providerRepository) Put(ctx context.Context, provider *model.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[provider.ProviderID] = provider.Clone()
	return nil
}

func (r *providerRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return errors.NotFound("providerID not found")
	}
	delete(r.items, id)
	return nil
}

func (r *providerRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[id]
	return ok, nil
}
