package repository

import (
	"context"

	"github.com/jwalitptl/provider-directory/internal/model"
)

// ProviderRepository owns the provider collection. Get and Delete return a
// NotFound application error for unknown identifiers. Implementations hand
// out copies; mutating a returned record never changes stored state.
type ProviderRepository interface {
	Get(ctx context.Context, id string) (*model.Provider, error)
	List(ctx context.Context) (map[string]*model.Provider, error)
	Put(ctx context.Context, provider *model.Provider) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
