package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/internal/repository"
	"github.com/jwalitptl/provider-directory/pkg/errors"
)

const (
	queryGetProvider    = `SELECT data FROM providers WHERE provider_id = $1`
	queryListProviders  = `SELECT provider_id, data FROM providers`
	queryUpsertProvider = `
		INSERT INTO providers (provider_id, data)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (provider_id) DO UPDATE SET data = EXCLUDED.data`
	queryDeleteProvider = `DELETE FROM providers WHERE provider_id = $1`
	queryProviderExists = `SELECT EXISTS(SELECT 1 FROM providers WHERE provider_id = $1)`
)

type providerRepository struct {
	db *sqlx.DB
}

type providerRow struct {
	ProviderID string `db:"provider_id"`
	Data       []byte `db:"data"`
}

// NewProviderRepository stores each record as a JSONB document keyed by id.
func NewProviderRepository(db *sqlx.DB) repository.ProviderRepository {
	return &providerRepository{db: db}
}

func (r *providerRepository) Get(ctx context.Context, id string) (*model.Provider, error) {
	var data []byte
	if err := r.db.GetContext(ctx, &data, queryGetProvider, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("providerID not found")
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return decode(data)
}

func (r *providerRepository) List(ctx context.Context) (map[string]*model.Provider, error) {
	var rows []providerRow
	if err := r.db.SelectContext(ctx, &rows, queryListProviders); err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	out := make(map[string]*model.Provider, len(rows))
	for _, row := range rows {
		p, err := decode(row.Data)
		if err != nil {
			return nil, err
		}
		out[row.ProviderID] = p
	}
	return out, nil
}

func (r *providerRepository) Put(ctx context.Context, provider *model.Provider) error {
	data, err := json.Marshal(provider)
	if err != nil {
		return fmt.Errorf("failed to encode provider: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, queryUpsertProvider, provider.ProviderID, string(data)); err != nil {
		return fmt.Errorf("failed to store provider: %w", err)
	}
	return nil
}

func (r *providerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, queryDeleteProvider, id)
	if err != nil {
		return fmt.Errorf("failed to delete provider: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete provider: %w", err)
	}
	if n == 0 {
		return errors.NotFound("providerID not found")
	}
	return nil
}

func (r *providerRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, queryProviderExists, id); err != nil {
		return false, fmt.Errorf("failed to check provider: %w", err)
	}
	return exists, nil
}

func decode(data []byte) (*model.Provider, error) {
	var p model.Provider
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode provider: %w", err)
	}
	return &p, nil
}
