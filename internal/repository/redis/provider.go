package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/internal/repository"
	"github.com/jwalitptl/provider-directory/pkg/errors"
)

type providerRepository struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
	key    string
}

// NewProviderRepository keeps every record as a JSON value in one hash,
// <prefix>providers, keyed by provider id. Calls run through a circuit
// breaker so an unreachable server fails fast.
func NewProviderRepository(client *redis.Client, prefix string) repository.ProviderRepository {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-provider-store",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     5 * time.Second,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.IsNotFound(err)
		},
	})

	return &providerRepository{
		client: client,
		cb:     cb,
		key:    prefix + "providers",
	}
}

func (r *providerRepository) Get(ctx context.Context, id string) (*model.Provider, error) {
	out, err := r.cb.Execute(func() (interface{}, error) {
		data, err := r.client.HGet(ctx, r.key, id).Bytes()
		if err != nil {
			if stderrors.Is(err, redis.Nil) {
				return nil, errors.NotFound("providerID not found")
			}
			return nil, fmt.Errorf("failed to get provider: %w", err)
		}
		return decode(data)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Provider), nil
}

func (r *providerRepository) List(ctx context.Context) (map[string]*model.Provider, error) {
	out, err := r.cb.Execute(func() (interface{}, error) {
		values, err := r.client.HGetAll(ctx, r.key).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list providers: %w", err)
		}

		items := make(map[string]*model.Provider, len(values))
		for id, v := range values {
			p, err := decode([]byte(v))
			if err != nil {
				return nil, err
			}
			items[id] = p
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(map[string]*model.Provider), nil
}

func (r *providerRepository) Put(ctx context.Context, provider *model.Provider) error {
	data, err := json.Marshal(provider)
	if err != nil {
		return fmt.Errorf("failed to encode provider: %w", err)
	}

	_, err = r.cb.Execute(func() (interface{}, error) {
		if err := r.client.HSet(ctx, r.key, provider.ProviderID, data).Err(); err != nil {
			return nil, fmt.Errorf("failed to store provider: %w", err)
		}
		return nil, nil
	})
	return err
}

func (r *providerRepository) Delete(ctx context.Context, id string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		n, err := r.client.HDel(ctx, r.key, id).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to delete provider: %w", err)
		}
		if n == 0 {
			return nil, errors.NotFound("providerID not found")
		}
		return nil, nil
	})
	return err
}

func (r *providerRepository) Exists(ctx context.Context, id string) (bool, error) {
	out, err := r.cb.Execute(func() (interface{}, error) {
		ok, err := r.client.HExists(ctx, r.key, id).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check provider: %w", err)
		}
		return ok, nil
	})
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}

func decode(data []byte) (*model.Provider, error) {
	var p model.Provider
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode provider: %w", err)
	}
	return &p, nil
}
