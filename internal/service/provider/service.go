package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/internal/repository"
	"github.com/jwalitptl/provider-directory/pkg/errors"
	"github.com/jwalitptl/provider-directory/pkg/messaging"
)

const maxIDAttempts = 100

type ProviderServicer interface {
	View(ctx context.Context, providerID, name string) (*model.Provider, error)
	ViewAll(ctx context.Context) (map[string]*model.Provider, error)
	Create(ctx context.Context, req *model.CreateProviderRequest, providerID string) (*model.Provider, error)
	Update(ctx context.Context, providerID string, fields map[string]interface{}) (*model.Provider, error)
	Delete(ctx context.Context, providerID string) error
	NewProviderID(ctx context.Context) (string, error)
}

type Service struct {
	repo      repository.ProviderRepository
	publisher messaging.Publisher
	logger    zerolog.Logger
	newID     func() string
	now       func() time.Time

	// mu serialises read-modify-write sequences of mutating operations.
	mu sync.Mutex
}

type Option func(*Service)

// WithIDGenerator replaces the random identifier source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func NewService(repo repository.ProviderRepository, publisher messaging.Publisher, logger zerolog.Logger, opts ...Option) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("component", "provider_service").Logger(),
		newID:     randomID,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// randomID returns a random UUID as 32 lowercase hex characters.
func randomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// View looks a provider up by exact identifier or by case-insensitive name.
// Exactly one of providerID and name must be non-empty.
func (s *Service) View(ctx context.Context, providerID, name string) (*model.Provider, error) {
	switch {
	case providerID != "" && name != "":
		return nil, errors.AmbiguousRequest("invalid parameter. only one allowed at a time")
	case providerID != "":
		return s.repo.Get(ctx, providerID)
	case name != "":
		return s.findByName(ctx, name)
	default:
		return nil, errors.AmbiguousRequest("no arguments provided")
	}
}

// findByName returns the first record, by ascending identifier, whose name
// matches case-insensitively.
func (s *Service) findByName(ctx context.Context, name string) (*model.Provider, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	want := strings.ToLower(name)
	for _, id := range ids {
		if strings.ToLower(all[id].Name) == want {
			return all[id], nil
		}
	}
	return nil, errors.NotFound("provider name not found")
}

func (s *Service) ViewAll(ctx context.Context) (map[string]*model.Provider, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return all, nil
}

// NewProviderID returns an identifier not currently in the store.
func (s *Service) NewProviderID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		exists, err := s.repo.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check provider id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", errors.Internal(fmt.Errorf("no unused provider id after %d attempts", maxIDAttempts))
}

// Create stores a new provider. When providerID is empty a fresh identifier
// is generated; otherwise the supplied one is used and must be unused.
func (s *Service) Create(ctx context.Context, req *model.CreateProviderRequest, providerID string) (*model.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if providerID == "" {
		id, err := s.NewProviderID(ctx)
		if err != nil {
			return nil, err
		}
		providerID = id
	} else {
		exists, err := s.repo.Exists(ctx, providerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check provider id: %w", err)
		}
		if exists {
			return nil, errors.Conflict("ProviderID already exist")
		}
	}

	provider := req.ToProvider(providerID)
	if err := ValidateCreate(provider); err != nil {
		return nil, err
	}

	if err := s.repo.Put(ctx, provider); err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	s.logger.Info().Str("provider_id", providerID).Msg("provider created")
	s.publish(ctx, model.EventProviderCreated, providerID, provider)
	return provider, nil
}

// Update overwrites the known, correctly typed fields of an existing
// provider. Unknown fields and providerID are dropped silently.
func (s *Service) Update(ctx context.Context, providerID string, fields map[string]interface{}) (*model.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	provider, err := s.repo.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}

	update, err := ValidateUpdate(filterUpdate(fields))
	if err != nil {
		return nil, err
	}
	update.Apply(provider)

	if err := s.repo.Put(ctx, provider); err != nil {
		return nil, fmt.Errorf("failed to update provider: %w", err)
	}

	s.logger.Info().
		Str("provider_id", providerID).
		Strs("fields", update.Fields()).
		Msg("provider updated")
	s.publish(ctx, model.EventProviderUpdated, providerID, provider)
	return provider, nil
}

func (s *Service) Delete(ctx context.Context, providerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, providerID); err != nil {
		if errors.IsNotFound(err) {
			return errors.NotFound("ProviderID not found")
		}
		return fmt.Errorf("failed to delete provider: %w", err)
	}

	s.logger.Info().Str("provider_id", providerID).Msg("provider deleted")
	s.publish(ctx, model.EventProviderDeleted, providerID, nil)
	return nil
}

// publish is best effort; a broker failure never fails the request.
func (s *Service) publish(ctx context.Context, eventType, providerID string, payload *model.Provider) {
	event := model.ProviderEvent{
		Type:       eventType,
		ProviderID: providerID,
		Payload:    payload.Clone(),
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		s.logger.Warn().Err(err).Str("provider_id", providerID).Str("event_type", eventType).Msg("failed to publish provider event")
	}
}
