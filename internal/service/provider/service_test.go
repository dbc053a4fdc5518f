package provider

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/internal/repository/memory"
	"github.com/jwalitptl/provider-directory/internal/repository/repositorytest"
	"github.com/jwalitptl/provider-directory/pkg/errors"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.ProviderEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, payload.(model.ProviderEvent))
	return nil
}

func strPtr(s string) *string { return &s }

func testRequest() *model.CreateProviderRequest {
	return &model.CreateProviderRequest{
		Name:          strPtr("Test"),
		Qualification: strPtr("q"),
		Speciality:    strPtr("s"),
		Phone:         strPtr("1234567890"),
		Organization:  strPtr("org"),
		Address:       strPtr("addr"),
	}
}

func newTestService(t *testing.T, seed ...*model.Provider) (*Service, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return NewService(memory.NewProviderRepository(seed...), pub, zerolog.Nop()), pub
}

func TestView(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, repositorytest.NewProvider("a1"))

	t.Run("by id", func(t *testing.T) {
		p, err := svc.View(ctx, "a1", "")
		require.NoError(t, err)
		assert.Equal(t, "John Cooper", p.Name)
	})

	t.Run("by name ignores case", func(t *testing.T) {
		p, err := svc.View(ctx, "", "john cooper")
		require.NoError(t, err)
		assert.Equal(t, "a1", p.ProviderID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.View(ctx, "zz", "")
		assert.True(t, errors.IsNotFound(err))
		assert.Equal(t, "providerID not found", errors.As(err).Message)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := svc.View(ctx, "", "Nobody")
		assert.True(t, errors.IsNotFound(err))
		assert.Equal(t, "provider name not found", errors.As(err).Message)
	})

	t.Run("both parameters", func(t *testing.T) {
		_, err := svc.View(ctx, "a1", "John Cooper")
		assert.Equal(t, errors.KindAmbiguousRequest, errors.KindOf(err))
		assert.Equal(t, "invalid parameter. only one allowed at a time", errors.As(err).Message)
	})

	t.Run("no parameters", func(t *testing.T) {
		_, err := svc.View(ctx, "", "")
		assert.Equal(t, errors.KindAmbiguousRequest, errors.KindOf(err))
		assert.Equal(t, "no arguments provided", errors.As(err).Message)
	})
}

func TestViewByNamePicksLowestID(t *testing.T) {
	svc, _ := newTestService(t, repositorytest.NewProvider("b2"), repositorytest.NewProvider("a1"))

	p, err := svc.View(context.Background(), "", "JOHN COOPER")
	require.NoError(t, err)
	assert.Equal(t, "a1", p.ProviderID)
}

func TestCreateThenView(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t)

	req := testRequest()
	req.Department = strPtr("cardio")
	created, err := svc.Create(ctx, req, "")
	require.NoError(t, err)
	assert.Len(t, created.ProviderID, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", created.ProviderID)

	got, err := svc.View(ctx, created.ProviderID, "")
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.True(t, got.Active)
	assert.Equal(t, "Test", got.Name)
	assert.Equal(t, "1234567890", got.Phone)
	require.NotNil(t, got.Department)
	assert.Equal(t, "cardio", *got.Department)
	assert.Nil(t, got.Location)

	require.Len(t, pub.events, 1)
	assert.Equal(t, model.EventProviderCreated, pub.events[0].Type)
	assert.Equal(t, created.ProviderID, pub.events[0].ProviderID)
}

func TestCreateRetriesTakenIDs(t *testing.T) {
	ids := []string{"a1", "a1", "b2"}
	pub := &recordingPublisher{}
	svc := NewService(
		memory.NewProviderRepository(repositorytest.NewProvider("a1")),
		pub,
		zerolog.Nop(),
		WithIDGenerator(func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}),
	)

	p, err := svc.Create(context.Background(), testRequest(), "")
	require.NoError(t, err)
	assert.Equal(t, "b2", p.ProviderID)

	all, err := svc.ViewAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateGivesUpOnExhaustedIDs(t *testing.T) {
	svc := NewService(
		memory.NewProviderRepository(repositorytest.NewProvider("a1")),
		nil,
		zerolog.Nop(),
		WithIDGenerator(func() string { return "a1" }),
	)

	_, err := svc.Create(context.Background(), testRequest(), "")
	assert.Equal(t, errors.KindInternal, errors.KindOf(err))
}

func TestCreateWithSuppliedID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, repositorytest.NewProvider("a1"))

	p, err := svc.Create(ctx, testRequest(), "custom")
	require.NoError(t, err)
	assert.Equal(t, "custom", p.ProviderID)

	_, err = svc.Create(ctx, testRequest(), "a1")
	assert.Equal(t, errors.KindConflict, errors.KindOf(err))
	assert.Equal(t, "ProviderID already exist", errors.As(err).Message)

	existing, err := svc.View(ctx, "a1", "")
	require.NoError(t, err)
	assert.Equal(t, "John Cooper", existing.Name)
}

func TestCreateRejectsIncompleteRecords(t *testing.T) {
	fields := map[string]func(r *model.CreateProviderRequest){
		"name":          func(r *model.CreateProviderRequest) { r.Name = strPtr("") },
		"qualification": func(r *model.CreateProviderRequest) { r.Qualification = strPtr("") },
		"speciality":    func(r *model.CreateProviderRequest) { r.Speciality = strPtr("") },
		"phone":         func(r *model.CreateProviderRequest) { r.Phone = strPtr("") },
		"organization":  func(r *model.CreateProviderRequest) { r.Organization = strPtr("") },
		"address":       func(r *model.CreateProviderRequest) { r.Address = strPtr("") },
		"phone letters": func(r *model.CreateProviderRequest) { r.Phone = strPtr("12345abcde") },
	}

	for name, mutate := range fields {
		t.Run(name, func(t *testing.T) {
			svc, pub := newTestService(t)
			req := testRequest()
			mutate(req)

			_, err := svc.Create(context.Background(), req, "")
			assert.Equal(t, errors.KindValidation, errors.KindOf(err))
			assert.Equal(t, "Empty fields. Validation Error", errors.As(err).Message)

			all, err := svc.ViewAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
			assert.Empty(t, pub.events)
		})
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t, repositorytest.NewProvider("a1"))

	p, err := svc.Update(ctx, "a1", map[string]interface{}{
		"providerID": "hijack",
		"name":       "Jane Cooper",
		"active":     false,
		"phone":      "12",
		"location":   "Pune",
		"nickname":   "JC",
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", p.ProviderID)
	assert.Equal(t, "Jane Cooper", p.Name)
	assert.False(t, p.Active)
	assert.Equal(t, "12", p.Phone)
	require.NotNil(t, p.Location)
	assert.Equal(t, "Pune", *p.Location)
	assert.Equal(t, "spec1", p.Speciality)

	_, err = svc.View(ctx, "hijack", "")
	assert.True(t, errors.IsNotFound(err))

	stored, err := svc.View(ctx, "a1", "")
	require.NoError(t, err)
	assert.Equal(t, p, stored)

	require.Len(t, pub.events, 1)
	assert.Equal(t, model.EventProviderUpdated, pub.events[0].Type)
}

func TestUpdateErrors(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t, repositorytest.NewProvider("a1"))

	_, err := svc.Update(ctx, "missing", map[string]interface{}{"name": "x"})
	assert.True(t, errors.IsNotFound(err))

	for name, fields := range map[string]map[string]interface{}{
		"active not bool": {"active": "yes"},
		"name not string": {"name": 42.0},
		"null value":      {"department": nil},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Update(ctx, "a1", fields)
			assert.Equal(t, errors.KindValidation, errors.KindOf(err))
			assert.Equal(t, "Wrong input type. Validation Error", errors.As(err).Message)
		})
	}

	stored, err := svc.View(ctx, "a1", "")
	require.NoError(t, err)
	assert.Equal(t, repositorytest.NewProvider("a1"), stored)
	assert.Empty(t, pub.events)
}

func TestUpdateIgnoresBadlyTypedUnknownFields(t *testing.T) {
	svc, _ := newTestService(t, repositorytest.NewProvider("a1"))

	p, err := svc.Update(context.Background(), "a1", map[string]interface{}{"rating": 5.0})
	require.NoError(t, err)
	assert.Equal(t, repositorytest.NewProvider("a1"), p)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t, repositorytest.NewProvider("a1"))

	require.NoError(t, svc.Delete(ctx, "a1"))
	_, err := svc.View(ctx, "a1", "")
	assert.True(t, errors.IsNotFound(err))

	err = svc.Delete(ctx, "a1")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, "ProviderID not found", errors.As(err).Message)

	require.Len(t, pub.events, 1)
	assert.Equal(t, model.EventProviderDeleted, pub.events[0].Type)
	assert.Nil(t, pub.events[0].Payload)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &recordingPublisher{err: stderrors.New("broker down")}
	svc := NewService(memory.NewProviderRepository(), pub, zerolog.Nop())

	p, err := svc.Create(context.Background(), testRequest(), "")
	require.NoError(t, err)

	_, err = svc.View(context.Background(), p.ProviderID, "")
	assert.NoError(t, err)
}

func TestConcurrentCreatesKeepIDsUnique(t *testing.T) {
	svc, _ := newTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), testRequest(), "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := svc.ViewAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, model.SeedProviders()...)

	created, err := svc.Create(ctx, testRequest(), "")
	require.NoError(t, err)
	assert.Len(t, created.ProviderID, 32)

	all, err := svc.ViewAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, created.ProviderID)

	require.NoError(t, svc.Delete(ctx, created.ProviderID))

	_, err = svc.View(ctx, created.ProviderID, "")
	assert.True(t, errors.IsNotFound(err))
}

func TestValidateUpdate(t *testing.T) {
	u, err := ValidateUpdate(map[string]interface{}{"active": true, "address": "x"})
	require.NoError(t, err)
	require.NotNil(t, u.Active)
	assert.True(t, *u.Active)
	require.NotNil(t, u.Address)
	assert.Equal(t, "x", *u.Address)
	assert.Nil(t, u.Name)
	assert.ElementsMatch(t, []string{"active", "address"}, u.Fields())
}
