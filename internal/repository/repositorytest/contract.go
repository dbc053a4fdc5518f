// Package repositorytest holds the behaviour every ProviderRepository
// backend must share.
package repositorytest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/internal/repository"
	"github.com/jwalitptl/provider-directory/pkg/errors"
)

// NewProvider returns a complete record with the given identifier.
func NewProvider(id string) *model.Provider {
	dept := "Department_A"
	return &model.Provider{
		ProviderID:    id,
		Active:        true,
		Name:          "John Cooper",
		Qualification: "deg1,deg2",
		Speciality:    "spec1",
		Phone:         "1238987987",
		Department:    &dept,
		Organization:  "Organization_Z",
		Address:       "Street 5, Town 2, Bengaluru",
	}
}

// Run exercises repo, which must start empty.
func Run(t *testing.T, newRepo func(t *testing.T) repository.ProviderRepository) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(ctx, "missing")
		assert.True(t, errors.IsNotFound(err), "got %v", err)
	})

	t.Run("put then get", func(t *testing.T) {
		repo := newRepo(t)
		want := NewProvider("a1")
		require.NoError(t, repo.Put(ctx, want))

		got, err := repo.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, want, got)

		ok, err := repo.Exists(ctx, "a1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("put replaces", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Put(ctx, NewProvider("a1")))

		replacement := NewProvider("a1")
		replacement.Name = "Alice Barmer"
		replacement.Department = nil
		require.NoError(t, repo.Put(ctx, replacement))

		got, err := repo.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "Alice Barmer", got.Name)
		assert.Nil(t, got.Department)
	})

	t.Run("list", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Put(ctx, NewProvider("a1")))
		require.NoError(t, repo.Put(ctx, NewProvider("b2")))

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Equal(t, "b2", all["b2"].ProviderID)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Put(ctx, NewProvider("a1")))
		require.NoError(t, repo.Delete(ctx, "a1"))

		_, err := repo.Get(ctx, "a1")
		assert.True(t, errors.IsNotFound(err))

		ok, err := repo.Exists(ctx, "a1")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.True(t, errors.IsNotFound(repo.Delete(ctx, "a1")))
	})

	t.Run("returned records are copies", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Put(ctx, NewProvider("a1")))

		got, err := repo.Get(ctx, "a1")
		require.NoError(t, err)
		got.Name = "mutated"
		*got.Department = "mutated"

		again, err := repo.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "John Cooper", again.Name)
		assert.Equal(t, "Department_A", *again.Department)
	})
}
