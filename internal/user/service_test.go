package user

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() Service {
	return NewService(NewMemoryRepository(), zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func TestUserCreate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		u, err := svc.Create(ctx, CreateRequest{Name: "anna", Email: "anna@example.com"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		assert.Equal(t, "anna", u.Name)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{Name: "anna"})
		assert.ErrorIs(t, err, ErrEmailRequired)

		_, err = svc.Create(ctx, CreateRequest{Email: "x@example.com", Name: "  "})
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{Name: "clone", Email: "anna@example.com"})
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestUserUpdate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	anna, err := svc.Create(ctx, CreateRequest{Name: "anna", Email: "anna@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{Name: "boris", Email: "boris@example.com"})
	require.NoError(t, err)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		u, err := svc.Update(ctx, anna.ID, UpdateRequest{Name: strPtr("anya")})
		require.NoError(t, err)
		assert.Equal(t, "anya", u.Name)
		assert.Equal(t, "anna@example.com", u.Email)
	})

	t.Run("email taken by someone else", func(t *testing.T) {
		_, err := svc.Update(ctx, anna.ID, UpdateRequest{Email: strPtr("boris@example.com")})
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Update(ctx, 999, UpdateRequest{Name: strPtr("ghost")})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserListAndDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateRequest{Name: "anna", Email: "anna@example.com"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CreateRequest{Name: "boris", Email: "boris@example.com"})
	require.NoError(t, err)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a.ID, users[0].ID)
	assert.Equal(t, b.ID, users[1].ID)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrNotFound)

	exists, err := svc.ExistsByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
