package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koek1/budget-app/internal/db"
	"github.com/koek1/budget-app/internal/models"
)

func TestUserService_Register(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store, testBcryptCost)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "Alice@Example.COM", "secret123")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.DefaultCurrency, user.Currency)
	assert.Zero(t, user.MonthlyBudget)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)

	// Only the hash is stored.
	rec, err := store.FindByID(ctx, db.UsersCollection, user.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.NotEqual(t, "secret123", rec["password"])
	assert.True(t, svc.VerifyPassword(user, "secret123"))
	assert.False(t, svc.VerifyPassword(user, "wrong"))
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc := NewUserService(newTestStore(t), testBcryptCost)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other", "ALICE@example.com", "another1")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUserService_Lookup(t *testing.T) {
	svc := NewUserService(newTestStore(t), testBcryptCost)
	ctx := context.Background()

	created, err := svc.Register(ctx, "Bob", "bob@example.com", "secret123")
	require.NoError(t, err)

	byEmail, err := svc.FindByEmail(ctx, "BOB@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Authenticate(t *testing.T) {
	svc := NewUserService(newTestStore(t), testBcryptCost)
	ctx := context.Background()

	created, err := svc.Register(ctx, "Carol", "carol@example.com", "secret123")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "Carol@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Authenticate(ctx, "carol@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "ghost@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Update(t *testing.T) {
	svc := NewUserService(newTestStore(t), testBcryptCost)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Dan", "dan@example.com", "secret123")
	require.NoError(t, err)

	user.Currency = "$"
	user.MonthlyBudget = 2500.5
	updated, err := svc.Update(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "$", updated.Currency)
	assert.Equal(t, 2500.5, updated.MonthlyBudget)
	assert.Equal(t, user.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(user.UpdatedAt))
	assert.True(t, svc.VerifyPassword(updated, "secret123"))

	_, err = svc.Update(ctx, &models.User{ID: "missing"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUser_JSONOmitsPassword(t *testing.T) {
	b, err := json.Marshal(models.User{ID: "u1", Email: "e@x.io", Password: "hash"})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.NotContains(t, out, "password")
	assert.Equal(t, "u1", out["id"])
}
