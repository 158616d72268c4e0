package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStoredUser(t *testing.T, password string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	return &auth.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		Name:         "Test User",
		Status:       auth.DefaultStatus,
		PasswordHash: hash,
	}
}

func TestUserProviderVerifyIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials resolve the identity", func(t *testing.T) {
		user := newStoredUser(t, "password123")

		store := &MockUserStore{}
		store.On("GetByIdentifier", ctx, user.Email).Return(user, nil).Once()
		store.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

		provider := auth.NewUserProvider(store).WithLogger(testLogger{})

		identity, err := provider.VerifyIdentity(ctx, user.Email, "password123")
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, user.Email, identity.Email())
		assert.Equal(t, user.Name, identity.Name())

		store.AssertExpectations(t)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		user := newStoredUser(t, "password123")

		store := &MockUserStore{}
		store.On("GetByIdentifier", ctx, user.Email).Return(user, nil).Once()
		store.On("GetByIdentifier", ctx, "nobody@example.com").
			Return(nil, auth.ErrIdentityNotFound).Once()

		provider := auth.NewUserProvider(store).WithLogger(testLogger{})

		_, wrongPassErr := provider.VerifyIdentity(ctx, user.Email, "wrong")
		_, unknownErr := provider.VerifyIdentity(ctx, "nobody@example.com", "password123")

		assert.ErrorIs(t, wrongPassErr, auth.ErrMismatchedHashAndPassword)
		assert.ErrorIs(t, unknownErr, auth.ErrMismatchedHashAndPassword)
		assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())

		store.AssertExpectations(t)
	})

	t.Run("unknown identifier still costs a password comparison", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByIdentifier", ctx, mock.Anything).
			Return(nil, auth.ErrIdentityNotFound)

		provider := auth.NewUserProvider(store).WithLogger(testLogger{})

		// warm up so the measured call is the compare alone
		_, err := provider.VerifyIdentity(ctx, "nobody@example.com", "password123")
		require.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)

		start := time.Now()
		_, err = provider.VerifyIdentity(ctx, "nobody@example.com", "password123")
		elapsed := time.Since(start)

		require.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
		assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond,
			"not-found path should burn a bcrypt compare")
	})

	t.Run("store failures are not masked as credential errors", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByIdentifier", ctx, mock.Anything).
			Return(nil, errors.New("db down")).Once()

		provider := auth.NewUserProvider(store).WithLogger(testLogger{})

		_, err := provider.VerifyIdentity(ctx, "test@example.com", "password123")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrMismatchedHashAndPassword)

		store.AssertExpectations(t)
	})

	t.Run("login tracking failure does not fail the login", func(t *testing.T) {
		user := newStoredUser(t, "password123")

		store := &MockUserStore{}
		store.On("GetByIdentifier", ctx, user.Email).Return(user, nil).Once()
		store.On("TrackSuccessfulLogin", ctx, user).
			Return(errors.New("update failed")).Once()

		provider := auth.NewUserProvider(store).WithLogger(testLogger{})

		identity, err := provider.VerifyIdentity(ctx, user.Email, "password123")
		require.NoError(t, err)
		assert.NotNil(t, identity)

		store.AssertExpectations(t)
	})
}

func TestUserProviderFindIdentityByIdentifier(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves an existing user", func(t *testing.T) {
		user := newStoredUser(t, "password123")

		store := &MockUserStore{}
		store.On("GetByIdentifier", ctx, user.ID.String()).Return(user, nil).Once()

		provider := auth.NewUserProvider(store).WithLogger(testLogger{})

		identity, err := provider.FindIdentityByIdentifier(ctx, user.ID.String())
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())

		store.AssertExpectations(t)
	})

	t.Run("propagates absence", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByIdentifier", ctx, mock.Anything).
			Return(nil, auth.ErrIdentityNotFound).Once()

		provider := auth.NewUserProvider(store).WithLogger(testLogger{})

		_, err := provider.FindIdentityByIdentifier(ctx, uuid.NewString())
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)

		store.AssertExpectations(t)
	})
}
