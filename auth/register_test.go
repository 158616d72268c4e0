package auth_test

import (
	"context"
	"database/sql"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/socialbase/socialbase/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		message auth.RegisterUserMessage
		wantErr bool
	}{
		{
			name: "valid message",
			message: auth.RegisterUserMessage{
				Email:    "test@example.com",
				Password: "password123",
				Name:     "Test User",
			},
			wantErr: false,
		},
		{
			name: "five character password is the floor",
			message: auth.RegisterUserMessage{
				Email:    "test@example.com",
				Password: "12345",
				Name:     "Test User",
			},
			wantErr: false,
		},
		{
			name: "malformed email",
			message: auth.RegisterUserMessage{
				Email:    "not-an-email",
				Password: "password123",
				Name:     "Test User",
			},
			wantErr: true,
		},
		{
			name: "password below the floor",
			message: auth.RegisterUserMessage{
				Email:    "test@example.com",
				Password: "1234",
				Name:     "Test User",
			},
			wantErr: true,
		},
		{
			name: "missing name",
			message: auth.RegisterUserMessage{
				Email:    "test@example.com",
				Password: "password123",
			},
			wantErr: true,
		},
		{
			name:    "everything missing",
			message: auth.RegisterUserMessage{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.message.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegisterUserHandlerExecute(t *testing.T) {
	ctx := context.Background()

	message := auth.RegisterUserMessage{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
	}

	t.Run("creates and returns the new user", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		users := &MockUsers{}

		repo.On("Users").Return(users)
		repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
			Return(nil).Once()

		users.On("GetByIdentifierTx", mock.Anything, mock.Anything, message.Email).
			Return(nil, auth.ErrIdentityNotFound).Once()
		users.On("RegisterTx", mock.Anything, mock.Anything, mock.MatchedBy(func(u *auth.User) bool {
			return u.Email == message.Email &&
				u.Name == message.Name &&
				u.Status == auth.DefaultStatus &&
				u.PasswordHash != "" &&
				u.PasswordHash != message.Password
		})).Return(nil, nil).Once()

		handler := auth.NewRegisterUserHandler(repo)

		user, err := handler.Execute(ctx, message)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, message.Email, user.Email)
		assert.Equal(t, auth.DefaultStatus, user.Status)
		assert.NoError(t, auth.ComparePasswordAndHash(message.Password, user.PasswordHash))

		repo.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		users := &MockUsers{}

		existing := newStoredUser(t, "password123")

		repo.On("Users").Return(users)
		repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
			Return(nil).Once()

		users.On("GetByIdentifierTx", mock.Anything, mock.Anything, message.Email).
			Return(existing, nil).Once()

		handler := auth.NewRegisterUserHandler(repo)

		_, err := handler.Execute(ctx, message)
		assert.ErrorIs(t, err, auth.ErrEmailTaken)

		repo.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		repo := &MockRepositoryManager{}

		handler := auth.NewRegisterUserHandler(repo)

		_, err := handler.Execute(ctx, auth.RegisterUserMessage{
			Email:    "not-an-email",
			Password: "123",
		})
		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryValidation, richErr.Category)

		fields, ok := richErr.Metadata["fields"].([]auth.FieldError)
		require.True(t, ok)
		assert.NotEmpty(t, fields)

		repo.AssertNotCalled(t, "RunInTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelled context aborts before any work", func(t *testing.T) {
		repo := &MockRepositoryManager{}

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		handler := auth.NewRegisterUserHandler(repo)

		_, err := handler.Execute(cancelled, message)
		assert.Error(t, err)

		repo.AssertNotCalled(t, "RunInTx", mock.Anything, mock.Anything, mock.Anything)
	})
}
