package auth_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserEnsureStatus(t *testing.T) {
	user := &auth.User{}
	user.EnsureStatus()
	assert.Equal(t, auth.DefaultStatus, user.Status)

	user.Status = "custom status"
	user.EnsureStatus()
	assert.Equal(t, "custom status", user.Status)
}

func TestUserWithStatus(t *testing.T) {
	original := &auth.User{
		ID:     uuid.New(),
		Email:  "test@example.com",
		Status: auth.DefaultStatus,
	}

	updated := original.WithStatus("shipping a new feature")

	assert.Equal(t, "shipping a new feature", updated.Status)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.Email, updated.Email)

	// the original record is untouched
	assert.Equal(t, auth.DefaultStatus, original.Status)
}

func TestUserPasswordHashNeverSerializes(t *testing.T) {
	user := &auth.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		Name:         "Test User",
		PasswordHash: "$2a$12$someHashValue",
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.NotContains(t, out, "password_hash")
	assert.NotContains(t, out, "passwordHash")
	assert.NotContains(t, string(raw), "someHashValue")
}
