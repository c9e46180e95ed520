package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := NewJWTManager(&JWTConfig{
		Secret:            "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "st4cksup-test",
	})

	userID := uuid.New()
	token, expiresAt, err := manager.GenerateAccessToken(userID, "john.doe@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "john.doe@example.com", claims.Email)
	assert.Equal(t, "st4cksup-test", claims.Issuer)
}

func TestJWTManager_ValidateToken_Expired(t *testing.T) {
	manager := NewJWTManager(&JWTConfig{
		Secret:            "test-secret",
		AccessTokenExpiry: -time.Minute,
	})

	token, _, err := manager.GenerateAccessToken(uuid.New(), "john.doe@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTManager_ValidateToken_WrongSecret(t *testing.T) {
	manager := NewJWTManager(&JWTConfig{Secret: "secret-a", AccessTokenExpiry: time.Hour})
	other := NewJWTManager(&JWTConfig{Secret: "secret-b", AccessTokenExpiry: time.Hour})

	token, _, err := manager.GenerateAccessToken(uuid.New(), "mary.doe@example.com")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_ValidateToken_Garbage(t *testing.T) {
	manager := NewJWTManager(nil)

	_, err := manager.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
