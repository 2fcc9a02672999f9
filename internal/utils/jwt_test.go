package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 60)

	token, err := svc.GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.ExtractUserID(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestJWTService_MissingToken(t *testing.T) {
	svc := NewJWTService("test-secret", 60)

	_, err := svc.ExtractUserID("")
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -1)

	token, err := svc.GenerateToken(7)
	require.NoError(t, err)

	_, err = svc.ExtractUserID(token)
	assert.Error(t, err)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret", 60)
	other := NewJWTService("other-secret", 60)

	token, err := svc.GenerateToken(7)
	require.NoError(t, err)

	_, err = other.ExtractUserID(token)
	assert.Error(t, err)
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := NewJWTService("test-secret", 60)

	_, err := svc.ExtractUserID("not-a-token")
	assert.Error(t, err)
}
