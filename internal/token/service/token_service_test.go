package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateToken(t *testing.T) {
	svc := NewTokenService()

	plain, hash, err := svc.GenerateToken()
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(plain)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)

	assert.Len(t, hash, 64)
	assert.Equal(t, hash, svc.HashToken(plain))
}

func TestTokenService_TokensAreUnique(t *testing.T) {
	svc := NewTokenService()

	first, _, err := svc.GenerateToken()
	require.NoError(t, err)
	second, _, err := svc.GenerateToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenService_HashIsDeterministic(t *testing.T) {
	svc := NewTokenService()

	assert.Equal(t, svc.HashToken("token-a"), svc.HashToken("token-a"))
	assert.NotEqual(t, svc.HashToken("token-a"), svc.HashToken("token-b"))
}
