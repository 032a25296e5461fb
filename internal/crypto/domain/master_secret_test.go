package domain

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMasterSecretFromEnv(t *testing.T) {
	t.Run("missing env var", func(t *testing.T) {
		t.Setenv("MASTER_SECRET", "")

		_, err := LoadMasterSecretFromEnv()
		assert.ErrorIs(t, err, ErrMasterSecretNotSet)
	})

	t.Run("invalid base64", func(t *testing.T) {
		t.Setenv("MASTER_SECRET", "not-base64!!!")

		_, err := LoadMasterSecretFromEnv()
		assert.ErrorIs(t, err, ErrInvalidMasterSecretBase64)
	})

	t.Run("wrong size", func(t *testing.T) {
		t.Setenv("MASTER_SECRET", base64.StdEncoding.EncodeToString([]byte("short")))

		_, err := LoadMasterSecretFromEnv()
		assert.ErrorIs(t, err, ErrInvalidSecretSize)
	})

	t.Run("valid secret", func(t *testing.T) {
		key := make([]byte, 32)
		for i := range key {
			key[i] = byte(i)
		}
		t.Setenv("MASTER_SECRET", base64.StdEncoding.EncodeToString(key))

		secret, err := LoadMasterSecretFromEnv()
		require.NoError(t, err)
		assert.Equal(t, key, secret.Key)
	})
}

func TestMasterSecretClose(t *testing.T) {
	secret, err := NewMasterSecret(make([]byte, 32))
	require.NoError(t, err)

	key := secret.Key
	key[0] = 0xAA

	secret.Close()

	assert.Nil(t, secret.Key)
	assert.Equal(t, byte(0), key[0])
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0}, b)

	// nil is a no-op
	Zero(nil)
}
