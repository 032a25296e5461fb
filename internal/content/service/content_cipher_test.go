package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
	cryptoDomain "github.com/eduvault/eduvault/internal/crypto/domain"
)

func testContentKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestContentCipher_SealOpen(t *testing.T) {
	cipher := NewContentCipher()
	key := testContentKey(t)
	plaintext := []byte("lecture recording bytes")

	blob, err := cipher.Seal(plaintext, key)
	require.NoError(t, err)

	iv, ciphertext, err := blob.Split()
	require.NoError(t, err)
	assert.Len(t, iv, contentDomain.IVSize)
	assert.NotEmpty(t, ciphertext)

	opened, err := cipher.Open(blob, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestContentCipher_OpenWrongKey(t *testing.T) {
	cipher := NewContentCipher()
	blob, err := cipher.Seal([]byte("secret"), testContentKey(t))
	require.NoError(t, err)

	opened, err := cipher.Open(blob, testContentKey(t))
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	assert.Nil(t, opened)
}

func TestContentCipher_OpenCorruptedBlob(t *testing.T) {
	cipher := NewContentCipher()
	key := testContentKey(t)
	blob, err := cipher.Seal([]byte("secret"), key)
	require.NoError(t, err)

	// Flip one ciphertext bit.
	blob[len(blob)-1] ^= 0x01

	opened, err := cipher.Open(blob, key)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	assert.Nil(t, opened)
}

func TestContentCipher_OpenTruncatedBlob(t *testing.T) {
	cipher := NewContentCipher()

	opened, err := cipher.Open(contentDomain.EncryptedBlob{0x01, 0x02}, testContentKey(t))
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	assert.Nil(t, opened)
}

func TestContentCipher_FreshIVPerSeal(t *testing.T) {
	cipher := NewContentCipher()
	key := testContentKey(t)
	plaintext := []byte("same input")

	first, err := cipher.Seal(plaintext, key)
	require.NoError(t, err)
	second, err := cipher.Seal(plaintext, key)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
