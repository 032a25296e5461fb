package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// AESGCMCipher implements authenticated encryption using AES-256-GCM.
//
// Security properties:
//   - 256-bit key size
//   - 12-byte nonce, randomly generated per encryption
//   - 16-byte authentication tag appended to the ciphertext
//   - Tampered ciphertext or a wrong key fails closed on decrypt
//
// The cipher instance is stateless and safe for concurrent use from multiple
// goroutines. Each encryption operation generates a unique nonce independently.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
// The key must be exactly 32 bytes; generate it with crypto/rand or a KDF.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != 32 {
		return nil, errors.New("key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// NonceSize returns the fixed nonce length in bytes.
func (a *AESGCMCipher) NonceSize() int {
	return a.aead.NonceSize()
}

// Encrypt encrypts plaintext and returns the ciphertext (authentication tag
// appended) together with the freshly generated nonce. The same nonce must be
// presented at decryption time; with GCM a nonce must never be reused under
// the same key.
func (a *AESGCMCipher) Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = a.aead.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Decrypt decrypts ciphertext using the provided nonce. The authentication tag
// is verified before any plaintext is returned, so corrupted input yields an
// error and zero bytes of output.
func (a *AESGCMCipher) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	plaintext, err := a.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
