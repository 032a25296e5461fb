// Package service implements content sealing and the plaintext source.
package service

import (
	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
	cryptoDomain "github.com/eduvault/eduvault/internal/crypto/domain"
	cryptoService "github.com/eduvault/eduvault/internal/crypto/service"
	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// ContentCipher seals plaintext resources into self-contained encrypted blobs
// and opens them again. The blob carries its own IV, so the only external input
// a consumer needs is the content key.
type ContentCipher struct{}

// NewContentCipher creates a new ContentCipher.
func NewContentCipher() *ContentCipher {
	return &ContentCipher{}
}

// Seal encrypts plaintext under the content key and returns the IV||ciphertext
// blob. A fresh IV is generated per call, so sealing the same plaintext twice
// yields different blobs.
func (c *ContentCipher) Seal(
	plaintext, contentKey []byte,
) (contentDomain.EncryptedBlob, error) {
	aead, err := cryptoService.NewAESGCM(contentKey)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to initialize content cipher")
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt content")
	}

	return contentDomain.NewEncryptedBlob(nonce, ciphertext)
}

// Open authenticates and decrypts a blob with the content key. Any corruption
// of the blob or a wrong key yields ErrDecryptionFailed and no plaintext.
func (c *ContentCipher) Open(
	blob contentDomain.EncryptedBlob, contentKey []byte,
) ([]byte, error) {
	iv, ciphertext, err := blob.Split()
	if err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrDecryptionFailed, err.Error())
	}

	aead, err := cryptoService.NewAESGCM(contentKey)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to initialize content cipher")
	}

	plaintext, err := aead.Decrypt(ciphertext, iv)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
