// Package domain defines the encrypted content entities of the content store.
package domain

import (
	"fmt"
)

// IVSize is the fixed length of the initialization vector prepended to every
// encrypted blob. Producer and consumer both rely on this constant; it matches
// the AES-GCM nonce size.
const IVSize = 12

// EncryptedBlob is the wire and storage form of protected content: a
// fixed-length IV followed by the AES-GCM ciphertext (authentication tag
// included). There is exactly one blob per resource; the bytes are stable
// until the content is re-encrypted.
type EncryptedBlob []byte

// NewEncryptedBlob assembles a blob from an IV and ciphertext.
func NewEncryptedBlob(iv, ciphertext []byte) (EncryptedBlob, error) {
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidIVSize, len(iv))
	}

	blob := make(EncryptedBlob, 0, len(iv)+len(ciphertext))
	blob = append(blob, iv...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// Split separates the blob back into IV and ciphertext. The returned slices
// alias the blob's backing array.
func (b EncryptedBlob) Split() (iv, ciphertext []byte, err error) {
	if len(b) < IVSize {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrBlobTooShort, len(b))
	}
	return b[:IVSize], b[IVSize:], nil
}
