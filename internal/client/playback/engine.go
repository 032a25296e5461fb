// Package playback decrypts cached content and feeds it to a playback sink.
package playback

import (
	"bytes"
	"io"

	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
	contentService "github.com/eduvault/eduvault/internal/content/service"
	cryptoDomain "github.com/eduvault/eduvault/internal/crypto/domain"
	cryptoService "github.com/eduvault/eduvault/internal/crypto/service"
)

// Sink consumes one plaintext stream for the duration of a single playback.
// The reader is only valid inside Play; the engine reclaims the plaintext as
// soon as Play returns.
type Sink interface {
	Play(r io.Reader) error
}

// Engine performs client-side decryption. Every play decrypts fresh from the
// stored ciphertext; plaintext and key material live only for the duration of
// one call.
type Engine struct {
	cipher *contentService.ContentCipher
}

// NewEngine creates a playback engine.
func NewEngine() *Engine {
	return &Engine{cipher: contentService.NewContentCipher()}
}

// DecryptAndPlay derives the content key from the access key, decrypts the
// blob, and streams the plaintext into the sink.
//
// Fails closed: an authentication failure (corrupted blob, wrong key) returns
// ErrDecryptionFailed without a single byte reaching the sink. Key and
// plaintext buffers are zeroed before the call returns, whether playback
// succeeded or not.
func (e *Engine) DecryptAndPlay(blob contentDomain.EncryptedBlob, accessKey string, sink Sink) error {
	contentKey := cryptoService.DeriveContentKey(accessKey)
	defer cryptoDomain.Zero(contentKey)

	plaintext, err := e.cipher.Open(blob, contentKey)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(plaintext)

	return sink.Play(bytes.NewReader(plaintext))
}
