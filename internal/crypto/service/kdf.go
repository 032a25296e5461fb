// Package service implements the cryptographic services shared by the content
// encryption store on the server and the playback engine on the client.
package service

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

// KDF parameters shared by server and client. The client re-derives the content
// key from the access key string with the same parameters, so changing any of
// these invalidates every blob already sitting in client caches.
const (
	// ContentKeySalt is deliberately fixed and public: the secret input is the
	// per-resource access key, which is itself derived from the server-held
	// master secret and only released against a redeemed decrypt token.
	ContentKeySalt = "eduvault.content.v1"

	// ContentKeyIterations is sized to resist offline brute force of a leaked
	// access key, not of the master secret (which never leaves the server).
	ContentKeyIterations = 210_000

	// ContentKeySize is the AES-256 key length.
	ContentKeySize = 32

	// accessKeyIterations stays low: the input here is the high-entropy master
	// secret, so stretching adds latency without adding security.
	accessKeyIterations = 1_000
)

// DeriveAccessKey derives the per-resource access key from the master secret.
//
// The result is deterministic for a given (master secret, resourceID) pair,
// distinct across resource ids, and not invertible back to the master secret.
// It is what the server hands out in exchange for a redeemed decrypt token.
func DeriveAccessKey(masterSecret []byte, resourceID string) string {
	salt := []byte("eduvault.access.v1:" + resourceID)
	key := pbkdf2.Key(masterSecret, salt, accessKeyIterations, ContentKeySize, sha256.New)
	return base64.RawURLEncoding.EncodeToString(key)
}

// DeriveContentKey derives the symmetric content key from an access key string.
//
// Runs on both sides: the server derives the key at encryption time, the client
// re-derives it at playback time from the access key it received. The key must
// only live for the duration of one encrypt or decrypt operation.
func DeriveContentKey(accessKey string) []byte {
	return pbkdf2.Key(
		[]byte(accessKey),
		[]byte(ContentKeySalt),
		ContentKeyIterations,
		ContentKeySize,
		sha256.New,
	)
}
