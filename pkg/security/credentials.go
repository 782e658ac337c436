// Package security seals marketplace credentials before they are stored.
package security

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// SealedAlgorithm tags envelopes written by Sealer.
const SealedAlgorithm = "xchacha20poly1305"

var (
	// ErrInvalidKey signals a key that is not 32 bytes of base64.
	ErrInvalidKey = fmt.Errorf("credentials key must be %d bytes, base64 encoded", chacha20poly1305.KeySize)
	// ErrInvalidEnvelope signals stored credentials that cannot be opened.
	ErrInvalidEnvelope = fmt.Errorf("invalid sealed credentials")
)

// Envelope is the JSON document stored in place of plaintext credentials.
type Envelope struct {
	Alg        string `json:"alg"`
	Ciphertext string `json:"ciphertext"`
}

// Sealer encrypts credential documents with XChaCha20-Poly1305. The account
// id is bound as additional data, so an envelope copied onto another account
// does not open.
type Sealer struct {
	key []byte
}

// NewSealer decodes a base64 key.
func NewSealer(encodedKey string) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encodedKey))
	if err != nil || len(key) != chacha20poly1305.KeySize {
		return nil, ErrInvalidKey
	}
	return &Sealer{key: key}, nil
}

// NewEphemeralSealer returns a sealer with a random key. Envelopes it writes
// cannot be opened after the process exits.
func NewEphemeralSealer() (*Sealer, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &Sealer{key: key}, nil
}

// Seal encrypts plaintext and returns the envelope as JSON. Empty input
// yields nil so accounts without credentials store NULL.
func (s *Sealer) Seal(plaintext []byte, associated []byte) (json.RawMessage, error) {
	if len(plaintext) == 0 {
		return nil, nil
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, plaintext, associated)
	return json.Marshal(Envelope{
		Alg:        SealedAlgorithm,
		Ciphertext: base64.RawStdEncoding.EncodeToString(sealed),
	})
}

// Open reverses Seal.
func (s *Sealer) Open(envelope json.RawMessage, associated []byte) ([]byte, error) {
	if len(envelope) == 0 {
		return nil, nil
	}
	var env Envelope
	if err := json.Unmarshal(envelope, &env); err != nil || env.Alg != SealedAlgorithm {
		return nil, ErrInvalidEnvelope
	}
	sealed, err := base64.RawStdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, ErrInvalidEnvelope
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrInvalidEnvelope
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, associated)
	if err != nil {
		return nil, ErrInvalidEnvelope
	}
	return plaintext, nil
}
