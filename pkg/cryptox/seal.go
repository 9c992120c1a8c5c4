// Package cryptox seals persisted bearer tokens at rest.
package cryptox

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrCiphertext reports sealed data that is truncated or fails authentication.
var ErrCiphertext = errors.New("cryptox: invalid ciphertext")

// Sealer encrypts small values with XChaCha20-Poly1305.
// Output layout: [24-byte nonce][ciphertext][16-byte tag].
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives a 32-byte key from keyMaterial with SHA-256.
func NewSealer(keyMaterial []byte) (*Sealer, error) {
	if len(keyMaterial) == 0 {
		return nil, errors.New("cryptox: empty key material")
	}

	key := sha256.Sum256(keyMaterial)
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// LoadSealer resolves key material from, in order: the file at path, the
// raw env value, or a random ephemeral key. Ephemeral keys make sealed
// tokens unreadable after restart, which only costs users a re-login.
func LoadSealer(path, envValue string) (sealer *Sealer, ephemeral bool, err error) {
	var material []byte

	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read seal key file: %w", err)
		}
		material = []byte(strings.TrimSpace(string(data)))
	case envValue != "":
		material = []byte(envValue)
	default:
		material = make([]byte, chacha20poly1305.KeySize)
		if _, err := rand.Read(material); err != nil {
			return nil, false, fmt.Errorf("failed to generate ephemeral seal key: %w", err)
		}
		ephemeral = true
	}

	sealer, err = NewSealer(material)
	return sealer, ephemeral, err
}

// Seal encrypts plaintext with a fresh random nonce.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(sealed) < ns+s.aead.Overhead() {
		return nil, ErrCiphertext
	}

	plaintext, err := s.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, ErrCiphertext
	}
	return plaintext, nil
}
