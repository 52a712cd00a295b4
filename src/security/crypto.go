// Package security seals brokerage credentials at rest.
package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

var (
	ErrInvalidKey = errors.New("credentials key must be 32 bytes, base64 encoded")
	ErrDecrypt    = errors.New("cannot decrypt value")
)

// Sealer encrypts short strings with a fixed secretbox key. Output is base64
// of nonce followed by the sealed box.
type Sealer struct {
	key [keySize]byte
}

// NewSealer parses a base64 encoded 32 byte key.
func NewSealer(encodedKey string) (*Sealer, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil || len(raw) != keySize {
		return nil, ErrInvalidKey
	}
	s := &Sealer{}
	copy(s.key[:], raw)
	return s, nil
}

// NewSealerFromConfig builds a Sealer from CREDENTIALS_KEY.
func NewSealerFromConfig() (*Sealer, error) {
	return NewSealer(GetConfig().CredentialsKey)
}

func (s *Sealer) Seal(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// EncryptString seals value with the configured key.
func EncryptString(value string) (string, error) {
	s, err := NewSealerFromConfig()
	if err != nil {
		return "", err
	}
	return s.Seal(value)
}

// DecryptString opens a value sealed by EncryptString.
func DecryptString(value string) (string, error) {
	s, err := NewSealerFromConfig()
	if err != nil {
		return "", err
	}
	return s.Open(value)
}

// GenerateKey returns a fresh random key in the CREDENTIALS_KEY format.
func GenerateKey() (string, error) {
	var key [keySize]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key[:]), nil
}
