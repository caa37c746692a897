// Package vault seals project access passwords at rest with NaCl secretbox.
package vault

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

// Prefix marks a sealed value. Values without it are treated as plaintext.
const Prefix = "sealed:v1:"

const (
	keySize   = 32
	nonceSize = 24
)

var (
	ErrInvalidKey = errors.New("access key must be 32 bytes, base64 encoded")
	ErrOpen       = errors.New("sealed value cannot be opened")
)

// Sealer seals and opens secret strings.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(value string) (string, error)
}

// Vault is a Sealer keyed with a single secretbox key.
type Vault struct {
	key [keySize]byte
}

// New builds a Vault from a base64 encoded 32-byte key.
func New(encodedKey string) (*Vault, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encodedKey))
	if err != nil || len(raw) != keySize {
		return nil, ErrInvalidKey
	}
	v := &Vault{}
	copy(v.key[:], raw)
	return v, nil
}

// GenerateKey returns a fresh base64 encoded key.
func GenerateKey() (string, error) {
	var key [keySize]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return "", fmt.Errorf("reading random key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key[:]), nil
}

// Seal encrypts plaintext. Empty and already sealed values are returned
// unchanged.
func (v *Vault) Seal(plaintext string) (string, error) {
	if plaintext == "" || IsSealed(plaintext) {
		return plaintext, nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("reading nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &v.key)
	return Prefix + base64.StdEncoding.EncodeToString(box), nil
}

// Open decrypts a sealed value. Plaintext values pass through unchanged.
func (v *Vault) Open(value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	box, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, Prefix))
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return "", ErrOpen
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	out, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &v.key)
	if !ok {
		return "", ErrOpen
	}
	return string(out), nil
}

// IsSealed reports whether value carries the sealed prefix.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, Prefix)
}
