// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrEmptyKey        = errors.New("empty encryption key")
	ErrCiphertextShort = errors.New("ciphertext too short")
)

// keySalt domain-separates passphrase derived keys. It is not a secret.
var keySalt = []byte("mint-sync/provider-token/v1")

// tokenCipher implements [TokenCipher] with XChaCha20-Poly1305.
// The 24-byte random nonce is prepended to the ciphertext.
type tokenCipher struct {
	key []byte
}

// NewTokenCipher builds a [TokenCipher] from key. A 32-byte key given as hex
// or base64 is used as is; anything else is treated as a passphrase and
// stretched with Argon2id.
func NewTokenCipher(key string) (TokenCipher, error) {
	raw, err := parseKey(key)
	if err != nil {
		return nil, err
	}

	return &tokenCipher{key: raw}, nil
}

func parseKey(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	if b, err := hex.DecodeString(key); err == nil && len(b) == chacha20poly1305.KeySize {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(key); err == nil && len(b) == chacha20poly1305.KeySize {
		return b, nil
	}

	return argon2.IDKey([]byte(key), keySalt, 1, 64*1024, 4, chacha20poly1305.KeySize), nil
}

func (c *tokenCipher) Seal(plaintext, additionalData string) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("create aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	blob := aead.Seal(nonce, nonce, []byte(plaintext), []byte(additionalData))
	return base64.StdEncoding.EncodeToString(blob), nil
}

func (c *tokenCipher) Open(sealed, additionalData string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("create aead: %w", err)
	}

	if len(blob) < aead.NonceSize()+aead.Overhead() {
		return "", ErrCiphertextShort
	}

	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(additionalData))
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}

	return string(plaintext), nil
}
