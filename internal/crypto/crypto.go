// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/pbkdf2"

	"github.com/forcekit/forcekit/internal/errs"
	"github.com/forcekit/forcekit/internal/log"
	"github.com/forcekit/forcekit/internal/messages"
)

const (
	// Service is the keyring service identifier.
	Service = "forcekit"

	secretAccount = "crypto-key"
	saltAccount   = "crypto-salt"

	// EnvKey overrides the keyring with a hex-encoded 32-byte AES key.
	// Intended for CI and headless environments without an OS keyring.
	EnvKey = "FORCEKIT_CRYPTO_KEY"

	keyLen     = 32
	saltLen    = 32
	iterations = 100_000
)

// Crypto encrypts and decrypts opaque string values. A handle holds derived
// key material from New until Close; callers acquire one immediately before an
// encrypt/decrypt pass and release it afterward, error path included.
type Crypto struct {
	gcm    cipher.AEAD
	key    []byte
	closed bool
}

// New acquires key material and returns a ready handle. The key comes from
// the EnvKey environment variable when set, otherwise from the OS keyring;
// on first use a random secret and salt are generated and stored there.
func New() (*Crypto, error) {
	key, err := loadKey()
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidParameter, messages.Get("crypto", "invalidKey"), err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Crypto{gcm: gcm, key: key}, nil
}

// Encrypt returns base64(nonce || ciphertext) for the given plaintext.
func (c *Crypto) Encrypt(plaintext string) (string, error) {
	if c.closed {
		return "", errs.New(errs.InvalidParameter, messages.Get("crypto", "closedHandle"))
	}

	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Malformed or tampered input surfaces as an
// UnexpectedFormat error.
func (c *Crypto) Decrypt(ciphertext string) (string, error) {
	if c.closed {
		return "", errs.New(errs.InvalidParameter, messages.Get("crypto", "closedHandle"))
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errs.Wrap(errs.UnexpectedFormat, messages.Get("crypto", "invalidCiphertext"), err)
	}

	nonceSize := c.gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", errs.New(errs.UnexpectedFormat, messages.Get("crypto", "invalidCiphertext"))
	}

	nonce := raw[:nonceSize]
	sealed := raw[nonceSize:]

	plaintext, err := c.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", errs.Wrap(errs.UnexpectedFormat, messages.Get("crypto", "invalidCiphertext"), err)
	}

	return string(plaintext), nil
}

// Close zeroes the key material. The handle cannot be used afterward.
func (c *Crypto) Close() error {
	for i := range c.key {
		c.key[i] = 0
	}
	c.closed = true
	return nil
}

func loadKey() ([]byte, error) {
	if v := os.Getenv(EnvKey); v != "" {
		key, err := hex.DecodeString(v)
		if err != nil || len(key) != keyLen {
			return nil, errs.New(errs.InvalidParameter, messages.Get("crypto", "invalidKey"))
		}
		return key, nil
	}

	secret, salt, err := keyringMaterial()
	if err != nil {
		return nil, err
	}

	return pbkdf2.Key(secret, salt, iterations, keyLen, sha256.New), nil
}

// keyringMaterial fetches the secret and salt from the OS keyring, generating
// and storing both on first use.
func keyringMaterial() ([]byte, []byte, error) {
	secret, err := keyringBytes(secretAccount)
	if err != nil {
		return nil, nil, err
	}
	salt, err := keyringBytes(saltAccount)
	if err != nil {
		return nil, nil, err
	}
	return secret, salt, nil
}

func keyringBytes(account string) ([]byte, error) {
	if v, err := keyring.Get(Service, account); err == nil {
		b, decErr := base64.StdEncoding.DecodeString(v)
		if decErr != nil {
			return nil, errs.Wrap(errs.InvalidParameter, messages.Get("crypto", "invalidKey"), decErr)
		}
		return b, nil
	}

	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	if err := keyring.Set(Service, account, base64.StdEncoding.EncodeToString(b)); err != nil {
		return nil, errs.Wrap(errs.InvalidParameter, messages.Get("crypto", "keyringUnavailable"), err)
	}
	log.Debugf("generated keyring material: account=%s", account)
	return b, nil
}
