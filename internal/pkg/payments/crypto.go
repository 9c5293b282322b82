package payments

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/payflowhq/payflow/internal/pkg/env"
)

const pbkdf2Iterations = 600_000

// Crypto encrypts card numbers at rest with AES-256-GCM. A random nonce is
// generated per encryption and stored next to the ciphertext.
type Crypto struct {
	aead cipher.AEAD
}

// NewCrypto builds a Crypto from a raw 32-byte key.
func NewCrypto(key []byte) (*Crypto, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Crypto{aead: aead}, nil
}

// NewCryptoFromEnv derives the AES key from PAYMENT_ENC_SECRET via
// PBKDF2-SHA256 with PAYMENT_ENC_SALT.
func NewCryptoFromEnv() (*Crypto, error) {
	secret := env.GetEnv("PAYMENT_ENC_SECRET", "")
	if secret == "" {
		return nil, errors.New("PAYMENT_ENC_SECRET is not configured")
	}
	salt := env.GetEnv("PAYMENT_ENC_SALT", "payflow-card-at-rest")
	key := pbkdf2.Key([]byte(secret), []byte(salt), pbkdf2Iterations, 32, sha256.New)
	return NewCrypto(key)
}

// Encrypt returns the base64 ciphertext and nonce for a plaintext.
func (c *Crypto) Encrypt(plaintext string) (ciphertext, nonce string, err error) {
	rawNonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(rawNonce); err != nil {
		return "", "", err
	}
	sealed := c.aead.Seal(nil, rawNonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), base64.StdEncoding.EncodeToString(rawNonce), nil
}

// Decrypt reverses Encrypt. Tampered ciphertexts fail authentication.
func (c *Crypto) Decrypt(ciphertext, nonce string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}
	rawNonce, err := base64.StdEncoding.DecodeString(nonce)
	if err != nil {
		return "", err
	}
	plain, err := c.aead.Open(nil, rawNonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
