// Package crypt provides AES-GCM authenticated encryption keyed by APP_KEY.
//
// Ciphertext is base64url-encoded and carries its random nonce as a prefix,
// so one string can be stored as a session value and decrypted later.
//
//	enc, err := crypt.Encrypt(token)
//	plain, err := crypt.Decrypt(enc)
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/shashiranjanraj/cafefront/config"
)

// ErrDecrypt is returned when decryption or authentication fails.
var ErrDecrypt = errors.New("crypt: decryption failed")

// aead builds the AES-256-GCM cipher from a SHA-256 digest of APP_KEY.
func aead() (cipher.AEAD, error) {
	secret := config.AppKey()
	if secret == "" {
		return nil, errors.New("crypt: APP_KEY not configured")
	}
	k := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(k[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt seals plaintext and returns base64url(nonce || ciphertext || tag).
func Encrypt(plaintext string) (string, error) {
	gcm, err := aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a string produced by Encrypt. Any tampering, a wrong key or
// malformed input yields ErrDecrypt.
func Decrypt(encoded string) (string, error) {
	gcm, err := aead()
	if err != nil {
		return "", err
	}

	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecrypt
	}

	n := gcm.NonceSize()
	if len(data) < n {
		return "", ErrDecrypt
	}

	plain, err := gcm.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
