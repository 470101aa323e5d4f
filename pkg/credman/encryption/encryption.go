// Package encryption seals cookie file content with AES-256-GCM.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	gcmPrefix = "gcm1"
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
)

var (
	// ErrUnknownFormat is returned for ciphertext without the format prefix.
	ErrUnknownFormat = errors.New("unknown ciphertext format")
	// ErrTooShort is returned when the ciphertext cannot hold a nonce.
	ErrTooShort = errors.New("ciphertext too short")
)

// DeriveKey expands a stored master secret into an AES-256 key bound to info.
func DeriveKey(secret []byte, info string) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("derive key: empty secret")
	}
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptValue returns "gcm1" | nonce | ciphertext.
func EncryptValue(value string, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(value), nil)
	out := make([]byte, 0, len(gcmPrefix)+len(nonce)+len(ciphertext))
	out = append(out, gcmPrefix...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// DecryptValue opens data produced by EncryptValue.
func DecryptValue(ciphertext []byte, key []byte) ([]byte, error) {
	if len(ciphertext) < len(gcmPrefix) || string(ciphertext[:len(gcmPrefix)]) != gcmPrefix {
		return nil, ErrUnknownFormat
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < len(gcmPrefix)+nonceSize {
		return nil, ErrTooShort
	}
	nonce := ciphertext[len(gcmPrefix) : len(gcmPrefix)+nonceSize]
	data := ciphertext[len(gcmPrefix)+nonceSize:]
	return gcm.Open(nil, nonce, data, nil)
}
