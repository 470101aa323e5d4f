// Package credman keeps cookie files encrypted at rest.
package credman

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/warpdl/warpjar/pkg/cookiejar"
	"github.com/warpdl/warpjar/pkg/credman/encryption"
)

// keyInfo binds derived keys to the cookie file use.
const keyInfo = "warpjar cookie file v1"

// ErrNotEncrypted is returned when the stored content is not base64 text
// produced by an EncryptedHandler.
var ErrNotEncrypted = errors.New("cookie file is not encrypted")

// EncryptedHandler wraps a FileHandler and stores the Netscape text as
// base64("gcm1" | nonce | AES-GCM ciphertext).
type EncryptedHandler struct {
	inner cookiejar.FileHandler
	key   []byte
}

// NewEncryptedHandler derives the file key from secret and wraps inner.
func NewEncryptedHandler(inner cookiejar.FileHandler, secret []byte) (*EncryptedHandler, error) {
	key, err := encryption.DeriveKey(secret, keyInfo)
	if err != nil {
		return nil, err
	}
	return &EncryptedHandler{inner: inner, key: key}, nil
}

// ReadAll decrypts the stored content. Empty storage reads as empty text.
func (h *EncryptedHandler) ReadAll() (string, error) {
	content, err := h.inner.ReadAll()
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return "", fmt.Errorf("error: %w", ErrNotEncrypted)
	}
	plain, err := encryption.DecryptValue(raw, h.key)
	if errors.Is(err, encryption.ErrUnknownFormat) {
		return "", fmt.Errorf("error: %w", ErrNotEncrypted)
	}
	if err != nil {
		return "", fmt.Errorf("error: cannot decrypt cookie file: %w", err)
	}
	return string(plain), nil
}

// WriteAll encrypts content and replaces the stored text.
func (h *EncryptedHandler) WriteAll(content string) error {
	sealed, err := encryption.EncryptValue(content, h.key)
	if err != nil {
		return fmt.Errorf("error: cannot encrypt cookie file: %w", err)
	}
	return h.inner.WriteAll(base64.StdEncoding.EncodeToString(sealed) + "\n")
}

var _ cookiejar.FileHandler = (*EncryptedHandler)(nil)
