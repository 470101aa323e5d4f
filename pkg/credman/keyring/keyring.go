// Package keyring stores the master secret that protects encrypted cookie
// files. The operating system keyring is preferred; a 0600 key file in the
// config directory is the fallback.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeySize is the length of generated secrets in bytes.
const KeySize = 32

// KeyStore keeps one secret.
type KeyStore interface {
	SetKey() ([]byte, error)
	GetKey() ([]byte, error)
	DeleteKey() error
}

// Keyring stores the secret hex encoded in the OS keyring.
type Keyring struct {
	AppName  string
	KeyField string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

func NewKeyring() *Keyring {
	return &Keyring{
		AppName:  "warpjar",
		KeyField: "cookie-file",
	}
}

func (k *Keyring) SetKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := randRead(key); err != nil {
		return nil, err
	}
	if err := keyringSet(k.AppName, k.KeyField, hex.EncodeToString(key)); err != nil {
		return nil, err
	}
	return key, nil
}

func (k *Keyring) GetKey() ([]byte, error) {
	value, err := keyringGet(k.AppName, k.KeyField)
	if err != nil {
		return nil, err
	}
	return decodeKey(value)
}

func (k *Keyring) DeleteKey() error {
	return keyringDelete(k.AppName, k.KeyField)
}

func decodeKey(value string) ([]byte, error) {
	key, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key length: expected %d, got %d", KeySize, len(key))
	}
	return key, nil
}

// LoadOrCreate returns the first secret any store holds. When none has one,
// a new secret is generated in the first store that accepts it.
func LoadOrCreate(stores ...KeyStore) ([]byte, error) {
	for _, s := range stores {
		if key, err := s.GetKey(); err == nil {
			return key, nil
		}
	}
	var errs []error
	for _, s := range stores {
		key, err := s.SetKey()
		if err == nil {
			return key, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, errors.New("no key store configured")
	}
	return nil, fmt.Errorf("cannot store cookie key: %w", errors.Join(errs...))
}

var _ KeyStore = (*Keyring)(nil)
