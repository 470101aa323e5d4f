package keyring

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	keyFileName = "cookie.key"
	keyFileMode = 0600
)

// FileKeyStore keeps the secret hex encoded in a 0600 file. It is used when
// the system keyring is unavailable (headless Linux, containers).
type FileKeyStore struct {
	fs        afero.Fs
	configDir string
}

var fileRandRead = randRead

// NewFileKeyStore creates a store for configDir/cookie.key on fs.
func NewFileKeyStore(fs afero.Fs, configDir string) *FileKeyStore {
	return &FileKeyStore{fs: fs, configDir: configDir}
}

func (f *FileKeyStore) keyPath() string {
	return filepath.Join(f.configDir, keyFileName)
}

// SetKey generates a new secret and writes it through a temp file and rename.
func (f *FileKeyStore) SetKey() ([]byte, error) {
	if err := f.fs.MkdirAll(f.configDir, 0755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	key := make([]byte, KeySize)
	if _, err := fileRandRead(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	tmpFile, err := afero.TempFile(f.fs, f.configDir, ".cookie.key.tmp.*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.WriteString(hex.EncodeToString(key)); err != nil {
		tmpFile.Close()
		f.fs.Remove(tmpPath)
		return nil, fmt.Errorf("write key: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		f.fs.Remove(tmpPath)
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	if err := f.fs.Chmod(tmpPath, keyFileMode); err != nil {
		f.fs.Remove(tmpPath)
		return nil, fmt.Errorf("set permissions: %w", err)
	}
	if err := f.fs.Rename(tmpPath, f.keyPath()); err != nil {
		f.fs.Remove(tmpPath)
		return nil, fmt.Errorf("rename key file: %w", err)
	}
	return key, nil
}

// GetKey reads the stored secret. A missing file returns an error satisfying
// os.IsNotExist.
func (f *FileKeyStore) GetKey() ([]byte, error) {
	data, err := afero.ReadFile(f.fs, f.keyPath())
	if err != nil {
		return nil, err
	}
	return decodeKey(strings.TrimSpace(string(data)))
}

func (f *FileKeyStore) DeleteKey() error {
	return f.fs.Remove(f.keyPath())
}

var _ KeyStore = (*FileKeyStore)(nil)
