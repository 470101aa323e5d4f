package cookiejar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileHandler stores the serialized cookie file. ReadAll returns empty text
// when nothing was written yet; WriteAll replaces the whole content.
type FileHandler interface {
	ReadAll() (string, error)
	WriteAll(content string) error
}

// MemoryHandler keeps the cookie file in memory. Useful for tests and
// private sessions.
type MemoryHandler struct {
	content string
}

// NewMemoryHandler returns a handler preloaded with content.
func NewMemoryHandler(content string) *MemoryHandler {
	return &MemoryHandler{content: content}
}

func (m *MemoryHandler) ReadAll() (string, error) {
	return m.content, nil
}

func (m *MemoryHandler) WriteAll(content string) error {
	m.content = content
	return nil
}

// FSHandler stores the cookie file at Path on an afero file system.
type FSHandler struct {
	Fs   afero.Fs
	Path string
}

// NewFileHandler returns a handler for a file on the local disk.
func NewFileHandler(path string) *FSHandler {
	return &FSHandler{Fs: afero.NewOsFs(), Path: path}
}

// ReadAll returns the file content, or empty text if the file does not exist.
func (h *FSHandler) ReadAll() (string, error) {
	data, err := afero.ReadFile(h.Fs, h.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error: cannot read cookie file: %w", err)
	}
	return string(data), nil
}

// WriteAll replaces the file content. The text goes to a temporary file in
// the same directory which is then renamed over the target.
func (h *FSHandler) WriteAll(content string) error {
	dir := filepath.Dir(h.Path)
	if err := h.Fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error: cannot create cookie directory: %w", err)
	}
	tmp, err := afero.TempFile(h.Fs, dir, ".cookies.tmp.*")
	if err != nil {
		return fmt.Errorf("error: cannot create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		h.Fs.Remove(tmpPath)
		return fmt.Errorf("error: cannot write cookie file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		h.Fs.Remove(tmpPath)
		return fmt.Errorf("error: cannot close temp file: %w", err)
	}
	if err := h.Fs.Chmod(tmpPath, 0600); err != nil {
		h.Fs.Remove(tmpPath)
		return fmt.Errorf("error: cannot set cookie file permissions: %w", err)
	}
	if err := h.Fs.Rename(tmpPath, h.Path); err != nil {
		h.Fs.Remove(tmpPath)
		return fmt.Errorf("error: cannot replace cookie file: %w", err)
	}
	return nil
}

var (
	_ FileHandler = (*MemoryHandler)(nil)
	_ FileHandler = (*FSHandler)(nil)
)
