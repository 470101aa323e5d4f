package browser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// snapshot copies a SQLite cookie store, with its -wal and -shm companions
// when present, into a fresh temporary directory so the browser that owns
// the database is not disturbed. It returns the path of the copy and a
// cleanup function the caller must run.
func snapshot(srcPath string) (string, func(), error) {
	tempDir, err := os.MkdirTemp("", "warpjar-import-*")
	if err != nil {
		return "", nil, fmt.Errorf("error: cannot create temp directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(tempDir) }

	dst := filepath.Join(tempDir, filepath.Base(srcPath))
	if err := copyFile(srcPath, dst); err != nil {
		cleanup()
		return "", nil, err
	}
	// companions are best effort
	for _, suffix := range []string{"-wal", "-shm"} {
		if _, err := os.Stat(srcPath + suffix); err == nil {
			_ = copyFile(srcPath+suffix, dst+suffix)
		}
	}
	return dst, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("error: cannot open source file %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("error: cannot create destination file %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("error: cannot copy file: %w", err)
	}
	return out.Close()
}
