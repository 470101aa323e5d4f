package browser

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/warpdl/warpjar/pkg/cookiejar"
	_ "modernc.org/sqlite"
)

// sqliteMagic is the first 16 bytes of any SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// DetectFormat determines the cookie store format of the file at path.
func DetectFormat(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("error: cookie file not found: %s", path)
	}
	if info.IsDir() {
		return FormatUnknown, fmt.Errorf("error: %s is a directory, expected a cookie file", path)
	}
	if info.Size() == 0 {
		return FormatUnknown, fmt.Errorf("error: cookie file at %s is empty", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("error: cannot open cookie file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return FormatUnknown, fmt.Errorf("error: cannot read cookie file: %w", err)
	}
	head = head[:n]

	if bytes.HasPrefix(head, sqliteMagic) {
		return detectSQLiteFormat(path)
	}
	if cookiejar.IsNetscape(string(head)) {
		return FormatNetscape, nil
	}
	return FormatUnknown, fmt.Errorf("error: unsupported cookie store at %s", path)
}

// detectSQLiteFormat probes the database for a known cookie table.
func detectSQLiteFormat(path string) (Format, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return FormatUnknown, fmt.Errorf("error: cannot open SQLite database: %w", err)
	}
	defer db.Close()

	for _, s := range []*schema{firefoxSchema, chromeSchema} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, s.table).Scan(&name)
		if err == nil {
			return s.format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("error: unsupported cookie database schema at %s", path)
}
