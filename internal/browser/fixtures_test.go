package browser

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/warpdl/warpjar/pkg/cookiejar"
	_ "modernc.org/sqlite"
)

// testNow is the clock used by every importer in this package's tests.
var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestImporter() *Importer {
	return &Importer{Now: func() time.Time { return testNow }}
}

type firefoxRow struct {
	Name       string
	Value      string
	Host       string
	Path       string
	Expiry     int64
	IsSecure   int
	IsHttpOnly int
}

// createFirefoxFixture writes a moz_cookies database into dir.
func createFirefoxFixture(t *testing.T, dir string, rows []firefoxRow) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	dbPath := filepath.Join(dir, "cookies.sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE moz_cookies (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        host TEXT NOT NULL,
        path TEXT NOT NULL DEFAULT '/',
        expiry INTEGER NOT NULL DEFAULT 0,
        isSecure INTEGER NOT NULL DEFAULT 0,
        isHttpOnly INTEGER NOT NULL DEFAULT 0
    )`)
	if err != nil {
		t.Fatalf("failed to create moz_cookies table: %v", err)
	}
	for _, r := range rows {
		_, err = db.Exec(`INSERT INTO moz_cookies (name, value, host, path, expiry, isSecure, isHttpOnly) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.Name, r.Value, r.Host, r.Path, r.Expiry, r.IsSecure, r.IsHttpOnly)
		if err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
	}
	return dbPath
}

type chromeRow struct {
	Name       string
	Value      string
	Encrypted  []byte
	HostKey    string
	Path       string
	ExpiresUTC int64
	IsSecure   int
	IsHttpOnly int
}

// unixToChrome converts Unix seconds to Chrome's microsecond timestamps.
func unixToChrome(sec int64) int64 {
	return (sec + chromeEpochOffsetSeconds) * 1_000_000
}

// createChromeFixture writes a Chrome cookies database named name into dir.
func createChromeFixture(t *testing.T, dir, name string, rows []chromeRow) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	dbPath := filepath.Join(dir, name)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE cookies (
        creation_utc INTEGER NOT NULL DEFAULT 0,
        host_key TEXT NOT NULL,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        encrypted_value BLOB DEFAULT '',
        path TEXT NOT NULL,
        expires_utc INTEGER NOT NULL,
        is_secure INTEGER NOT NULL,
        is_httponly INTEGER NOT NULL
    )`)
	if err != nil {
		t.Fatalf("failed to create cookies table: %v", err)
	}
	for _, r := range rows {
		_, err = db.Exec(`INSERT INTO cookies (host_key, name, value, encrypted_value, path, expires_utc, is_secure, is_httponly) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.HostKey, r.Name, r.Value, r.Encrypted, r.Path, r.ExpiresUTC, r.IsSecure, r.IsHttpOnly)
		if err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
	}
	return dbPath
}

func openFixtureDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return db
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return path
}

func byKey(cookies []*cookiejar.Cookie) map[string]*cookiejar.Cookie {
	m := make(map[string]*cookiejar.Cookie, len(cookies))
	for _, c := range cookies {
		m[c.Key] = c
	}
	return m
}
