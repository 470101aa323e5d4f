package browser

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/warpdl/warpjar/pkg/cookiejar"
	_ "modernc.org/sqlite"
)

// chromeEpochOffsetSeconds is the number of seconds between the Windows NT
// epoch (1601-01-01 UTC) and the Unix epoch.
const chromeEpochOffsetSeconds int64 = 11_644_473_600

// schema maps a browser's cookie table onto jar records.
type schema struct {
	format  Format
	browser string
	table   string
	query   string
	// expiry converts the stored expiry column; ok is false for session cookies.
	expiry func(v int64) (t time.Time, ok bool)
}

var firefoxSchema = &schema{
	format:  FormatFirefox,
	browser: "Firefox",
	table:   "moz_cookies",
	query: `SELECT name, value, host, path, expiry, isSecure, isHttpOnly
        FROM moz_cookies
        ORDER BY host ASC, path DESC, name ASC`,
	expiry: func(v int64) (time.Time, bool) {
		// newer releases store milliseconds
		if v > 1e12 {
			v /= 1000
		}
		return time.Unix(v, 0).UTC(), v > 0
	},
}

var chromeSchema = &schema{
	format:  FormatChrome,
	browser: "Chrome",
	table:   "cookies",
	// encrypted rows carry an empty value and cannot be used
	query: `SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly
        FROM cookies
        WHERE value != ''
        ORDER BY host_key ASC, path DESC, name ASC`,
	expiry: func(v int64) (time.Time, bool) {
		if v == 0 {
			return time.Time{}, false
		}
		return time.Unix(chromeToUnix(v), 0).UTC(), true
	},
}

// chromeToUnix converts microseconds since 1601-01-01 to Unix seconds.
func chromeToUnix(chromeUSec int64) int64 {
	return (chromeUSec / 1_000_000) - chromeEpochOffsetSeconds
}

// readSQLite reads every usable cookie of a copied database. Expired rows
// and rows outside domain are skipped.
func readSQLite(dbPath string, s *schema, domain string, now time.Time) ([]*cookiejar.Cookie, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
	if err != nil {
		return nil, fmt.Errorf("error: cannot open %s cookie database: %w", s.browser, err)
	}
	defer db.Close()

	rows, err := db.Query(s.query)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query %s cookies: %w", s.browser, err)
	}
	defer rows.Close()

	var cookies []*cookiejar.Cookie
	for rows.Next() {
		var (
			name, value, host, path string
			expiry                  int64
			isSecure, isHttpOnly    int
		)
		if err := rows.Scan(&name, &value, &host, &path, &expiry, &isSecure, &isHttpOnly); err != nil {
			return nil, fmt.Errorf("error: failed to scan %s cookie row: %w", s.browser, err)
		}
		c := &cookiejar.Cookie{
			Key:      name,
			Value:    value,
			Domain:   cookiejar.CanonicalDomain(host),
			Path:     path,
			Secure:   isSecure != 0,
			HttpOnly: isHttpOnly != 0,
			Scope:    scopeOf(host),
		}
		if t, ok := s.expiry(expiry); ok {
			if !t.After(now) {
				continue
			}
			c.Expires = t
		}
		if !inDomain(c, domain) {
			continue
		}
		cookies = append(cookies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate %s cookie rows: %w", s.browser, err)
	}
	return cookies, nil
}

// scopeOf derives the host-only flag from the raw host column.
func scopeOf(host string) cookiejar.Scope {
	if strings.HasPrefix(strings.TrimSpace(host), ".") {
		return cookiejar.ScopeDomain
	}
	return cookiejar.ScopeHost
}

// inDomain keeps cookies set for domain or one of its subdomains. An empty
// domain keeps everything.
func inDomain(c *cookiejar.Cookie, domain string) bool {
	if domain == "" {
		return true
	}
	return c.Domain == domain || strings.HasSuffix(c.Domain, "."+domain)
}
