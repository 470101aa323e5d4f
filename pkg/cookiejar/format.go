package cookiejar

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	pathChars  = regexp.MustCompile(`^[\x20-\x3A\x3C-\x7E]+$`)
	valueChars = regexp.MustCompile(`^[\x21\x23-\x2B\x2D-\x3A\x3C-\x5B\x5D-\x7E]+$`)
)

// HeaderValue renders the cookie the way it appears in a Cookie request
// header: "key=value", or just the value when the key is empty.
func (c *Cookie) HeaderValue() string {
	if c.Key == "" {
		return c.Value
	}
	return c.Key + "=" + c.Value
}

// String renders the cookie as a Set-Cookie header value, extensions included.
func (c *Cookie) String() string {
	var b strings.Builder
	b.WriteString(c.HeaderValue())
	if c.HasExpires() {
		b.WriteString("; Expires=")
		b.WriteString(formatCookieDate(c.Expires))
	}
	if c.HasMaxAge {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(c.MaxAge))
	}
	if c.Domain != "" && c.Scope != ScopeHost {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	for _, ext := range c.Extensions {
		b.WriteString("; ")
		b.WriteString(ext)
	}
	return b.String()
}

// Validate reports whether the cookie would be accepted by a strict RFC 6265
// server-side check. Jar operations do not require it.
func (c *Cookie) Validate() bool {
	if !valueChars.MatchString(c.Value) {
		return false
	}
	if c.HasMaxAge && c.MaxAge <= 0 {
		return false
	}
	if c.Path != "" && !pathChars.MatchString(c.Path) {
		return false
	}
	if d := CanonicalDomain(c.Domain); d != "" && strings.HasSuffix(d, ".") {
		return false
	}
	return true
}

// formatCookieDate renders t as "Tue, 18 Oct 2011 07:05:03 GMT".
func formatCookieDate(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006 15:04:05") + " GMT"
}
