package cookiejar

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	netscapeHeader = "# Netscape HTTP Cookie File\n" +
		"# http://www.netscape.com/newsref/std/cookie_spec.html\n" +
		"# This is a generated file!  Do not edit.\n\n"
	httpOnlyPrefix = "#HttpOnly_"
)

var (
	newLine     = regexp.MustCompile(`\r\n|\n`)
	magicHeader = regexp.MustCompile(`^#(?: Netscape)? HTTP Cookie File`)
	commentLine = regexp.MustCompile(`^\s*#`)
)

var (
	// ErrBadMagic is returned when the cookie file does not start with the
	// Netscape header comment.
	ErrBadMagic = errors.New("not a Netscape cookie file")
	// ErrBadLine is returned for a data line without exactly 7 tab separated fields.
	ErrBadLine = errors.New("malformed cookie line")
)

// FormatError describes a structural problem in a Netscape cookie file.
type FormatError struct {
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("error: cookie file line %d: %s", e.Line, e.Err)
	}
	return fmt.Sprintf("error: cookie file: %s", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Serialize renders the persistent cookies in the Netscape cookie file
// format. Session cookies are skipped. With httpOnlyExtension, HttpOnly
// cookies get the "#HttpOnly_" domain prefix understood by curl.
//
// The expiry column holds Expires as Unix seconds. Cookies that only carry
// Max-Age are written with the instant Max-Age resolves to at now.
func Serialize(cookies []*Cookie, httpOnlyExtension bool, now time.Time) string {
	var b strings.Builder
	b.WriteString(netscapeHeader)
	for _, c := range cookies {
		if !c.IsPersistent() {
			continue
		}
		domain := c.Domain
		if c.Scope != ScopeHost {
			domain = "." + domain
		}
		head := ""
		if httpOnlyExtension && c.HttpOnly {
			head = httpOnlyPrefix
		}
		fields := []string{
			head + domain,
			netscapeBool(strings.HasPrefix(domain, ".")),
			c.Path,
			netscapeBool(c.Secure),
			strconv.FormatInt(epochOf(c, now), 10),
			url.QueryEscape(c.Key),
			url.QueryEscape(c.Value),
		}
		b.WriteString(strings.Join(fields, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

func netscapeBool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// epochOf returns the expiry column value. 0 is reserved for "no expiry", so
// already expired Max-Age cookies are written as 1.
func epochOf(c *Cookie, now time.Time) int64 {
	if c.HasExpires() {
		return c.Expires.Unix()
	}
	exp, ok := c.Expiration(now)
	if !ok {
		return 0
	}
	return max(1, exp.Unix())
}

// Deserialize decodes a Netscape cookie file. Empty content yields no
// cookies. Without forceParse a missing header or a malformed line returns a
// *FormatError; with forceParse malformed lines are skipped and reported
// through skipped (which may be nil).
func Deserialize(content string, forceParse, httpOnlyExtension bool, skipped func(line int, text string)) ([]*Cookie, error) {
	return deserialize(content, forceParse, httpOnlyExtension, false, skipped)
}

// DeserializeRaw is Deserialize for cookie files written by other tools
// (curl, browsers, yt-dlp). Their name and value fields hold the cookie text
// as sent, so they are kept verbatim instead of being URL decoded.
func DeserializeRaw(content string, forceParse, httpOnlyExtension bool, skipped func(line int, text string)) ([]*Cookie, error) {
	return deserialize(content, forceParse, httpOnlyExtension, true, skipped)
}

func deserialize(content string, forceParse, httpOnlyExtension, rawFields bool, skipped func(line int, text string)) ([]*Cookie, error) {
	if content == "" {
		return nil, nil
	}
	lines := newLine.Split(content, -1)
	if !forceParse && !hasMagic(lines) {
		return nil, &FormatError{Err: ErrBadMagic}
	}

	var cookies []*Cookie
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) && httpOnlyExtension {
			httpOnly = true
			line = line[len(httpOnlyPrefix):]
		} else if commentLine.MatchString(line) {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			if !forceParse {
				return nil, &FormatError{Line: i + 1, Err: ErrBadLine}
			}
			if skipped != nil {
				skipped(i+1, line)
			}
			continue
		}

		scope := ScopeHost
		if strings.HasPrefix(strings.TrimSpace(fields[0]), ".") {
			scope = ScopeDomain
		}
		key, value := fields[5], fields[6]
		if !rawFields {
			key, value = decodeField(key), decodeField(value)
		}
		c := &Cookie{
			Domain:   CanonicalDomain(fields[0]),
			Path:     fields[2],
			Secure:   fields[3] == "TRUE",
			Key:      key,
			Value:    value,
			HttpOnly: httpOnly,
			Scope:    scope,
		}
		if secs, err := strconv.ParseInt(fields[4], 10, 64); err == nil && secs != 0 {
			c.Expires = time.Unix(secs, 0).UTC()
		}
		c.stamp()
		cookies = append(cookies, c)
	}
	return cookies, nil
}

// IsNetscape reports whether content starts with the Netscape cookie file
// header comment.
func IsNetscape(content string) bool {
	return hasMagic(newLine.Split(content, -1))
}

// hasMagic checks the first non-empty line for the header comment.
func hasMagic(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return magicHeader.MatchString(line)
	}
	return false
}

func decodeField(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}
