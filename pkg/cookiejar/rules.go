package cookiejar

import (
	"net/netip"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// CanonicalDomain trims s, strips a single leading dot, punycode-encodes
// non-ASCII labels and lower-cases the result (RFC 6265 S5.1.2).
func CanonicalDomain(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ".")
	if !isASCII(s) {
		if encoded, err := idna.Punycode.ToASCII(s); err == nil {
			s = encoded
		}
	}
	return strings.ToLower(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// DomainMatch implements "domain-match" of RFC 6265 S5.1.3. Both arguments
// must already be canonical.
func DomainMatch(host, domain string) bool {
	if host == domain {
		return true
	}
	if domain == "" || isIPv4(host) {
		return false
	}
	if len(host) <= len(domain) || !strings.HasSuffix(host, domain) {
		return false
	}
	return host[len(host)-len(domain)-1] == '.'
}

func isIPv4(host string) bool {
	addr, err := netip.ParseAddr(host)
	return err == nil && addr.Is4()
}

// CheckPaths implements "path-match" of RFC 6265 S5.1.4.
func CheckPaths(requestPath, cookiePath string) bool {
	if requestPath == cookiePath {
		return true
	}
	if cookiePath == "" || !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	if strings.HasSuffix(cookiePath, "/") {
		return true
	}
	return requestPath[len(cookiePath)] == '/'
}

// DefaultPath computes the default-path of a request uri-path (RFC 6265 S5.1.4).
func DefaultPath(uriPath string) string {
	if uriPath == "" || uriPath[0] != '/' {
		return "/"
	}
	i := strings.LastIndexByte(uriPath, '/')
	if i == 0 {
		return "/"
	}
	return uriPath[:i]
}

// publicSuffixAllowed is the public suffix hook consulted before a domain
// cookie is accepted. The jar ships without a suffix list, so every domain
// is allowed.
func publicSuffixAllowed(string) bool {
	return true
}
