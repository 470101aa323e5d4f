package cookiejar

import (
	"net/http"
	"net/url"
	"sync"
)

// HTTPJar adapts a Jar to http.CookieJar so it can back an http.Client.
// Calls are serialized with a mutex.
type HTTPJar struct {
	mu  sync.Mutex
	jar *Jar
}

// NewHTTPJar wraps jar. The caller must not use jar directly while the
// HTTPJar is in use by a client.
func NewHTTPJar(jar *Jar) *HTTPJar {
	return &HTTPJar{jar: jar}
}

// SetCookies implements http.CookieJar. The records are built from the
// http.Cookie fields, so values net/http would quote keep their commas and
// spaces. Persistence errors are logged by the jar and otherwise ignored, as
// the interface has no error return.
func (h *HTTPJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, hc := range cookies {
		c := fromHTTPCookie(hc)
		if c == nil {
			continue
		}
		_ = h.jar.receive(u, c)
	}
}

// fromHTTPCookie converts hc, returning nil for nameless cookies and for
// names or values with control characters.
func fromHTTPCookie(hc *http.Cookie) *Cookie {
	if hc == nil || hc.Name == "" || hasControlChars(hc.Name) || hasControlChars(hc.Value) {
		return nil
	}
	c := &Cookie{
		Key:      hc.Name,
		Value:    hc.Value,
		Path:     hc.Path,
		Secure:   hc.Secure,
		HttpOnly: hc.HttpOnly,
	}
	if hc.Domain != "" {
		c.Domain = CanonicalDomain(hc.Domain)
	}
	if !hc.Expires.IsZero() {
		c.Expires = hc.Expires.UTC()
	}
	// net/http uses MaxAge<0 for "Max-Age: 0" and 0 for no attribute
	switch {
	case hc.MaxAge > 0:
		c.MaxAge, c.HasMaxAge = hc.MaxAge, true
	case hc.MaxAge < 0:
		c.MaxAge, c.HasMaxAge = 0, true
	}
	switch hc.SameSite {
	case http.SameSiteDefaultMode:
		c.Extensions = append(c.Extensions, "SameSite")
	case http.SameSiteLaxMode:
		c.Extensions = append(c.Extensions, "SameSite=Lax")
	case http.SameSiteStrictMode:
		c.Extensions = append(c.Extensions, "SameSite=Strict")
	case http.SameSiteNoneMode:
		c.Extensions = append(c.Extensions, "SameSite=None")
	}
	if hc.Partitioned {
		c.Extensions = append(c.Extensions, "Partitioned")
	}
	c.Extensions = append(c.Extensions, hc.Unparsed...)
	return c
}

// Cookies implements http.CookieJar. Nameless cookies are left out because
// net/http cannot send them.
func (h *HTTPJar) Cookies(u *url.URL) []*http.Cookie {
	h.mu.Lock()
	defer h.mu.Unlock()
	found, _ := h.jar.CookiesFor(u)
	var out []*http.Cookie
	for _, c := range found {
		if c.Key == "" {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Key, Value: c.Value})
	}
	return out
}

var _ http.CookieJar = (*HTTPJar)(nil)
