package cookiejar

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/warpdl/warpjar/pkg/logger"
)

// Options configures a Jar. The zero value is usable.
type Options struct {
	// ForceParse skips malformed lines of the cookie file instead of failing.
	ForceParse bool
	// HTTPOnlyExtension reads and writes the "#HttpOnly_" domain prefix.
	HTTPOnlyExtension bool
	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger logger.Logger
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Jar is an RFC 6265 cookie store backed by a FileHandler.
//
// Records are kept ordered by domain, path, key, value, time to live and
// creation, and the Cookie header lists matches in that order.
type Jar struct {
	cookies     []*Cookie
	handler     FileHandler
	forceParse  bool
	httpOnlyExt bool
	log         logger.Logger
	now         func() time.Time
}

// New creates a Jar and loads the cookies currently stored by handler.
func New(handler FileHandler, opts *Options) (*Jar, error) {
	if opts == nil {
		opts = &Options{}
	}
	j := &Jar{
		handler:     handler,
		forceParse:  opts.ForceParse,
		httpOnlyExt: opts.HTTPOnlyExtension,
		log:         opts.Logger,
		now:         opts.Now,
	}
	if j.log == nil {
		j.log = logger.NewNopLogger()
	}
	if j.now == nil {
		j.now = time.Now
	}

	content, err := handler.ReadAll()
	if err != nil {
		return nil, err
	}
	cookies, err := Deserialize(content, j.forceParse, j.httpOnlyExt, func(line int, _ string) {
		j.log.Warning("cookiejar: skipping malformed line %d", line)
	})
	if err != nil {
		return nil, err
	}
	now := j.now()
	for _, c := range cookies {
		j.put(c, now)
	}
	j.log.Debug("cookiejar: loaded %d cookies", len(j.cookies))
	return j, nil
}

// GetCookieHeader returns the Cookie header value for a request to u.
// Expired cookies met during the lookup are evicted and the store is written
// back; the header is valid even when that write fails.
func (j *Jar) GetCookieHeader(u *url.URL) (string, error) {
	cookies, err := j.CookiesFor(u)
	pairs := make([]string, len(cookies))
	for i, c := range cookies {
		pairs[i] = c.HeaderValue()
	}
	return strings.Join(pairs, "; "), err
}

// CookiesFor returns the cookies that would be sent to u, in store order,
// with the same eviction side effect as GetCookieHeader.
func (j *Jar) CookiesFor(u *url.URL) ([]*Cookie, error) {
	host := CanonicalDomain(u.Hostname())
	path := u.Path
	if path == "" {
		path = "/"
	}
	secure := isSecureScheme(u.Scheme)
	now := j.now()

	var found, expired []*Cookie
	for _, c := range j.cookies {
		if !c.matches(host, path, secure) {
			continue
		}
		if c.expiredAt(now) {
			expired = append(expired, c)
			continue
		}
		found = append(found, c)
	}

	if len(expired) > 0 {
		j.cookies = slices.DeleteFunc(j.cookies, func(c *Cookie) bool {
			return slices.Contains(expired, c)
		})
		for _, c := range expired {
			j.log.Info("cookiejar: evicted expired cookie %s on %s%s", c.Key, c.Domain, c.Path)
		}
		if err := j.persist(); err != nil {
			return found, err
		}
	}
	return found, nil
}

func isSecureScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)
	return scheme == "https" || scheme == "wss"
}

// matches applies the domain, path and secure checks of RFC 6265 S5.4.
func (c *Cookie) matches(host, path string, secure bool) bool {
	if c.Scope == ScopeHost {
		if c.Domain != host {
			return false
		}
	} else if !DomainMatch(host, c.Domain) {
		return false
	}
	if !CheckPaths(path, c.Path) {
		return false
	}
	return !c.Secure || secure
}

// SetCookie stores the cookies of a Set-Cookie header received from u.
// Unparsable cookies and cookies whose Domain attribute does not cover the
// request host are dropped without an error.
func (j *Jar) SetCookie(u *url.URL, raw string) error {
	for _, c := range Parse(raw, false) {
		if err := j.receive(u, c); err != nil {
			return err
		}
	}
	return nil
}

// receive resolves the scope and default path of a cookie received from u
// and stores it. A cookie whose Domain does not cover the host is dropped.
func (j *Jar) receive(u *url.URL, c *Cookie) error {
	host := CanonicalDomain(u.Hostname())
	if c.Domain != "" {
		if !DomainMatch(host, c.Domain) || !publicSuffixAllowed(c.Domain) {
			j.log.Info("cookiejar: rejected cookie %s for domain %s from host %s", c.Key, c.Domain, host)
			return nil
		}
		if c.Scope == ScopeUnresolved {
			c.Scope = ScopeDomain
		}
	} else {
		c.Domain = host
		c.Scope = ScopeHost
	}
	if !strings.HasPrefix(c.Path, "/") {
		c.Path = DefaultPath(u.Path)
	}
	return j.AddCookie(c)
}

// AddCookie stores c, replacing the cookie in the same (domain, path, key)
// slot, and persists the store. c must not be modified afterwards.
func (j *Jar) AddCookie(c *Cookie) error {
	if c == nil {
		return nil
	}
	j.put(c, j.now())
	return j.persist()
}

// AddCookies stores several cookies and persists the store once.
func (j *Jar) AddCookies(cookies []*Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	now := j.now()
	for _, c := range cookies {
		if c != nil {
			j.put(c, now)
		}
	}
	return j.persist()
}

// UpdateCookie removes the slot of old, if given, and adds updated.
func (j *Jar) UpdateCookie(old, updated *Cookie) error {
	if old != nil {
		j.remove(old.Domain, old.Path, old.Key)
	}
	return j.AddCookie(updated)
}

// RemoveCookie removes the cookie in the (domain, path, key) slot. It returns
// nil when no such cookie exists, in which case nothing is written.
func (j *Jar) RemoveCookie(domain, path, key string) (*Cookie, error) {
	removed := j.remove(CanonicalDomain(domain), path, key)
	if removed == nil {
		return nil, nil
	}
	return removed, j.persist()
}

// RemoveCookies removes the cookies FindCookies reports for domain and path.
func (j *Jar) RemoveCookies(domain, path string) ([]*Cookie, error) {
	removed := j.FindCookies(domain, path)
	if len(removed) == 0 {
		return nil, nil
	}
	j.cookies = slices.DeleteFunc(j.cookies, func(c *Cookie) bool {
		return slices.Contains(removed, c)
	})
	return removed, j.persist()
}

// RemoveAllCookies empties the store and returns what it held. The cookie
// file is left untouched; call Save to write the empty store.
func (j *Jar) RemoveAllCookies() []*Cookie {
	removed := j.cookies
	j.cookies = nil
	return removed
}

// Save writes the current store through the FileHandler.
func (j *Jar) Save() error {
	return j.persist()
}

// Cookies returns a snapshot of the store in order.
func (j *Jar) Cookies() []*Cookie {
	return slices.Clone(j.cookies)
}

// FindCookie returns the cookie in the (domain, path, key) slot or nil.
func (j *Jar) FindCookie(domain, path, key string) *Cookie {
	domain = CanonicalDomain(domain)
	for _, c := range j.cookies {
		if c.sameSlot(domain, path, key) {
			return c
		}
	}
	return nil
}

// FindCookies returns the cookies stored for exactly domain. A non-empty
// path further restricts the result to cookies whose path matches it.
func (j *Jar) FindCookies(domain, path string) []*Cookie {
	domain = CanonicalDomain(domain)
	var found []*Cookie
	for _, c := range j.cookies {
		if c.Domain != domain {
			continue
		}
		if path != "" && !CheckPaths(path, c.Path) {
			continue
		}
		found = append(found, c)
	}
	return found
}

// put normalizes c and inserts it in place of its slot.
func (j *Jar) put(c *Cookie, now time.Time) {
	c.Domain = CanonicalDomain(c.Domain)
	if !strings.HasPrefix(c.Path, "/") {
		c.Path = "/"
	}
	if c.Scope == ScopeUnresolved {
		c.Scope = ScopeDomain
	}
	c.stamp()
	j.remove(c.Domain, c.Path, c.Key)
	j.insert(c, now)
}

// insert places c at the position given by compareCookies.
func (j *Jar) insert(c *Cookie, now time.Time) {
	i, _ := slices.BinarySearchFunc(j.cookies, c, func(a, b *Cookie) int {
		return compareCookies(a, b, now)
	})
	j.cookies = slices.Insert(j.cookies, i, c)
}

func (j *Jar) remove(domain, path, key string) *Cookie {
	for i, c := range j.cookies {
		if c.sameSlot(domain, path, key) {
			j.cookies = slices.Delete(j.cookies, i, i+1)
			return c
		}
	}
	return nil
}

func (j *Jar) persist() error {
	content := Serialize(j.cookies, j.httpOnlyExt, j.now())
	if err := j.handler.WriteAll(content); err != nil {
		j.log.Error("cookiejar: failed to write cookie file: %v", err)
		return fmt.Errorf("error: cannot persist cookies: %w", err)
	}
	return nil
}
