package cookiejar

import (
	"math"
	"strings"
	"sync/atomic"
	"time"
)

// Scope tells whether a cookie is bound to the exact host that set it or to a
// domain and its subdomains.
type Scope uint8

const (
	// ScopeUnresolved is only seen on freshly parsed cookies. The jar resolves
	// it before a cookie enters the store.
	ScopeUnresolved Scope = iota
	// ScopeHost means the cookie is sent to the exact host only (no Domain attribute).
	ScopeHost
	// ScopeDomain means the cookie is sent to the domain and its subdomains.
	ScopeDomain
)

func (s Scope) String() string {
	switch s {
	case ScopeHost:
		return "host"
	case ScopeDomain:
		return "domain"
	default:
		return "unresolved"
	}
}

// Cookie is a single cookie record.
// Records are created by the parser, the Netscape decoder or an importer and
// must not be modified after they were handed to a Jar.
type Cookie struct {
	// Key is the cookie name. It may be empty for cookies parsed in loose mode.
	Key string
	// Value is the cookie value, kept verbatim (quotes included).
	Value string
	// Domain is the canonical domain (lower-case, no leading dot).
	Domain string
	// Path always starts with "/" once the cookie is stored.
	Path string
	// Secure restricts the cookie to https and wss requests.
	Secure bool
	// HttpOnly hides the cookie from scripts.
	HttpOnly bool
	// Expires is the absolute expiry from the Expires attribute. The zero
	// time means the attribute was absent.
	Expires time.Time
	// MaxAge is the Max-Age delta in seconds, meaningful when HasMaxAge is set.
	MaxAge int
	// HasMaxAge reports whether a Max-Age attribute was present.
	HasMaxAge bool
	// Scope is the host-only flag.
	Scope Scope
	// Extensions holds unrecognized attributes verbatim, in order.
	Extensions []string

	id uint64
}

var cookieSeq atomic.Uint64

// stamp gives c a creation identity used as the last comparator tie-breaker.
func (c *Cookie) stamp() {
	if c.id == 0 {
		c.id = cookieSeq.Add(1)
	}
}

// HasExpires reports whether an Expires attribute was present.
func (c *Cookie) HasExpires() bool {
	return !c.Expires.IsZero()
}

// IsPersistent reports whether the cookie carries Max-Age or Expires and
// therefore belongs in the cookie file.
func (c *Cookie) IsPersistent() bool {
	return c.HasMaxAge || c.HasExpires()
}

// IsHostOnly reports whether the cookie is a host-only cookie.
func (c *Cookie) IsHostOnly() bool {
	return c.Scope == ScopeHost
}

// alreadyExpired is returned for non-positive Max-Age values.
var alreadyExpired = time.Unix(math.MinInt32, 0).UTC()

// maxAgeLimit is the largest Max-Age, in seconds, a time.Duration can hold.
// Larger values saturate to it.
const maxAgeLimit = math.MaxInt64 / int64(time.Second)

// maxAgeDuration converts a positive Max-Age without overflowing.
func maxAgeDuration(maxAge int) time.Duration {
	return time.Duration(min(int64(maxAge), maxAgeLimit)) * time.Second
}

// Expiration computes the expiry instant relative to now. Max-Age wins over
// Expires; a non-positive Max-Age yields an instant far in the past. The
// boolean is false for session cookies, which never expire here.
func (c *Cookie) Expiration(now time.Time) (time.Time, bool) {
	if c.HasMaxAge {
		if c.MaxAge <= 0 {
			return alreadyExpired, true
		}
		return now.Add(maxAgeDuration(c.MaxAge)), true
	}
	if c.HasExpires() {
		return c.Expires, true
	}
	return time.Time{}, false
}

// TimeToLive returns the remaining lifetime at now. Max-Age is clamped at
// zero. The boolean is false for session cookies.
func (c *Cookie) TimeToLive(now time.Time) (time.Duration, bool) {
	if c.HasMaxAge {
		if c.MaxAge <= 0 {
			return 0, true
		}
		return maxAgeDuration(c.MaxAge), true
	}
	if c.HasExpires() {
		return c.Expires.Sub(now), true
	}
	return 0, false
}

// expiredAt reports whether the cookie is no longer valid at now.
func (c *Cookie) expiredAt(now time.Time) bool {
	exp, ok := c.Expiration(now)
	return ok && !exp.After(now)
}

// sameSlot reports whether c occupies the (domain, path, key) slot.
func (c *Cookie) sameSlot(domain, path, key string) bool {
	return c.Domain == domain && c.Path == path && c.Key == key
}

// compareCookies orders cookies by domain, path, key, value, time to live
// and creation identity. Session cookies sort after persistent ones.
func compareCookies(a, b *Cookie, now time.Time) int {
	if r := strings.Compare(a.Domain, b.Domain); r != 0 {
		return r
	}
	if r := strings.Compare(a.Path, b.Path); r != 0 {
		return r
	}
	if r := strings.Compare(a.Key, b.Key); r != 0 {
		return r
	}
	if r := strings.Compare(a.Value, b.Value); r != 0 {
		return r
	}
	ea, oka := a.Expiration(now)
	eb, okb := b.Expiration(now)
	switch {
	case oka && !okb:
		return -1
	case !oka && okb:
		return 1
	case oka && okb:
		if r := ea.Compare(eb); r != 0 {
			return r
		}
	}
	switch {
	case a.id < b.id:
		return -1
	case a.id > b.id:
		return 1
	}
	return 0
}
