package server

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/warpdl/warpjar/pkg/cookiejar"
	"github.com/warpdl/warpjar/pkg/logger"
)

// Custom JSON-RPC error codes for cookie operations.
const (
	codeCookieNotFound = jrpc2.Code(-32001)
	codePersistFailed  = jrpc2.Code(-32002)
	codeInvalidParams  = jrpc2.Code(-32602)
)

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required, empty means RPC disabled)
	Addr      string // Listen address, e.g. "127.0.0.1:6802"
	Version   string
	Commit    string
	BuildType string
}

// RPCServer exposes a cookie jar through JSON-RPC 2.0. The HTTP bridge and
// every WebSocket connection dispatch to the same methods, which take mu
// around each jar access.
type RPCServer struct {
	bridge    jhttp.Bridge
	methods   handler.Map
	secret    string
	version   string
	commit    string
	buildType string
	log       logger.Logger
	closeOnce sync.Once

	mu  sync.Mutex
	jar *cookiejar.Jar
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// URLParam is the input for cookie.get.
type URLParam struct {
	URL string `json:"url"`
}

// HeaderResult is the response for cookie.get.
type HeaderResult struct {
	Header string `json:"header"`
}

// SetParams is the input for cookie.set.
type SetParams struct {
	URL       string `json:"url"`
	SetCookie string `json:"setCookie"`
}

// ListParams is the input for cookie.list. An empty domain lists every
// cookie; path narrows the result to cookies sent on that path.
type ListParams struct {
	Domain string `json:"domain,omitempty"`
	Path   string `json:"path,omitempty"`
}

// CookieRecord is the wire form of a stored cookie.
type CookieRecord struct {
	Key        string     `json:"key"`
	Value      string     `json:"value"`
	Domain     string     `json:"domain"`
	Path       string     `json:"path"`
	HostOnly   bool       `json:"hostOnly"`
	Secure     bool       `json:"secure,omitempty"`
	HttpOnly   bool       `json:"httpOnly,omitempty"`
	Expires    *time.Time `json:"expires,omitempty"`
	MaxAge     *int       `json:"maxAge,omitempty"`
	Extensions []string   `json:"extensions,omitempty"`
}

// ListResult is the response for cookie.list.
type ListResult struct {
	Cookies []*CookieRecord `json:"cookies"`
}

// RemoveParams is the input for cookie.remove.
type RemoveParams struct {
	Domain string `json:"domain"`
	Path   string `json:"path"`
	Key    string `json:"key"`
}

// RemoveResult reports how many cookies a removal deleted.
type RemoveResult struct {
	Removed int `json:"removed"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// NewRPCServer creates the method table and HTTP bridge over jar.
func NewRPCServer(cfg *RPCConfig, jar *cookiejar.Jar, l logger.Logger) *RPCServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	rs := &RPCServer{
		secret:    cfg.Secret,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		log:       l,
		jar:       jar,
	}

	rs.methods = handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"cookie.get":        handler.New(rs.cookieGet),
		"cookie.set":        handler.New(rs.cookieSet),
		"cookie.list":       handler.New(rs.cookieList),
		"cookie.remove":     handler.New(rs.cookieRemove),
		"cookie.removeAll":  handler.New(rs.cookieRemoveAll),
	}
	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

// cookieGet returns the Cookie header for a request to the url. A failed
// eviction write is logged; the header is still returned.
func (rs *RPCServer) cookieGet(_ context.Context, p *URLParam) (*HeaderResult, error) {
	u, err := requestURL(p.URL)
	if err != nil {
		return nil, err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	header, err := rs.jar.GetCookieHeader(u)
	if err != nil {
		rs.log.Warning("rpc: cookie.get for %s: %v", u.Host, err)
	}
	return &HeaderResult{Header: header}, nil
}

// cookieSet stores the cookies of a Set-Cookie value received from the url.
func (rs *RPCServer) cookieSet(_ context.Context, p *SetParams) (*EmptyResult, error) {
	u, err := requestURL(p.URL)
	if err != nil {
		return nil, err
	}
	if p.SetCookie == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: setCookie"}
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if err := rs.jar.SetCookie(u, p.SetCookie); err != nil {
		return nil, &jrpc2.Error{Code: codePersistFailed, Message: err.Error()}
	}
	return &EmptyResult{}, nil
}

// cookieList returns stored cookies in store order.
func (rs *RPCServer) cookieList(_ context.Context, p *ListParams) (*ListResult, error) {
	rs.mu.Lock()
	var cookies []*cookiejar.Cookie
	if p.Domain != "" {
		cookies = rs.jar.FindCookies(p.Domain, p.Path)
	} else {
		for _, c := range rs.jar.Cookies() {
			if p.Path == "" || cookiejar.CheckPaths(p.Path, c.Path) {
				cookies = append(cookies, c)
			}
		}
	}
	rs.mu.Unlock()

	records := make([]*CookieRecord, 0, len(cookies))
	for _, c := range cookies {
		records = append(records, toRecord(c))
	}
	return &ListResult{Cookies: records}, nil
}

// cookieRemove deletes the cookie stored under (domain, path, key).
func (rs *RPCServer) cookieRemove(_ context.Context, p *RemoveParams) (*RemoveResult, error) {
	if p.Domain == "" || p.Path == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required params: domain, path"}
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	removed, err := rs.jar.RemoveCookie(p.Domain, p.Path, p.Key)
	if err != nil {
		return nil, &jrpc2.Error{Code: codePersistFailed, Message: err.Error()}
	}
	if removed == nil {
		return nil, &jrpc2.Error{Code: codeCookieNotFound, Message: "cookie not found"}
	}
	return &RemoveResult{Removed: 1}, nil
}

// cookieRemoveAll empties the jar and writes the empty store back.
func (rs *RPCServer) cookieRemoveAll(_ context.Context) (*RemoveResult, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	removed := rs.jar.RemoveAllCookies()
	if err := rs.jar.Save(); err != nil {
		return nil, &jrpc2.Error{Code: codePersistFailed, Message: err.Error()}
	}
	rs.log.Info("rpc: removed all %d cookies", len(removed))
	return &RemoveResult{Removed: len(removed)}, nil
}

// requestURL parses an absolute request URL.
func requestURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: url"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "invalid url: " + err.Error()}
	}
	if u.Hostname() == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "invalid url: missing host"}
	}
	return u, nil
}

func toRecord(c *cookiejar.Cookie) *CookieRecord {
	r := &CookieRecord{
		Key:        c.Key,
		Value:      c.Value,
		Domain:     c.Domain,
		Path:       c.Path,
		HostOnly:   c.IsHostOnly(),
		Secure:     c.Secure,
		HttpOnly:   c.HttpOnly,
		Extensions: c.Extensions,
	}
	if c.HasExpires() {
		t := c.Expires
		r.Expires = &t
	}
	if c.HasMaxAge {
		n := c.MaxAge
		r.MaxAge = &n
	}
	return r
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines. It is
// safe to call more than once.
func (rs *RPCServer) Close() {
	rs.closeOnce.Do(func() { rs.bridge.Close() })
}
