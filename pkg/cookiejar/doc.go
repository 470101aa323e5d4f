// Package cookiejar implements an RFC 6265 cookie jar for WarpJar.
//
// It parses Set-Cookie header text into Cookie records, applies the domain and
// path defaulting rules, keeps the records in an ordered in-memory store and
// answers Cookie header queries for request URLs. Persistent cookies are
// written through a FileHandler in the Netscape cookie file format after every
// mutation.
//
// A Jar performs no locking. Callers that share a Jar between goroutines must
// serialize access themselves (HTTPJar does this for net/http clients).
package cookiejar
