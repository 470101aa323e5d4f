package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// requireToken guards next with Bearer token authentication. Failures get a
// JSON-RPC 2.0 error body with HTTP 401 so clients see a protocol-level
// error rather than a bare status.
//
// An empty secret rejects every request.
func requireToken(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if validToken(secret, r.Header.Get("Authorization")) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"error": map[string]any{
				"code":    -32600,
				"message": "Unauthorized",
			},
			"id": nil,
		})
	})
}

// validToken reports whether authHeader carries secret as a Bearer token.
func validToken(secret, authHeader string) bool {
	token, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if secret == "" || !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
