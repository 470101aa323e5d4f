package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cws "github.com/coder/websocket"
)

// newTestWebServer starts the full RPC web handler and returns its
// WebSocket URL.
func newTestWebServer(t *testing.T) (*testRPC, string) {
	t.Helper()
	r := newTestRPC(t)
	ws := NewWebServer(nil, "", r.rs)
	srv := httptest.NewServer(ws.handler())
	t.Cleanup(srv.Close)
	return r, "ws" + strings.TrimPrefix(srv.URL, "http") + "/jsonrpc/ws"
}

func dialWS(t *testing.T, ctx context.Context, wsURL, secret string) *cws.Conn {
	t.Helper()
	conn, _, err := cws.Dial(ctx, wsURL, &cws.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + secret}},
	})
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close(cws.StatusNormalClosure, "") })
	return conn
}

func wsCall(t *testing.T, ctx context.Context, conn *cws.Conn, id int, method string, params any) map[string]any {
	t.Helper()
	req := map[string]any{"jsonrpc": "2.0", "method": method, "id": id}
	if params != nil {
		req["params"] = params
	}
	data, _ := json.Marshal(req)
	if err := conn.Write(ctx, cws.MessageText, data); err != nil {
		t.Fatalf("WebSocket write failed: %v", err)
	}
	_, respData, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("WebSocket read failed: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(respData, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if int(resp["id"].(float64)) != id {
		t.Fatalf("expected id %d, got %v", id, resp["id"])
	}
	return resp
}

func TestWebSocketEndpoint_AuthRequired(t *testing.T) {
	_, wsURL := newTestWebServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, header := range []http.Header{
		nil,
		{"Authorization": []string{"Bearer wrong-token"}},
	} {
		_, resp, err := cws.Dial(ctx, wsURL, &cws.DialOptions{HTTPHeader: header})
		if err == nil {
			t.Fatal("expected error for unauthorized WebSocket connection")
		}
		if resp != nil && resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	}
}

func TestWebSocketEndpoint_Version(t *testing.T) {
	r, wsURL := newTestWebServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn := dialWS(t, ctx, wsURL, r.secret)

	for i := 1; i <= 3; i++ {
		result := resultOf(t, wsCall(t, ctx, conn, i, "system.getVersion", nil))
		if result["version"] != "1.0.0" {
			t.Fatalf("expected version 1.0.0, got %v", result["version"])
		}
	}
}

func TestWebSocketEndpoint_SharesJarWithHTTP(t *testing.T) {
	r, wsURL := newTestWebServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn := dialWS(t, ctx, wsURL, r.secret)

	resultOf(t, wsCall(t, ctx, conn, 1, "cookie.set", map[string]any{
		"url":       "http://example.com/",
		"setCookie": "sid=ws",
	}))
	result := resultOf(t, r.call(t, "cookie.get", map[string]any{"url": "http://example.com/"}))
	if result["header"] != "sid=ws" {
		t.Fatalf("expected cookie set over WebSocket to be visible over HTTP, got %q", result["header"])
	}
}

func TestWebSocketEndpoint_MethodNotFound(t *testing.T) {
	r, wsURL := newTestWebServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn := dialWS(t, ctx, wsURL, r.secret)

	resp := wsCall(t, ctx, conn, 7, "nonexistent.method", nil)
	if code := errorCode(t, resp); code != -32601 {
		t.Fatalf("expected -32601, got %d", code)
	}
}
