// Package server exposes a cookie jar as a JSON-RPC 2.0 service over HTTP
// and WebSocket.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/warpdl/warpjar/pkg/logger"
)

// DefaultAddr is the loopback address the service listens on by default.
const DefaultAddr = "127.0.0.1:6802"

// WebServer serves the RPC endpoints:
//
//	/jsonrpc     JSON-RPC over HTTP POST
//	/jsonrpc/ws  JSON-RPC over WebSocket
//
// Both require the Bearer secret. Without a secret no route is mounted.
type WebServer struct {
	addr   string
	log    logger.Logger
	rpc    *RPCServer
	server *http.Server
	mu     sync.Mutex
}

func NewWebServer(l logger.Logger, addr string, rpc *RPCServer) *WebServer {
	if addr == "" {
		addr = DefaultAddr
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &WebServer{addr: addr, log: l, rpc: rpc}
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	if s.rpc != nil && s.rpc.secret != "" {
		mux.Handle("/jsonrpc", requireToken(s.rpc.secret, s.rpc.bridge))
		mux.Handle("/jsonrpc/ws", requireToken(s.rpc.secret, http.HandlerFunc(s.rpc.serveWS)))
	}
	return mux
}

// Start listens on the configured address and serves until Shutdown.
func (s *WebServer) Start() error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve accepts connections on l until Shutdown.
func (s *WebServer) Serve(l net.Listener) error {
	s.mu.Lock()
	s.server = &http.Server{Handler: s.handler()}
	srv := s.server
	s.mu.Unlock()

	s.log.Info("rpc: listening on %s", l.Addr())
	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the web server and the RPC bridge.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rpc != nil {
		defer s.rpc.Close()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
