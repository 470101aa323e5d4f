// Package daemon runs the warpjar RPC service in the foreground. It owns
// the listener and shuts the server down when the run context ends.
package daemon

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/warpdl/warpjar/pkg/logger"
)

var (
	// ErrAlreadyRunning is returned when Run is called on a running runner.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Stop is called on a stopped runner.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrShutdownTimeout is returned when the server does not drain in time.
	ErrShutdownTimeout = errors.New("shutdown timed out")
)

// Server is what the runner drives. Serve must return once Shutdown is
// called; a clean stop returns nil.
type Server interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// Config holds the configuration for the runner.
type Config struct {
	// Addr is the TCP address to listen on. Port 0 picks an ephemeral port.
	Addr string

	// ShutdownTimeout bounds the graceful shutdown. Zero waits forever.
	ShutdownTimeout time.Duration
}

// Dependencies holds the injectable parts of the runner.
type Dependencies struct {
	// ListenerFactory creates network listeners. Defaults to net.Listen.
	ListenerFactory func(network, address string) (net.Listener, error)

	// Logger defaults to a NopLogger.
	Logger logger.Logger
}

// Runner manages the lifecycle of one Server.
type Runner struct {
	config  *Config
	deps    *Dependencies
	srv     Server
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	addr    net.Addr
}

// New creates a runner for srv. Nil config and deps get defaults.
func New(srv Server, config *Config, deps *Dependencies) *Runner {
	if config == nil {
		config = &Config{}
	}
	if deps == nil {
		deps = &Dependencies{}
	}
	if deps.ListenerFactory == nil {
		deps.ListenerFactory = net.Listen
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	return &Runner{config: config, deps: deps, srv: srv}
}

// Config returns the runner's configuration.
func (r *Runner) Config() *Config {
	return r.config
}

// Run listens on Config.Addr and serves until ctx is done, Stop is called
// or the server fails on its own. A stop through ctx or Stop returns nil
// once the server has drained.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	// the listener is created before running is set so a failed Run leaves
	// the runner reusable
	l, err := r.deps.ListenerFactory("tcp", r.config.Addr)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	r.running = true
	r.cancel = cancel
	r.addr = l.Addr()
	r.mu.Unlock()
	defer r.cleanupOnStop()

	r.deps.Logger.Debug("daemon: serving on %s", l.Addr())
	errCh := make(chan error, 1)
	go func() { errCh <- r.srv.Serve(l) }()

	select {
	case err := <-errCh:
		_ = l.Close()
		return err
	case <-ctx.Done():
	}

	r.deps.Logger.Info("daemon: shutting down")
	if err := r.shutdown(); err != nil {
		return err
	}
	return <-errCh
}

func (r *Runner) shutdown() error {
	ctx := context.Background()
	if r.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.ShutdownTimeout)
		defer cancel()
	}
	err := r.srv.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrShutdownTimeout
	}
	return err
}

func (r *Runner) cleanupOnStop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.running = false
	r.addr = nil
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Stop asks a running Run to shut down and returns without waiting.
func (r *Runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return ErrNotRunning
	}
	r.cancel()
	return nil
}

// Addr returns the address being served, or nil when not running.
func (r *Runner) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addr
}

// IsRunning returns true if the runner is currently serving.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
