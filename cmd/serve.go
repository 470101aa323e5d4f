package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli"
	envs "github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/internal/daemon"
	"github.com/warpdl/warpjar/internal/server"
	"github.com/warpdl/warpjar/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

var errNoSecret = errors.New("error: the RPC service needs a secret (--secret or " + envs.RPCSecretEnv + ")")

// serveAction runs the JSON-RPC service until SIGINT or SIGTERM.
func serveAction(bArgs BuildArgs) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		secret := ctx.String("secret")
		if secret == "" {
			return errNoSecret
		}
		l, err := serveLogger(ctx)
		if err != nil {
			return err
		}
		jar, l, err := openJarWith(ctx, l)
		if err != nil {
			return err
		}
		defer l.Close()

		addr := ctx.String("addr")
		rs := server.NewRPCServer(&server.RPCConfig{
			Secret:    secret,
			Addr:      addr,
			Version:   bArgs.Version,
			Commit:    bArgs.Commit,
			BuildType: bArgs.BuildType,
		}, jar, l)
		// WebServer.Shutdown closes rs too; this covers a failed listen
		defer rs.Close()

		runner := daemon.New(
			server.NewWebServer(l, addr, rs),
			&daemon.Config{Addr: addr, ShutdownTimeout: shutdownTimeout},
			&daemon.Dependencies{Logger: l},
		)
		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runner.Run(sigCtx)
	}
}

// serveLogger adds the --log-file backend, if any, to the stderr logger.
func serveLogger(ctx *cli.Context) (logger.Logger, error) {
	console := newLogger(ctx)
	path := ctx.String("log-file")
	if path == "" {
		return console, nil
	}
	if err := appFs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		console.Close()
		return nil, fmt.Errorf("error: cannot create log directory: %w", err)
	}
	f, err := appFs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		console.Close()
		return nil, fmt.Errorf("error: cannot open log file: %w", err)
	}
	return logger.NewMultiLogger(console, logger.NewWriterLogger(f, "", ctx.GlobalBool("debug"))), nil
}
