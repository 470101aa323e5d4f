package cmd

import (
	"encoding/hex"
	"fmt"
	"log"
	"net/url"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/warpdl/warpjar/cmd/common"
	envs "github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/pkg/cookiejar"
	"github.com/warpdl/warpjar/pkg/credman"
	"github.com/warpdl/warpjar/pkg/credman/keyring"
	"github.com/warpdl/warpjar/pkg/logger"
)

// appFs backs the cookie file and the fallback key file.
var appFs afero.Fs = afero.NewOsFs()

// keyStores lists where the cookie file secret is looked up, in order.
var keyStores = func(configDir string) []keyring.KeyStore {
	return []keyring.KeyStore{
		keyring.NewKeyring(),
		keyring.NewFileKeyStore(appFs, configDir),
	}
}

func newLogger(ctx *cli.Context) logger.Logger {
	return logger.NewStandardLogger(log.New(common.ErrOut(ctx), "warpjar: ", 0), ctx.GlobalBool("debug"))
}

// openJar loads the jar selected by the global flags. The returned logger
// must be closed by the caller.
func openJar(ctx *cli.Context) (*cookiejar.Jar, logger.Logger, error) {
	return openJarWith(ctx, newLogger(ctx))
}

// openJarWith is openJar with a caller supplied logger, which is closed on
// failure.
func openJarWith(ctx *cli.Context, l logger.Logger) (*cookiejar.Jar, logger.Logger, error) {
	handler, err := fileHandler(ctx)
	if err != nil {
		l.Close()
		return nil, nil, err
	}
	jar, err := cookiejar.New(handler, &cookiejar.Options{
		ForceParse:        ctx.GlobalBool("force-parse"),
		HTTPOnlyExtension: ctx.GlobalBoolT("httponly-ext"),
		Logger:            l,
	})
	if err != nil {
		l.Close()
		return nil, nil, err
	}
	return jar, l, nil
}

func fileHandler(ctx *cli.Context) (cookiejar.FileHandler, error) {
	path := ctx.GlobalString("cookie-file")
	if path == "" {
		var err error
		if path, err = envs.DefaultCookieFile(); err != nil {
			return nil, fmt.Errorf("error: cannot resolve cookie file: %w", err)
		}
	}
	var handler cookiejar.FileHandler = &cookiejar.FSHandler{Fs: appFs, Path: path}
	if !ctx.GlobalBool("encrypt") {
		return handler, nil
	}
	secret, err := cookieSecret(ctx)
	if err != nil {
		return nil, err
	}
	return credman.NewEncryptedHandler(handler, secret)
}

// cookieSecret returns the --cookie-key secret or the one kept in the key
// stores, creating it on first use.
func cookieSecret(ctx *cli.Context) ([]byte, error) {
	if raw := ctx.GlobalString("cookie-key"); raw != "" {
		secret, err := hex.DecodeString(raw)
		if err != nil || len(secret) != keyring.KeySize {
			return nil, fmt.Errorf("error: %s must be %d hex encoded bytes", envs.CookieKeyEnv, keyring.KeySize)
		}
		return secret, nil
	}
	dir, err := envs.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("error: cannot resolve config dir: %w", err)
	}
	return keyring.LoadOrCreate(keyStores(dir)...)
}

// requestURL parses an absolute url given on the command line.
func requestURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("error: invalid url: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("error: invalid url %q: missing host", raw)
	}
	return u, nil
}
