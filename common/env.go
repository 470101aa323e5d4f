// Package common holds the environment variable names and file locations
// shared by the warpjar command line and service.
package common

import (
	"errors"
	"os"
	"path/filepath"
)

// Environment variable names for configuration.
const (
	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "WARPJAR_CONFIG_DIR"

	// CookieFileEnv overrides the cookie file path.
	CookieFileEnv = "WARPJAR_COOKIE_FILE"

	// ForceParseEnv skips malformed cookie file lines instead of failing.
	ForceParseEnv = "WARPJAR_FORCE_PARSE"

	// HTTPOnlyExtEnv toggles the "#HttpOnly_" cookie file extension.
	HTTPOnlyExtEnv = "WARPJAR_HTTPONLY_EXT"

	// EncryptEnv enables the encrypted cookie file.
	EncryptEnv = "WARPJAR_ENCRYPT"

	// CookieKeyEnv supplies the hex encoded cookie file secret, bypassing the keyring.
	CookieKeyEnv = "WARPJAR_COOKIE_KEY"

	// RPCSecretEnv is the Bearer token of the RPC service.
	RPCSecretEnv = "WARPJAR_RPC_SECRET"

	// RPCAddrEnv is the listen address of the RPC service.
	RPCAddrEnv = "WARPJAR_RPC_ADDR"

	// LogFileEnv adds a log file to the RPC service logs.
	LogFileEnv = "WARPJAR_LOG_FILE"

	// DebugEnv enables debug logging.
	DebugEnv = "WARPJAR_DEBUG"
)

// CookieFileName is the cookie file name inside the configuration directory.
const CookieFileName = "cookies.txt"

var userConfigDir = os.UserConfigDir

// ConfigDir returns the absolute configuration directory: $WARPJAR_CONFIG_DIR
// when set, otherwise "warpjar" under the user configuration directory.
// The directory is not created.
func ConfigDir() (string, error) {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		base, err := userConfigDir()
		if err != nil {
			return "", err
		}
		if base == "" {
			return "", errors.New("user config dir is empty")
		}
		dir = filepath.Join(base, "warpjar")
	}
	return filepath.Abs(dir)
}

// DefaultCookieFile returns the cookie file inside ConfigDir.
func DefaultCookieFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, CookieFileName), nil
}
