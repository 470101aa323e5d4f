// Package cmd implements the warpjar command line.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
	"github.com/warpdl/warpjar/cmd/common"
	envs "github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/internal/server"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "cookie-file, f",
		Usage:  "cookie file to use (default: <config dir>/warpjar/cookies.txt)",
		EnvVar: envs.CookieFileEnv,
	},
	cli.BoolFlag{
		Name:   "force-parse",
		Usage:  "skip malformed cookie file lines instead of failing",
		EnvVar: envs.ForceParseEnv,
	},
	cli.BoolTFlag{
		Name:   "httponly-ext",
		Usage:  "read and write the #HttpOnly_ cookie file extension (default: true)",
		EnvVar: envs.HTTPOnlyExtEnv,
	},
	cli.BoolFlag{
		Name:   "encrypt, e",
		Usage:  "encrypt the cookie file with a key kept in the system keyring",
		EnvVar: envs.EncryptEnv,
	},
	cli.StringFlag{
		Name:   "cookie-key",
		Usage:  "hex encoded 32 byte cookie file secret, bypasses the keyring",
		EnvVar: envs.CookieKeyEnv,
		Hidden: true,
	},
	cli.BoolFlag{
		Name:   "debug, d",
		Usage:  "print debug logs",
		EnvVar: envs.DebugEnv,
	},
}

var (
	valuesFlag    bool
	setCookieFlag bool
	importDomain  string
)

func newApp(bArgs BuildArgs) *cli.App {
	app := cli.NewApp()
	app.Name = "warpjar"
	app.HelpName = "warpjar"
	app.Usage = "An RFC 6265 cookie jar for the command line."
	app.Version = fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType)
	app.UsageText = "warpjar [global options] <command> [arguments...]"
	app.Description = DESCRIPTION
	app.CustomAppHelpTemplate = HELP_TEMPL
	app.OnUsageError = common.UsageErrorCallback
	app.Flags = globalFlags
	app.HideHelp = true
	app.HideVersion = true
	app.Commands = []cli.Command{
		{
			Name:               "get",
			Aliases:            []string{"g"},
			Usage:              "print the Cookie header for a url",
			UsageText:          "<url>",
			Description:        GetDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             get,
		},
		{
			Name:               "set",
			Aliases:            []string{"s"},
			Usage:              "store Set-Cookie values received from a url",
			UsageText:          "<url> <set-cookie>...",
			Description:        SetDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             set,
		},
		{
			Name:               "list",
			Aliases:            []string{"l"},
			Usage:              "display stored cookies",
			UsageText:          "[domain]",
			Description:        ListDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             list,
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:        "values, v",
					Usage:       "show cookie values (default: false)",
					Destination: &valuesFlag,
				},
			},
		},
		{
			Name:               "remove",
			Aliases:            []string{"rm"},
			Usage:              "delete one cookie",
			UsageText:          "<domain> <path> <name>",
			Description:        RemoveDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             remove,
		},
		{
			Name:               "clear",
			Aliases:            []string{"c"},
			Usage:              "delete every cookie",
			UsageText:          " ",
			Description:        ClearDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Action:             clearAll,
		},
		{
			Name:               "import",
			Aliases:            []string{"i"},
			Usage:              "import cookies from a browser or cookie file",
			UsageText:          "[--domain <domain>] [file]",
			Description:        ImportDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             importCookies,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "domain",
					Usage:       "only import cookies of this domain and its subdomains",
					Destination: &importDomain,
				},
			},
		},
		{
			Name:               "export",
			Aliases:            []string{"x"},
			Usage:              "print cookies in the Netscape format",
			UsageText:          "[--set-cookie]",
			Description:        ExportDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             export,
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:        "set-cookie",
					Usage:       "print Set-Cookie values instead",
					Destination: &setCookieFlag,
				},
			},
		},
		{
			Name:               "serve",
			Usage:              "serve the jar over JSON-RPC",
			UsageText:          "[--addr <host:port>] [--secret <token>] [--log-file <path>]",
			Description:        ServeDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             serveAction(bArgs),
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "addr",
					Usage:  "listen address",
					Value:  server.DefaultAddr,
					EnvVar: envs.RPCAddrEnv,
				},
				cli.StringFlag{
					Name:   "secret",
					Usage:  "Bearer token clients must send (required)",
					EnvVar: envs.RPCSecretEnv,
				},
				cli.StringFlag{
					Name:   "log-file",
					Usage:  "also write logs to this file",
					EnvVar: envs.LogFileEnv,
				},
			},
		},
		{
			Name:    "help",
			Aliases: []string{"h"},
			Usage:   "prints the help message",
			Action:  common.Help,
		},
		{
			Name:               "version",
			Aliases:            []string{"v"},
			Usage:              "prints installed version of warpjar",
			UsageText:          " ",
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Action:             common.GetVersion,
		},
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app
}

// Execute runs the warpjar command line with args (os.Args style).
func Execute(args []string, bArgs BuildArgs) error {
	return newApp(bArgs).Run(args)
}
