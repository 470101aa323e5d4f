// Package common provides shared helpers for the warpjar commands: help and
// version output and error reporting.
package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli"
)

// VersionCmdStr holds the text printed by the version command. Execute fills
// it with the version, platform and build information.
var VersionCmdStr string

var (
	showAppHelpAndExit = cli.ShowAppHelpAndExit
	showCommandHelp    = cli.ShowCommandHelp
)

// Out returns the writer command output goes to.
func Out(ctx *cli.Context) io.Writer {
	if ctx != nil && ctx.App != nil && ctx.App.Writer != nil {
		return ctx.App.Writer
	}
	return os.Stdout
}

// ErrOut returns the writer diagnostics go to.
func ErrOut(ctx *cli.Context) io.Writer {
	if ctx != nil && ctx.App != nil && ctx.App.ErrWriter != nil {
		return ctx.App.ErrWriter
	}
	return os.Stderr
}

// Help displays the application help, or the help of the command named by
// the first argument.
func Help(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" || arg == "help" {
		fmt.Fprintf(Out(ctx), "%s %s\n", ctx.App.Name, ctx.App.Version)
		showAppHelpAndExit(ctx, 0)
		return nil
	}
	return showCommandHelp(ctx, arg)
}

// GetVersion prints VersionCmdStr.
func GetVersion(ctx *cli.Context) error {
	fmt.Fprintln(Out(ctx), VersionCmdStr)
	return nil
}

// PrintRuntimeErr reports a non-fatal error of a command step. ctx may be
// nil, in which case the program name comes from os.Args[0].
func PrintRuntimeErr(ctx *cli.Context, cmd, action string, err error) {
	if err == nil {
		return
	}
	name := os.Args[0]
	if ctx != nil {
		name = ctx.App.HelpName
	}
	fmt.Fprintf(ErrOut(ctx), "%s: %s[%s]: %s\n", name, cmd, action, err.Error())
}

// PrintErrWithCmdHelp prints err followed by the current command's help.
func PrintErrWithCmdHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(ctx, err, func() {
		if err := showCommandHelp(ctx, ctx.Command.Name); err != nil {
			fmt.Fprintln(ErrOut(ctx), err.Error())
		}
	})
}

// PrintErrWithHelp prints err followed by the application help and exits
// with status 1.
func PrintErrWithHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(ctx, err, func() {
		showAppHelpAndExit(ctx, 1)
	})
}

func printErrWithCallback(ctx *cli.Context, err error, callback func()) error {
	if err == nil {
		return nil
	}
	estr := strings.ToLower(err.Error())
	if estr == "flag: help requested" {
		return Help(ctx)
	}
	if strings.Contains(estr, "-version") {
		return GetVersion(ctx)
	}
	fmt.Fprintf(ErrOut(ctx), "%s: %s\n\n", ctx.App.HelpName, err.Error())
	callback()
	return nil
}

// UsageErrorCallback is the OnUsageError hook of the app and its commands.
func UsageErrorCallback(ctx *cli.Context, err error, _ bool) error {
	if ctx.Command.Name != "" {
		return PrintErrWithCmdHelp(ctx, err)
	}
	return PrintErrWithHelp(ctx, err)
}
