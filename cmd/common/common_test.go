package common

import (
	"bytes"
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/urfave/cli"
)

func newTestContext(args ...string) (*cli.Context, *bytes.Buffer, *bytes.Buffer) {
	app := cli.NewApp()
	app.Name = "warpjar"
	app.HelpName = "warpjar"
	app.Version = "test"
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse(args)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "cmd"}
	return ctx, &out, &errOut
}

func stubAppHelp(t *testing.T) *bool {
	t.Helper()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) { called = true }
	t.Cleanup(func() { showAppHelpAndExit = orig })
	return &called
}

func stubCommandHelp(t *testing.T, err error) *string {
	t.Helper()
	called := ""
	orig := showCommandHelp
	showCommandHelp = func(_ *cli.Context, name string) error {
		called = name
		return err
	}
	t.Cleanup(func() { showCommandHelp = orig })
	return &called
}

func TestPrintRuntimeErr(t *testing.T) {
	ctx, out, errOut := newTestContext()
	PrintRuntimeErr(ctx, "get", "persist", nil)
	if errOut.Len() != 0 {
		t.Fatalf("expected no output for nil error, got %q", errOut.String())
	}
	PrintRuntimeErr(ctx, "get", "persist", errors.New("boom"))
	if got := errOut.String(); got != "warpjar: get[persist]: boom\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if out.Len() != 0 {
		t.Fatalf("expected nothing on stdout, got %q", out.String())
	}
}

func TestPrintErrWithHelp(t *testing.T) {
	ctx, _, errOut := newTestContext()
	called := stubAppHelp(t)

	if err := PrintErrWithHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if !*called {
		t.Fatal("expected help to be called")
	}
	if !strings.Contains(errOut.String(), "warpjar: oops") {
		t.Fatalf("expected error message, got %q", errOut.String())
	}
}

func TestPrintErrWithHelp_Nil(t *testing.T) {
	ctx, _, _ := newTestContext()
	called := stubAppHelp(t)
	if err := PrintErrWithHelp(ctx, nil); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if *called {
		t.Fatal("expected no help for nil error")
	}
}

func TestPrintErrWithHelp_HelpRequested(t *testing.T) {
	ctx, _, _ := newTestContext()
	called := stubAppHelp(t)
	if err := PrintErrWithHelp(ctx, errors.New("flag: help requested")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if !*called {
		t.Fatal("expected help to be called")
	}
}

func TestPrintErrWithHelp_Version(t *testing.T) {
	old := VersionCmdStr
	VersionCmdStr = "warpjar v0"
	defer func() { VersionCmdStr = old }()

	ctx, out, _ := newTestContext()
	stubAppHelp(t)
	if err := PrintErrWithHelp(ctx, errors.New("flag provided but not defined: -version")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if out.String() != "warpjar v0\n" {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestPrintErrWithCmdHelp(t *testing.T) {
	ctx, _, _ := newTestContext()
	called := stubCommandHelp(t, nil)
	if err := PrintErrWithCmdHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithCmdHelp: %v", err)
	}
	if *called != "cmd" {
		t.Fatalf("expected help for cmd, got %q", *called)
	}
}

func TestPrintErrWithCmdHelp_ShowCommandHelpError(t *testing.T) {
	ctx, _, errOut := newTestContext()
	stubCommandHelp(t, errors.New("boom"))
	if err := PrintErrWithCmdHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithCmdHelp: %v", err)
	}
	if !strings.Contains(errOut.String(), "boom") {
		t.Fatalf("expected help error to be printed, got %q", errOut.String())
	}
}

func TestUsageErrorCallback(t *testing.T) {
	ctx, _, _ := newTestContext()
	called := stubCommandHelp(t, nil)
	if err := UsageErrorCallback(ctx, errors.New("oops"), false); err != nil {
		t.Fatalf("UsageErrorCallback: %v", err)
	}
	if *called != "cmd" {
		t.Fatal("expected command help")
	}

	ctx.Command = cli.Command{}
	appHelp := stubAppHelp(t)
	if err := UsageErrorCallback(ctx, errors.New("oops"), false); err != nil {
		t.Fatalf("UsageErrorCallback: %v", err)
	}
	if !*appHelp {
		t.Fatal("expected app help without a command")
	}
}

func TestHelp(t *testing.T) {
	ctx, out, _ := newTestContext()
	called := stubAppHelp(t)
	if err := Help(ctx); err != nil {
		t.Fatalf("Help: %v", err)
	}
	if !*called {
		t.Fatal("expected help to be called")
	}
	if out.String() != "warpjar test\n" {
		t.Fatalf("unexpected banner %q", out.String())
	}
}

func TestHelp_CommandArg(t *testing.T) {
	ctx, _, _ := newTestContext("list")
	called := stubCommandHelp(t, nil)
	if err := Help(ctx); err != nil {
		t.Fatalf("Help: %v", err)
	}
	if *called != "list" {
		t.Fatalf("expected help for list, got %q", *called)
	}
}

func TestHelp_CommandError(t *testing.T) {
	ctx, _, _ := newTestContext("nope")
	stubCommandHelp(t, errors.New("boom"))
	if err := Help(ctx); err == nil {
		t.Fatal("expected error from Help")
	}
}

func TestGetVersion(t *testing.T) {
	old := VersionCmdStr
	VersionCmdStr = "warpjar 1.2.3"
	defer func() { VersionCmdStr = old }()

	ctx, out, _ := newTestContext()
	if err := GetVersion(ctx); err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if out.String() != "warpjar 1.2.3\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
