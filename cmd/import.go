package cmd

import (
	"fmt"
	"slices"

	"github.com/urfave/cli"
	"github.com/warpdl/warpjar/cmd/common"
	"github.com/warpdl/warpjar/internal/browser"
	"github.com/warpdl/warpjar/pkg/cookiejar"
)

func importCookies(ctx *cli.Context) error {
	if ctx.NArg() > 1 {
		return common.PrintErrWithCmdHelp(ctx, fmt.Errorf("expected at most one cookie file, got %d", ctx.NArg()))
	}
	jar, l, err := openJar(ctx)
	if err != nil {
		return err
	}
	defer l.Close()

	im := &browser.Importer{Logger: l}
	var (
		cookies []*cookiejar.Cookie
		source  *browser.Source
	)
	if path := ctx.Args().First(); path != "" {
		cookies, source, err = im.Import(path, importDomain)
	} else {
		cookies, source, err = im.Detect(importDomain)
	}
	if err != nil {
		return err
	}
	// session cookies never reach the cookie file, so they are not imported
	persistent := slices.DeleteFunc(cookies, func(c *cookiejar.Cookie) bool {
		return !c.IsPersistent()
	})
	if skipped := len(cookies) - len(persistent); skipped > 0 {
		fmt.Fprintf(common.ErrOut(ctx), "warpjar: skipped %d session cookies\n", skipped)
	}
	if err := jar.AddCookies(persistent); err != nil {
		return err
	}
	fmt.Fprintf(common.Out(ctx), "imported %d cookies from %s (%s)\n", len(persistent), source.Browser, source.Path)
	return nil
}
