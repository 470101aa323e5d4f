package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"
	"github.com/warpdl/warpjar/cmd/common"
	"github.com/warpdl/warpjar/pkg/cookiejar"
)

func get(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("expected exactly one url"))
	}
	u, err := requestURL(ctx.Args().First())
	if err != nil {
		return err
	}
	jar, l, err := openJar(ctx)
	if err != nil {
		return err
	}
	defer l.Close()

	header, err := jar.GetCookieHeader(u)
	if err != nil {
		// the header is still valid
		common.PrintRuntimeErr(ctx, "get", "persist", err)
	}
	fmt.Fprintln(common.Out(ctx), header)
	return nil
}

func set(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("expected a url and at least one Set-Cookie value"))
	}
	u, err := requestURL(ctx.Args().First())
	if err != nil {
		return err
	}
	jar, l, err := openJar(ctx)
	if err != nil {
		return err
	}
	defer l.Close()

	for _, raw := range ctx.Args().Tail() {
		if err := jar.SetCookie(u, raw); err != nil {
			return err
		}
	}
	l.Debug("jar holds %d cookies", len(jar.Cookies()))
	return nil
}

func list(ctx *cli.Context) error {
	jar, l, err := openJar(ctx)
	if err != nil {
		return err
	}
	defer l.Close()

	cookies := jar.Cookies()
	if domain := ctx.Args().First(); domain != "" {
		cookies = jar.FindCookies(domain, "")
	}
	out := common.Out(ctx)
	if len(cookies) == 0 {
		fmt.Fprintln(out, "warpjar: no cookies found")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	header := "DOMAIN\tPATH\tNAME\tFLAGS\tEXPIRES"
	if valuesFlag {
		header += "\tVALUE"
	}
	fmt.Fprintln(w, header)
	for _, c := range cookies {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s", displayDomain(c), c.Path, c.Key, flags(c), expiry(c, now))
		if valuesFlag {
			line += "\t" + c.Value
		}
		fmt.Fprintln(w, line)
	}
	return w.Flush()
}

// displayDomain marks domain cookies with a leading dot, as cookie files do.
func displayDomain(c *cookiejar.Cookie) string {
	if c.IsHostOnly() {
		return c.Domain
	}
	return "." + c.Domain
}

func flags(c *cookiejar.Cookie) string {
	switch {
	case c.Secure && c.HttpOnly:
		return "secure,httponly"
	case c.Secure:
		return "secure"
	case c.HttpOnly:
		return "httponly"
	}
	return "-"
}

func expiry(c *cookiejar.Cookie, now time.Time) string {
	exp, ok := c.Expiration(now)
	if !ok {
		return "session"
	}
	return humanize.RelTime(exp, now, "ago", "from now")
}

func remove(ctx *cli.Context) error {
	if ctx.NArg() != 3 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("expected a domain, a path and a cookie name"))
	}
	args := ctx.Args()
	jar, l, err := openJar(ctx)
	if err != nil {
		return err
	}
	defer l.Close()

	removed, err := jar.RemoveCookie(args.Get(0), args.Get(1), args.Get(2))
	if err != nil {
		return err
	}
	if removed == nil {
		return fmt.Errorf("no cookie %q on %s%s", args.Get(2), args.Get(0), args.Get(1))
	}
	fmt.Fprintf(common.Out(ctx), "removed %s from %s%s\n", removed.Key, removed.Domain, removed.Path)
	return nil
}

func clearAll(ctx *cli.Context) error {
	jar, l, err := openJar(ctx)
	if err != nil {
		return err
	}
	defer l.Close()

	removed := jar.RemoveAllCookies()
	if err := jar.Save(); err != nil {
		return err
	}
	fmt.Fprintf(common.Out(ctx), "removed %d cookies\n", len(removed))
	return nil
}

func export(ctx *cli.Context) error {
	jar, l, err := openJar(ctx)
	if err != nil {
		return err
	}
	defer l.Close()

	out := common.Out(ctx)
	if !setCookieFlag {
		fmt.Fprint(out, cookiejar.Serialize(jar.Cookies(), ctx.GlobalBoolT("httponly-ext"), time.Now()))
		return nil
	}
	for _, c := range jar.Cookies() {
		fmt.Fprintln(out, c.String())
	}
	return nil
}
