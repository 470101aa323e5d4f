package cmd

const DESCRIPTION = `
WarpJar keeps an RFC 6265 cookie jar in a Netscape cookie file, the
format curl and wget read. Cookies can be added from Set-Cookie
headers, imported from an installed browser, and served to other
programs over JSON-RPC.
`

const (
	GetDescription = `The get command prints the Cookie header the jar would send
with a request to the given url. Expired cookies met on the
way are dropped from the cookie file.

Example:
        warpjar get https://example.com/account

`
	SetDescription = `The set command stores the cookies of one or more Set-Cookie
header values as if they were received from the given url.

Example:
        warpjar set https://example.com/ "sid=abc; Path=/; Max-Age=3600"

`
	ListDescription = `The list command displays the stored cookies, optionally only
those of one domain. Values are hidden unless --values is given.

Example:
        warpjar list example.com

`
	RemoveDescription = `The remove command deletes the cookie stored under a domain,
path and name.

Example:
        warpjar remove example.com / sid

`
	ClearDescription = `The clear command deletes every stored cookie.

Example:
        warpjar clear

`
	ImportDescription = `The import command copies cookies from a browser cookie store
(Firefox, Chrome, Chromium, Edge, Brave, LibreWolf) or a Netscape
cookie file into the jar. Without a file the default profile of
the first installed browser is used.

Example:
        warpjar import --domain example.com
        warpjar import ~/.mozilla/firefox/abcd.default/cookies.sqlite

`
	ExportDescription = `The export command prints the persistent cookies in the Netscape
cookie file format, or every cookie as a Set-Cookie value.

Example:
        warpjar export > cookies.txt
        warpjar export --set-cookie

`
	ServeDescription = `The serve command exposes the jar as a JSON-RPC 2.0 service on
/jsonrpc (HTTP) and /jsonrpc/ws (WebSocket). Every request must
carry the secret as a Bearer token.

Example:
        WARPJAR_RPC_SECRET=s3cret warpjar serve --addr 127.0.0.1:6802

`
)

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{if .VisibleFlags}}

Global Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`
