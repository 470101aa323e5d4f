package browser

// Format identifies the format of a browser cookie store.
type Format int

const (
	// FormatUnknown means the cookie store format could not be detected.
	FormatUnknown Format = iota
	// FormatFirefox is the Firefox moz_cookies SQLite schema.
	FormatFirefox
	// FormatChrome is the Chrome cookies SQLite schema.
	FormatChrome
	// FormatNetscape is the Netscape tab separated text format.
	FormatNetscape
)

func (f Format) String() string {
	switch f {
	case FormatFirefox:
		return "firefox"
	case FormatChrome:
		return "chrome"
	case FormatNetscape:
		return "netscape"
	default:
		return "unknown"
	}
}

// Source describes where imported cookies came from.
type Source struct {
	// Path is the cookie store file.
	Path string
	// Format is the detected store format.
	Format Format
	// Browser is the browser name (e.g. "Firefox", "Chrome", "Netscape").
	Browser string
}
