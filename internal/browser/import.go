package browser

import (
	"fmt"
	"os"
	"time"

	"github.com/warpdl/warpjar/pkg/cookiejar"
	"github.com/warpdl/warpjar/pkg/logger"
)

// Importer reads browser cookie stores into jar records.
type Importer struct {
	// Logger receives skipped-line warnings. Defaults to a no-op logger.
	Logger logger.Logger
	// Now decides which cookies are expired. Defaults to time.Now.
	Now func() time.Time
}

func (im *Importer) log() logger.Logger {
	if im.Logger == nil {
		return logger.NewNopLogger()
	}
	return im.Logger
}

func (im *Importer) now() time.Time {
	if im.Now == nil {
		return time.Now()
	}
	return im.Now()
}

// Import detects the format of the store at path and returns its unexpired
// cookies for domain (all cookies when domain is empty). SQLite stores are
// read from a temporary copy.
func (im *Importer) Import(path, domain string) ([]*cookiejar.Cookie, *Source, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}
	domain = cookiejar.CanonicalDomain(domain)
	source := &Source{Path: path, Format: format}

	var cookies []*cookiejar.Cookie
	switch format {
	case FormatFirefox:
		source.Browser = firefoxSchema.browser
		cookies, err = im.importSQLite(path, firefoxSchema, domain)
	case FormatChrome:
		source.Browser = chromeSchema.browser
		cookies, err = im.importSQLite(path, chromeSchema, domain)
	case FormatNetscape:
		source.Browser = "Netscape"
		cookies, err = im.importNetscape(path, domain)
	default:
		return nil, nil, fmt.Errorf("error: unsupported cookie store at %s", path)
	}
	if err != nil {
		return nil, nil, err
	}
	im.log().Debug("browser: read %d cookies from %s store", len(cookies), source.Browser)
	return cookies, source, nil
}

func (im *Importer) importSQLite(path string, s *schema, domain string) ([]*cookiejar.Cookie, error) {
	copied, cleanup, err := snapshot(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return readSQLite(copied, s, domain, im.now())
}

// importNetscape decodes a Netscape file leniently: malformed lines are
// skipped and expired cookies dropped. Names and values are kept as written.
func (im *Importer) importNetscape(path, domain string) ([]*cookiejar.Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error: cannot read Netscape cookie file: %w", err)
	}
	decoded, err := cookiejar.DeserializeRaw(string(data), true, true, func(line int, _ string) {
		im.log().Warning("browser: skipping malformed Netscape cookie line %d", line)
	})
	if err != nil {
		return nil, err
	}
	now := im.now()
	var cookies []*cookiejar.Cookie
	for _, c := range decoded {
		if c.HasExpires() && !c.Expires.After(now) {
			continue
		}
		if inDomain(c, domain) {
			cookies = append(cookies, c)
		}
	}
	return cookies, nil
}
