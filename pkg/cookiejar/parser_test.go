package cookiejar

import (
	"testing"
	"time"
)

func mustParseOne(t *testing.T, raw string, loose bool) *Cookie {
	t.Helper()
	c := ParseOne(raw, loose)
	if c == nil {
		t.Fatalf("expected %q to parse", raw)
	}
	return c
}

func assertDate(t *testing.T, got time.Time, year int, month time.Month, day int) {
	t.Helper()
	if got.Year() != year || got.Month() != month || got.Day() != day {
		t.Errorf("expected date %d-%02d-%02d, got %v", year, month, day, got)
	}
}

func TestParse_SimplePair(t *testing.T) {
	c := mustParseOne(t, "a=bcd", false)
	if c.Key != "a" || c.Value != "bcd" {
		t.Errorf("expected a=bcd, got %s=%s", c.Key, c.Value)
	}
	if c.Path != "" || c.Domain != "" {
		t.Errorf("expected no path and domain, got %q %q", c.Path, c.Domain)
	}
	if c.HasExpires() {
		t.Error("expected no Expires")
	}
	if len(c.Extensions) != 0 {
		t.Errorf("expected no extensions, got %v", c.Extensions)
	}
	if c.Scope != ScopeUnresolved {
		t.Errorf("expected unresolved scope, got %s", c.Scope)
	}
	if !c.Validate() {
		t.Error("expected a=bcd to validate")
	}
}

func TestParse_ExpiresWithComma(t *testing.T) {
	c := mustParseOne(t, "a=bcd; Expires=Tue, 18 Oct 2011 07:05:03 GMT", false)
	if c.Key != "a" || c.Value != "bcd" {
		t.Errorf("expected a=bcd, got %s=%s", c.Key, c.Value)
	}
	if !c.HasExpires() {
		t.Fatal("expected Expires to be set")
	}
	want := time.Date(2011, time.October, 18, 7, 5, 3, 0, time.UTC)
	if !c.Expires.Equal(want) {
		t.Errorf("expected %v, got %v", want, c.Expires)
	}
	if len(c.Extensions) != 0 {
		t.Errorf("expected no extensions, got %v", c.Extensions)
	}
}

func TestParse_QuotedValueAndPath(t *testing.T) {
	c := mustParseOne(t, `a="xyzzy!"; Expires=Tue, 18 Oct 2011 07:05:03 GMT; Path=/aBc`, false)
	if c.Value != `"xyzzy!"` {
		t.Errorf("expected quoted value, got %s", c.Value)
	}
	if c.Path != "/aBc" {
		t.Errorf("expected path /aBc, got %s", c.Path)
	}
	if c.Secure || c.HttpOnly {
		t.Error("expected Secure and HttpOnly unset")
	}
	assertDate(t, c.Expires, 2011, time.October, 18)
}

func TestParse_AllAttributes(t *testing.T) {
	raw := `abc="xyzzy!"; Expires=Tue, 18 Oct 2011 07:05:03 GMT; Path=/aBc; Domain=example.com; Secure; HTTPOnly; Max-Age=1234; Foo=Bar; Baz`
	c := mustParseOne(t, raw, false)
	if c.Key != "abc" {
		t.Errorf("expected key abc, got %s", c.Key)
	}
	if c.Path != "/aBc" {
		t.Errorf("expected path /aBc, got %s", c.Path)
	}
	if c.Domain != "example.com" {
		t.Errorf("expected domain example.com, got %s", c.Domain)
	}
	if !c.Secure || !c.HttpOnly {
		t.Error("expected Secure and HttpOnly set")
	}
	if !c.HasMaxAge || c.MaxAge != 1234 {
		t.Errorf("expected Max-Age 1234, got %d (%v)", c.MaxAge, c.HasMaxAge)
	}
	assertDate(t, c.Expires, 2011, time.October, 18)
	if len(c.Extensions) != 2 || c.Extensions[0] != "Foo=Bar" || c.Extensions[1] != "Baz" {
		t.Errorf("expected extensions [Foo=Bar Baz], got %v", c.Extensions)
	}
}

func TestParse_InvalidExpiresIgnored(t *testing.T) {
	c := mustParseOne(t, "a=b; Expires=xyzzy", false)
	if c.HasExpires() {
		t.Errorf("expected no Expires, got %v", c.Expires)
	}
	if len(c.Extensions) != 0 {
		t.Errorf("expected no extensions, got %v", c.Extensions)
	}
}

func TestParse_MaxAge(t *testing.T) {
	tests := []struct {
		raw    string
		has    bool
		maxAge int
	}{
		{"a=b; Max-Age=0", true, 0},
		{"a=b; Max-Age=-1", true, -1},
		{"a=b; Max-Age=3600", true, 3600},
		{"a=b; Max-Age=soon", false, 0},
		{"a=b; Max-Age=", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := mustParseOne(t, tt.raw, false)
			if c.HasMaxAge != tt.has || c.MaxAge != tt.maxAge {
				t.Errorf("expected Max-Age %d (%v), got %d (%v)", tt.maxAge, tt.has, c.MaxAge, c.HasMaxAge)
			}
		})
	}
}

func TestParse_Domain(t *testing.T) {
	tests := []struct {
		raw    string
		domain string
	}{
		{"a=b; domain=.", ""},
		{"a=b; domain=.example.com", "example.com"},
		{"a=b; domain=EXAMPLE.COM", "example.com"},
		{"a=b; domain=", ""},
		{"a=b; Domain=foo.com; Domain=bar.com", "bar.com"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := mustParseOne(t, tt.raw, false)
			if c.Domain != tt.domain {
				t.Errorf("expected domain %q, got %q", tt.domain, c.Domain)
			}
		})
	}
}

func TestParse_Path(t *testing.T) {
	tests := []struct {
		raw  string
		path string
	}{
		{"a=b; path=", ""},
		{"a=b; path=/;;;", "/"},
		{"a=b; path=relative", ""},
		{"a=b; Path=/one; Path=/two", "/two"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := mustParseOne(t, tt.raw, false)
			if c.Path != tt.path {
				t.Errorf("expected path %q, got %q", tt.path, c.Path)
			}
			if len(c.Extensions) != 0 {
				t.Errorf("expected no extensions, got %v", c.Extensions)
			}
		})
	}
}

func TestParse_EmptyAttributesSkipped(t *testing.T) {
	c := mustParseOne(t, "a=b;;;;", false)
	if c.Key != "a" || c.Value != "b" {
		t.Errorf("expected a=b, got %s=%s", c.Key, c.Value)
	}
	if c.Path != "" || len(c.Extensions) != 0 {
		t.Errorf("expected no attributes, got path %q ext %v", c.Path, c.Extensions)
	}
}

func TestParse_FlagValuesIgnored(t *testing.T) {
	c := mustParseOne(t, "a=b; Secure=xyxz", false)
	if !c.Secure || c.HttpOnly {
		t.Errorf("expected only Secure, got secure=%v httponly=%v", c.Secure, c.HttpOnly)
	}
	c = mustParseOne(t, "a=b; HttpOnly=xyxz", false)
	if c.Secure || !c.HttpOnly {
		t.Errorf("expected only HttpOnly, got secure=%v httponly=%v", c.Secure, c.HttpOnly)
	}
}

func TestParse_DashedDateWithoutSpaces(t *testing.T) {
	raw := "GAPS=1:A1aaaaAaAAa1aaAaAaaAAAaaa1a11a:aaaAaAaAa-aaaA1-;Path=/;Expires=Thu, 17-Apr-2014 02:12:29 GMT;Secure;HttpOnly"
	c := mustParseOne(t, raw, false)
	if c.Key != "GAPS" {
		t.Errorf("expected key GAPS, got %s", c.Key)
	}
	if c.Value != "1:A1aaaaAaAAa1aaAaAaaAAAaaa1a11a:aaaAaAaAa-aaaA1-" {
		t.Errorf("unexpected value %s", c.Value)
	}
	if c.Path != "/" {
		t.Errorf("expected path /, got %s", c.Path)
	}
	assertDate(t, c.Expires, 2014, time.April, 17)
	if !c.Secure || !c.HttpOnly {
		t.Error("expected attributes after the date to be parsed")
	}
}

func TestParse_EqualsInValueAndPath(t *testing.T) {
	c := mustParseOne(t, "queryPref=b=c&d=e; Path=/f=g; Expires=Thu, 17 Apr 2014 02:12:29 GMT; HttpOnly", false)
	if c.Key != "queryPref" || c.Value != "b=c&d=e" {
		t.Errorf("expected queryPref=b=c&d=e, got %s=%s", c.Key, c.Value)
	}
	if c.Path != "/f=g" {
		t.Errorf("expected path /f=g, got %s", c.Path)
	}
	assertDate(t, c.Expires, 2014, time.April, 17)
	if !c.HttpOnly {
		t.Error("expected HttpOnly")
	}
}

func TestParse_ValuesKeptVerbatim(t *testing.T) {
	tests := []struct {
		raw   string
		value string
	}{
		{"a=one two three", "one two three"},
		{`a="one two three"`, `"one two three"`},
		{"farbe=weiß", "weiß"},
		{"a=  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := mustParseOne(t, tt.raw, false)
			if c.Value != tt.value {
				t.Errorf("expected value %q, got %q", tt.value, c.Value)
			}
		})
	}
}

func TestParse_LooseMode(t *testing.T) {
	tests := []struct {
		raw   string
		key   string
		value string
	}{
		{"=foo", "", "foo"},
		{"foo", "", "foo"},
		{"=foo=bar", "foo", "bar"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := mustParseOne(t, tt.raw, true)
			if c.Key != tt.key || c.Value != tt.value {
				t.Errorf("expected %q=%q, got %q=%q", tt.key, tt.value, c.Key, c.Value)
			}
		})
	}
}

func TestParseOne_SkipsEmptySegments(t *testing.T) {
	for _, raw := range []string{"", ",", " , ", "   "} {
		if c := ParseOne(raw, true); c != nil {
			t.Errorf("expected %q to yield no cookie, got %q=%q", raw, c.Key, c.Value)
		}
	}
	c := mustParseOne(t, ", a=b", true)
	if c.Key != "a" || c.Value != "b" {
		t.Errorf("expected a=b after the empty segment, got %q=%q", c.Key, c.Value)
	}
}

func TestParse_StrictRejectsMissingName(t *testing.T) {
	for _, raw := range []string{"=foo", "foo", "", "   "} {
		if c := ParseOne(raw, false); c != nil {
			t.Errorf("expected %q to be rejected, got %s=%s", raw, c.Key, c.Value)
		}
	}
}

func TestParse_ControlCharactersRejected(t *testing.T) {
	for _, raw := range []string{"a=b\x01c", "a\x02=b", "a=b\x7fc\x1f"} {
		if c := ParseOne(raw, false); c != nil {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}

func TestParse_PairTerminators(t *testing.T) {
	c := mustParseOne(t, "a=b\x00c; Path=/x", false)
	if c.Value != "b" {
		t.Errorf("expected value cut at NUL, got %q", c.Value)
	}
}

func TestParse_MultipleCookies(t *testing.T) {
	cookies := Parse("a=1; Path=/, b=2; Expires=Tue, 18 Oct 2011 07:05:03 GMT; Secure, c=3", false)
	if len(cookies) != 3 {
		t.Fatalf("expected 3 cookies, got %d", len(cookies))
	}
	if cookies[0].Key != "a" || cookies[0].Path != "/" {
		t.Errorf("unexpected first cookie %s path %s", cookies[0].Key, cookies[0].Path)
	}
	if cookies[1].Key != "b" || !cookies[1].Secure {
		t.Errorf("expected b to keep attributes after its date")
	}
	assertDate(t, cookies[1].Expires, 2011, time.October, 18)
	if cookies[2].Key != "c" || cookies[2].Value != "3" {
		t.Errorf("unexpected third cookie %s=%s", cookies[2].Key, cookies[2].Value)
	}
}

func TestParse_InvalidSegmentsDropped(t *testing.T) {
	cookies := Parse("a=1, garbage, , b=2", false)
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	if cookies[0].Key != "a" || cookies[1].Key != "b" {
		t.Errorf("expected a and b, got %s and %s", cookies[0].Key, cookies[1].Key)
	}
}

func TestParse_CommaNotCrossedByOtherAttributes(t *testing.T) {
	cookies := Parse("a=1; Path=/x, y; Domain=example.com", false)
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].Path != "/x" {
		t.Errorf("expected path /x, got %q", cookies[0].Path)
	}
	if cookies[0].Domain != "" {
		t.Errorf("expected domain from the next segment to be ignored, got %q", cookies[0].Domain)
	}
}

func TestParse_AssignsIdentity(t *testing.T) {
	cookies := Parse("a=1, a=1", false)
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	if cookies[0].id == 0 || cookies[0].id >= cookies[1].id {
		t.Errorf("expected increasing identities, got %d and %d", cookies[0].id, cookies[1].id)
	}
}
