package cookiejar

import (
	"testing"
	"time"
)

func TestParseDate_Formats(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"rfc1123", "Sun, 06 Nov 1994 08:49:37 GMT", time.Date(1994, 11, 6, 8, 49, 37, 0, time.UTC)},
		{"rfc850", "Sunday, 06-Nov-94 08:49:37 GMT", time.Date(1994, 11, 6, 8, 49, 37, 0, time.UTC)},
		{"asctime", "Sun Nov  6 08:49:37 1994", time.Date(1994, 11, 6, 8, 49, 37, 0, time.UTC)},
		{"epoch", "Thu, 01 Jan 70 00:00:00 GMT", time.Unix(0, 0).UTC()},
		{"two digit 2000s", "Fri, 01 Jan 21 12:00:00 GMT", time.Date(2021, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"lower case month", "01 dec 2030 23:59:59", time.Date(2030, 12, 1, 23, 59, 59, 0, time.UTC)},
		{"single digit clock", "01 Jan 2030 1:2:3", time.Date(2030, 1, 1, 1, 2, 3, 0, time.UTC)},
		{"long month name", "01 October 2030 10:00:00", time.Date(2030, 10, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustParseOne(t, "a=b; Expires="+tt.value, false)
			if !c.Expires.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, c.Expires)
			}
		})
	}
}

func TestParseDate_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"day out of range", "32 Jan 2020 10:00:00"},
		{"day zero", "00 Jan 2020 10:00:00"},
		{"invalid calendar day", "31 Feb 2020 10:00:00"},
		{"year too small", "01 Jan 1600 10:00:00"},
		{"hour out of range", "01 Jan 2020 24:00:00"},
		{"minute out of range", "01 Jan 2020 10:60:00"},
		{"second out of range", "01 Jan 2020 10:00:60"},
		{"missing time", "01 Jan 2020"},
		{"missing month", "01 2020 10:00:00"},
		{"garbage", "tomorrow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustParseOne(t, "a=b; Expires="+tt.value, false)
			if c.HasExpires() {
				t.Errorf("expected %q to be ignored, got %v", tt.value, c.Expires)
			}
		})
	}
}

func TestParseDate_FailureRestoresPosition(t *testing.T) {
	cookies := Parse("a=b; Expires=Tue, c=d", false)
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	if cookies[0].HasExpires() {
		t.Error("expected first cookie without Expires")
	}
	if cookies[1].Key != "c" || cookies[1].Value != "d" {
		t.Errorf("expected second cookie c=d, got %s=%s", cookies[1].Key, cookies[1].Value)
	}
}

func TestIsDateDelimiter(t *testing.T) {
	for _, c := range []byte{'\t', ' ', ',', '-', '/', ';', '=', '@', '[', '`', '{', '~'} {
		if !isDateDelimiter(c) {
			t.Errorf("expected %q to be a delimiter", c)
		}
	}
	for _, c := range []byte{'0', '9', ':', 'a', 'Z', '\n'} {
		if isDateDelimiter(c) {
			t.Errorf("expected %q not to be a delimiter", c)
		}
	}
}
