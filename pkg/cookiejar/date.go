package cookiejar

import (
	"strings"
	"time"
)

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// isDateDelimiter matches the delimiter set of RFC 6265 S5.1.1.
func isDateDelimiter(c byte) bool {
	return c == 0x09 ||
		(c >= 0x20 && c <= 0x2F) ||
		(c >= 0x3B && c <= 0x40) ||
		(c >= 0x5B && c <= 0x60) ||
		(c >= 0x7B && c <= 0x7E)
}

// dateFields collects the date components found so far.
type dateFields struct {
	clock            []int
	day, month, year int
	hasDay, hasMonth bool
	hasYear          bool
}

func (f *dateFields) complete() bool {
	return f.clock != nil && f.hasDay && f.hasMonth && f.hasYear
}

// parseDate scans a cookie-date (RFC 6265 S5.1.1) from idx up to end. The
// date of an Expires attribute contains a comma, so when the scan reaches the
// end of the segment with fields still missing it carries on into the next
// segment. On failure the parser position is restored.
func (p *parser) parseDate(end int) (time.Time, bool) {
	startCur, startIdx := p.cur, p.idx
	var f dateFields

	for !f.complete() {
		if p.idx >= end {
			if end != len(p.segment()) || p.cur+1 >= len(p.segments) {
				break
			}
			p.cur++
			p.idx = 0
			end = normalizeEnd(strings.IndexByte(p.segment(), ';'), len(p.segment()))
			continue
		}

		content := p.segment()
		if isDateDelimiter(content[p.idx]) {
			p.idx++
			continue
		}
		if f.clock == nil {
			if clock, ok := p.parseClock(end); ok {
				f.clock = clock
				continue
			}
		}
		if !f.hasDay {
			if v, ok := p.parseDigits(end, 1, 2, true); ok {
				f.day, f.hasDay = v, true
				continue
			}
		}
		if !f.hasMonth {
			if m, ok := p.parseMonth(end); ok {
				f.month, f.hasMonth = m, true
				continue
			}
		}
		if !f.hasYear {
			if v, ok := p.parseDigits(end, 2, 4, true); ok {
				switch {
				case v >= 70 && v <= 99:
					v += 1900
				case v >= 0 && v <= 69:
					v += 2000
				}
				f.year, f.hasYear = v, true
				continue
			}
		}

		// unrecognized token
		for p.idx < end && !isDateDelimiter(content[p.idx]) {
			p.idx++
		}
	}

	if t, ok := f.build(); ok {
		return t, true
	}
	p.cur, p.idx = startCur, startIdx
	return time.Time{}, false
}

// build validates the collected fields and assembles the UTC instant.
func (f *dateFields) build() (time.Time, bool) {
	if !f.complete() {
		return time.Time{}, false
	}
	if f.day < 1 || f.day > 31 || f.year <= 1600 ||
		f.clock[0] > 23 || f.clock[1] > 59 || f.clock[2] > 59 {
		return time.Time{}, false
	}
	t := time.Date(f.year, time.Month(f.month), f.day, f.clock[0], f.clock[1], f.clock[2], 0, time.UTC)
	// reject dates like 31 Feb that time.Date would normalize
	if t.Day() != f.day {
		return time.Time{}, false
	}
	return t, true
}

func (p *parser) parseMonth(end int) (int, bool) {
	if end-p.idx < 3 {
		return 0, false
	}
	m, ok := monthNames[strings.ToLower(p.segment()[p.idx:p.idx+3])]
	if !ok {
		return 0, false
	}
	p.idx += 3
	return int(m), true
}

// parseDigits reads between minDigits and maxDigits digits. Unless trailing
// is set the digits must be followed by end or a delimiter.
func (p *parser) parseDigits(end, minDigits, maxDigits int, trailing bool) (int, bool) {
	content := p.segment()
	start := p.idx
	value := 0
	for p.idx < end {
		c := content[p.idx]
		if c < '0' || c > '9' {
			break
		}
		value = value*10 + int(c-'0')
		p.idx++
	}
	count := p.idx - start
	if count < minDigits || count > maxDigits {
		p.idx = start
		return 0, false
	}
	if !trailing && p.idx != end && !isDateDelimiter(content[p.idx]) {
		p.idx = start
		return 0, false
	}
	return value, true
}

// parseClock reads an hms-time token "h[h]:m[m]:s[s]".
func (p *parser) parseClock(end int) ([]int, bool) {
	content := p.segment()
	start := p.idx
	clock := make([]int, 3)
	i := 0
	for i < 3 && p.idx < end {
		next := end
		if i < 2 {
			next = p.findNext(':', end)
		}
		v, ok := p.parseDigits(next, 1, 2, i == 2)
		if !ok {
			break
		}
		clock[i] = v
		i++
		if p.idx < end && content[p.idx] == ':' {
			p.idx++
		}
	}
	if i < 3 || (p.idx < end && !isDateDelimiter(content[p.idx])) {
		p.idx = start
		return nil, false
	}
	return clock, true
}

func (p *parser) findNext(target byte, end int) int {
	content := p.segment()
	i := p.idx
	for i < end && content[i] != target {
		i++
	}
	return i
}
