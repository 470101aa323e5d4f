package cookiejar

import (
	"strconv"
	"strings"
	"unicode"
)

// pairTerminators end the cookie-pair early.
const pairTerminators = "\n\r\x00"

// Parse turns Set-Cookie header text into cookies. The text is split on
// commas first so folded headers yield several cookies; only an Expires date
// may continue across a comma. Segments that do not parse are dropped.
//
// In loose mode a cookie-pair without a name is accepted: "=foo" and "foo"
// both yield an empty key with value "foo".
func Parse(raw string, loose bool) []*Cookie {
	p := newParser(raw, loose)
	var cookies []*Cookie
	for p.cur < len(p.segments) {
		if p.segment() != "" {
			if c := p.next(); c != nil {
				cookies = append(cookies, c)
			}
		}
		p.cur++
		p.idx = 0
	}
	return cookies
}

// ParseOne parses the first cookie of raw and returns nil when it does not
// parse. Empty segments are skipped as in Parse.
func ParseOne(raw string, loose bool) *Cookie {
	p := newParser(raw, loose)
	for p.cur < len(p.segments) && p.segment() == "" {
		p.cur++
	}
	if p.cur == len(p.segments) {
		return nil
	}
	return p.next()
}

// parser walks comma separated segments. cur is the segment index and idx
// the byte offset inside it.
type parser struct {
	segments []string
	loose    bool
	cur      int
	idx      int
}

func newParser(raw string, loose bool) *parser {
	segments := strings.Split(raw, ",")
	for i, s := range segments {
		segments[i] = strings.TrimSpace(s)
	}
	return &parser{segments: segments, loose: loose}
}

func (p *parser) segment() string {
	if p.cur < len(p.segments) {
		return p.segments[p.cur]
	}
	return ""
}

// next parses one cookie starting at the current position. Attributes are
// applied left to right so the last occurrence of an attribute wins.
func (p *parser) next() *Cookie {
	c := p.parsePair()
	if c == nil {
		return nil
	}
	for p.idx < len(p.segment()) {
		content := p.segment()
		start := p.idx
		end := normalizeEnd(indexFrom(content, ';', start), len(content))
		contentEnd := p.rewind(end)

		// empty attributes (";;") are skipped
		if contentEnd > start {
			sep := normalizeEnd(indexFrom(content[:contentEnd], '=', start), contentEnd)
			key := strings.ToLower(content[start:p.rewind(sep)])
			hasValue := false
			if sep != contentEnd {
				p.skipWhitespace(sep + 1)
				hasValue = p.idx < contentEnd
			} else {
				p.idx = sep
			}

			switch key {
			case "expires":
				if hasValue {
					if t, ok := p.parseDate(contentEnd); ok {
						c.Expires = t
					}
				}
			case "max-age":
				if hasValue {
					if n, err := strconv.Atoi(content[p.idx:contentEnd]); err == nil {
						c.MaxAge = n
						c.HasMaxAge = true
					}
				}
			case "domain":
				if hasValue {
					if d := CanonicalDomain(content[p.idx:contentEnd]); d != "" {
						c.Domain = d
					}
				}
			case "path":
				if hasValue {
					if v := content[p.idx:contentEnd]; strings.HasPrefix(v, "/") {
						c.Path = v
					}
				}
			case "secure":
				c.Secure = true
			case "httponly":
				c.HttpOnly = true
			default:
				c.Extensions = append(c.Extensions, content[start:contentEnd])
			}
		}

		if content := p.segment(); p.idx < len(content) {
			p.skipWhitespace(normalizeEnd(indexFrom(content, ';', p.idx), len(content)) + 1)
		}
	}
	return c
}

// parsePair reads the cookie-pair (RFC 6265 S5.2 steps 1-5).
func (p *parser) parsePair() *Cookie {
	content := p.segment()
	end := len(content)
	if i := indexFrom(content, ';', p.idx); i >= 0 {
		end = i
	}
	if i := strings.IndexAny(content[p.idx:end], pairTerminators); i >= 0 {
		end = p.idx + i
	}

	eq := indexFrom(content[:end], '=', p.idx)
	if p.loose {
		if eq == p.idx {
			p.idx++
			eq = indexFrom(content[:end], '=', p.idx)
		}
	} else if eq <= p.idx {
		// a cookie-name is required
		return nil
	}

	var name, value string
	if eq <= p.idx {
		value = strings.TrimSpace(content[p.idx:end])
	} else {
		name = strings.TrimSpace(content[p.idx:eq])
		value = strings.TrimSpace(content[eq+1 : end])
	}
	if hasControlChars(name) || hasControlChars(value) {
		return nil
	}

	p.skipWhitespace(min(len(content), end+1))
	c := &Cookie{Key: name, Value: value}
	c.stamp()
	return c
}

func hasControlChars(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] <= 0x1F {
			return true
		}
	}
	return false
}

// rewind moves end back over trailing whitespace, never past idx.
func (p *parser) rewind(end int) int {
	content := p.segment()
	for end > p.idx && unicode.IsSpace(rune(content[end-1])) {
		end--
	}
	return end
}

// skipWhitespace places idx at the first non-space byte at or after pos.
func (p *parser) skipWhitespace(pos int) {
	content := p.segment()
	for pos < len(content) && unicode.IsSpace(rune(content[pos])) {
		pos++
	}
	p.idx = pos
}

// indexFrom returns the absolute index of b in s at or after from, or -1.
func indexFrom(s string, b byte, from int) int {
	if from > len(s) {
		return -1
	}
	if i := strings.IndexByte(s[from:], b); i >= 0 {
		return from + i
	}
	return -1
}

func normalizeEnd(end, length int) int {
	if end < 0 || end >= length {
		return length
	}
	return end
}
