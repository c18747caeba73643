// Package escape implements the percent-encoding rules shared by matching,
// parameter decoding and expansion.
package escape

import (
	"strings"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

// Safe reports whether c may appear unencoded in a URI. The set is the
// unreserved and reserved characters of RFC 2396 plus '[' and ']'.
func Safe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'();/?:@&=+$,[]", c) >= 0
}

// Percent encodes every byte of s as %XX with upper case hex digits.
func Percent(s string) string {
	var sb strings.Builder
	sb.Grow(3 * len(s))
	for i := 0; i < len(s); i++ {
		sb.WriteByte('%')
		sb.WriteByte(upperhex[s[i]>>4])
		sb.WriteByte(upperhex[s[i]&15])
	}
	return sb.String()
}

// Unsafe percent-encodes the bytes of s that are not Safe.
func Unsafe(s string) string {
	return Escape(s, nil)
}

// Escape percent-encodes every character of s that is not Safe or for which
// also reports true. also receives the byte offset of the character in s and
// may be nil.
func Escape(s string, also func(i int) bool) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		char := s[i : i+size]
		if size == 1 && Safe(s[i]) && (also == nil || !also(i)) {
			sb.WriteString(char)
		} else {
			sb.WriteString(Percent(char))
		}
		i += size
	}
	return sb.String()
}

// Unescape decodes %XX sequences. Malformed sequences are kept as they are.
func Unescape(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				sb.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
