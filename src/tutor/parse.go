package tutor

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// parseLeadingInt reads an integer the way a browser's parseInt does: leading
// whitespace is skipped, an optional sign and hex prefix are honored, and
// parsing stops at the first non-digit. ok is false when no digit was read.
func parseLeadingInt(s string) (value float64, ok bool) {
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})

	sign := 1.0
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	base := 10.0
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	for _, r := range s {
		d := digitValue(r)
		if d < 0 || float64(d) >= base {
			break
		}
		value = value*base + float64(d)
		ok = true
	}
	return sign * value, ok
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}
	return -1
}

// intEquals reports whether s parses to exactly want
func intEquals(s string, want int) bool {
	v, ok := parseLeadingInt(s)
	return ok && v == float64(want)
}

// utf16Len counts UTF-16 code units, the unit browsers use for string length
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
