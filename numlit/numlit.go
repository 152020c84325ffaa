// Package numlit parses the numeric and string literal grammar shared by
// every architecture back end: delimited strings with backslash escapes,
// and integers written with a variety of prefix/suffix radix markers
// ('$13AC', '-3B2h', '1010b', '1755o', '0644q', '-123d', plain decimal, or
// a single-character string used as its byte value).
package numlit

import (
	"fmt"
	"strconv"
	"strings"
)

// EncodeStr converts decoded string-literal text into architecture-specific
// bytes (ASCII for most back ends, a custom character set for others).
type EncodeStr func(string) ([]byte, error)

// ParseString parses a single- or double-quote delimited string, with
// backslash escaping of any character (including the delimiter itself),
// and returns it encoded to bytes via encode.
func ParseString(t string, encode EncodeStr) ([]byte, error) {
	if len(t) < 2 || t[0] != t[len(t)-1] {
		return nil, fmt.Errorf("could not parse %q as a delimited string", t)
	}
	inner := t[1 : len(t)-1]
	unescaped := unescape(inner)
	return encode(unescaped)
}

// unescape deletes every backslash that introduces an escape, keeping the
// character that follows it verbatim. A trailing, unpaired backslash is
// dropped silently, matching the original generator-based implementation.
func unescape(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' {
			if i+1 < len(runes) {
				b.WriteRune(runes[i+1])
				i++
			}
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// ParseInteger parses an integer literal. In addition to anything Python's
// int(text, base=0) would accept (0x123, 0o17, 0b101, plain decimal), these
// forms are recognized: '$13AC' (hex), '-3B2h' (hex), '1010b' (binary),
// '1755o'/'0644q' (octal), '-123d' (decimal), and a one-character string
// literal, whose byte value (per encode) is returned.
func ParseInteger(t string, encode EncodeStr) (int64, error) {
	if t == "" {
		return 0, fmt.Errorf("attempted to parse the empty string as an integer")
	}
	original := t

	if t[0] == '"' || t[0] == '\'' {
		b, err := ParseString(t, encode)
		if err != nil {
			return 0, err
		}
		if len(b) != 1 {
			return 0, fmt.Errorf("only one-character strings may be used as integer literals")
		}
		return int64(b[0]), nil
	}

	t = strings.ToLower(strings.TrimSpace(t))
	if strings.HasPrefix(t, "$") {
		t = t[1:] + "h"
	}

	sign := ""
	if t != "" && (t[0] == '+' || t[0] == '-') {
		sign = string(t[0])
		t = t[1:]
	}

	switch {
	case strings.HasSuffix(t, "h"):
		t = "0x" + t[:len(t)-1]
	case strings.HasSuffix(t, "b"):
		t = "0b" + t[:len(t)-1]
	case strings.HasSuffix(t, "o"):
		t = "0o" + t[:len(t)-1]
	case strings.HasSuffix(t, "q"):
		t = "0o" + t[:len(t)-1]
	case strings.HasSuffix(t, "d"):
		t = t[:len(t)-1]
	}

	v, err := parsePythonBase0(t)
	if err != nil {
		return 0, fmt.Errorf("malformed numeric text %q", original)
	}
	if sign == "-" {
		v = -v
	}
	return v, nil
}

// parsePythonBase0 mimics Python's int(text, base=0): it auto-detects a
// 0x/0o/0b prefix, and otherwise parses decimal, rejecting a leading zero
// on anything but an all-zero string (Python disallows ambiguous octal-
// looking decimal literals under base=0).
func parsePythonBase0(t string) (int64, error) {
	if t == "" {
		return 0, fmt.Errorf("empty numeric text")
	}
	lower := strings.ToLower(t)
	switch {
	case strings.HasPrefix(lower, "0x"):
		return strconv.ParseInt(lower[2:], 16, 64)
	case strings.HasPrefix(lower, "0o"):
		return strconv.ParseInt(lower[2:], 8, 64)
	case strings.HasPrefix(lower, "0b"):
		return strconv.ParseInt(lower[2:], 2, 64)
	default:
		if len(lower) > 1 && lower[0] == '0' && strings.Trim(lower, "0") != "" {
			return 0, fmt.Errorf("leading zero in decimal literal %q", t)
		}
		return strconv.ParseInt(lower, 10, 64)
	}
}
