package worddiff

import (
	"fmt"
	"unicode/utf8"
)

// EscapeError is an invalid escape sequence at byte offset Pos of a
// configuration string.
type EscapeError struct {
	Pos int
	Msg string
}

func (e EscapeError) Error() string {
	return fmt.Sprintf("escape %d:%s", e.Pos, e.Msg)
}

// ParseEscapes resolves C-style backslash escapes. Besides the usual
// single character escapes it knows \xHH, octal \0oo, \uXXXX and
// \UXXXXXXXX. Unknown escapes stand for the escaped character itself.
func ParseEscapes(s string) (string, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		start := i
		if i++; i == len(s) {
			return "", EscapeError{start, "single backslash at end of string"}
		}
		switch c = s[i]; c {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'a':
			out = append(out, '\a')
		case 'v':
			out = append(out, '\v')
		case 'x':
			v, n := hexValue(s[i+1:], 2)
			if n == 0 {
				return "", EscapeError{start, "invalid hexadecimal escape sequence"}
			}
			out = append(out, byte(v))
			i += n
		case '0', '1', '2':
			v := int(c - '0')
			n := 0
			for n < 2 && i+1+n < len(s) && '0' <= s[i+1+n] && s[i+1+n] <= '7' {
				v = v*8 + int(s[i+1+n]-'0')
				n++
			}
			out = append(out, byte(v))
			i += n
		case 'u', 'U':
			digits := 4
			if c == 'U' {
				digits = 8
			}
			v, n := hexValue(s[i+1:], digits)
			switch {
			case n < digits:
				return "", EscapeError{start, "too short unicode escape"}
			case v > utf8.MaxRune:
				return "", EscapeError{start, "unicode escape out of range"}
			case 0xd800 <= v && v <= 0xdfff:
				return "", EscapeError{start, "unicode escape is a surrogate"}
			}
			out = utf8.AppendRune(out, rune(v))
			i += n
		default:
			out = append(out, c)
		}
	}
	return string(out), nil
}

func hexValue(s string, digits int) (v uint64, n int) {
	for n < digits && n < len(s) {
		var d byte
		switch c := s[n]; {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'a' <= c && c <= 'f':
			d = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			d = c - 'A' + 10
		default:
			return v, n
		}
		v = v*16 + uint64(d)
		n++
	}
	return v, n
}
