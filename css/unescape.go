package css

import "strconv"

// cssUnescape decodes CSS escape sequences in s: a backslash followed
// by 1-6 hex digits (optionally terminated by one whitespace
// character) becomes the named code point; a backslash immediately
// followed by a newline (a string's line-continuation) is dropped;
// a backslash followed by anything else is that character literally.
func cssUnescape(s string) string {
	hasBackslash := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			hasBackslash = true
			break
		}
	}
	if !hasBackslash {
		return s
	}

	out := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			out = append(out, c)
			i++
			continue
		}
		i++
		switch s[i] {
		case '\n':
			i++
		case '\r':
			i++
			if i < len(s) && s[i] == '\n' {
				i++
			}
		default:
			if isHexDigit(s[i]) {
				j := i
				for j < len(s) && j < i+6 && isHexDigit(s[j]) {
					j++
				}
				n, _ := strconv.ParseUint(s[i:j], 16, 32)
				out = appendRune(out, rune(n))
				i = j
				if i < len(s) && isCSSWhitespaceByte(s[i]) {
					i++
				}
			} else {
				out = append(out, s[i])
				i++
			}
		}
	}
	return string(out)
}

func appendRune(b []byte, r rune) []byte {
	var buf [4]byte
	n := copy(buf[:], string(r))
	return append(b, buf[:n]...)
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isHexDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}

func isCSSWhitespaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
