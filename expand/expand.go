package expand

import (
	"strconv"
	"strings"
)

// isNameByte reports whether b can appear in a $NAME variable
// reference: alphanumerics and underscore.
func isNameByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// Literal performs one-pass, non-recursive expansion: arithmetic
// "$(( ... ))", literal pass-through for "$( ... )" command
// substitution, "$NAME" (and the $? $# $* $@ specials), and a leading
// "~". Any other character is copied verbatim. A variable's own value
// is never re-expanded.
func Literal(cfg *Config, s string) (string, error) {
	var sb strings.Builder
	i := 0
	n := len(s)

	if strings.HasPrefix(s, "~") && (n == 1 || s[1] == '/') {
		home := cfg.get("HOME")
		if home != "" {
			sb.WriteString(home)
			i = 1
		}
	}

	for i < n {
		c := s[i]
		if c != '$' {
			sb.WriteByte(c)
			i++
			continue
		}
		// "$(( expr ))" arithmetic
		if strings.HasPrefix(s[i:], "$((") {
			end := matchingClose(s, i+3, 2)
			if end < 0 {
				sb.WriteString(s[i:])
				break
			}
			inner := s[i+3 : end-1] // strip the two leading/trailing parens
			val, err := Arithm(cfg, inner)
			if err != nil {
				return "", err
			}
			sb.WriteString(strconv.FormatInt(val, 10))
			i = end + 1
			continue
		}
		// "$( cmd )" command substitution: preserved verbatim, never
		// evaluated by the core.
		if strings.HasPrefix(s[i:], "$(") {
			end := matchingClose(s, i+2, 1)
			if end < 0 {
				sb.WriteString(s[i:])
				break
			}
			sb.WriteString(s[i : end+1])
			i = end + 1
			continue
		}
		// specials and $NAME
		if i+1 < n && (s[i+1] == '?' || s[i+1] == '#' || s[i+1] == '*' || s[i+1] == '@') {
			sb.WriteString(cfg.get(string(s[i+1])))
			i += 2
			continue
		}
		j := i + 1
		for j < n && isNameByte(s[j]) {
			j++
		}
		if j == i+1 { // bare "$" with nothing recognizable following
			sb.WriteByte('$')
			i++
			continue
		}
		sb.WriteString(cfg.get(s[i+1 : j]))
		i = j
	}
	return sb.String(), nil
}

// matchingClose scans s starting at from with depth parens already
// open, and returns the index of the ')' that brings depth back to
// zero, or -1 if s ends first.
func matchingClose(s string, from, depth int) int {
	for k := from; k < len(s); k++ {
		switch s[k] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}
