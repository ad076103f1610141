package parser

import "strings"

// punctuation lists the ASCII punctuation allowed in content lines. Together
// with letters, digits and space this is exactly the range 0x20-0x7A.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`"

// allowedRune reports whether r may appear in a content line.
func allowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ':
		return true
	}
	return strings.ContainsRune(punctuation, r)
}

// firstInvalid returns the first rune in line that is not whitelisted, and
// false if every rune is allowed.
func firstInvalid(line string) (rune, bool) {
	for _, r := range line {
		if !allowedRune(r) {
			return r, true
		}
	}
	return 0, false
}
