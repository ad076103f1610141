package parser

import "strings"

// substitutions is applied in order. The double-space collapse runs before
// the em-dash and underscore rules, so spaces those rules introduce are kept.
var substitutions = []struct{ from, to string }{
	{"’", "'"},
	{"‘", "'"},
	{"“", "\""},
	{"”", "\""},
	{"  ", " "},
	{"&mdash;", "-"},
	{"_", " "},
	{"è", "e"},
	{"á", "a"},
	{"ü", "u"},
	{"ē", "e"},
	{"é", "e"},
	{"æ", "a"},
}

// Normalize applies the fixed character substitution table to one line.
//
// The double-space rule is a single non-overlapping pass, so a run of four
// spaces becomes two and a run of three becomes two. Normalize is therefore
// not idempotent on such runs.
func Normalize(line string) string {
	for _, s := range substitutions {
		line = strings.ReplaceAll(line, s.from, s.to)
	}
	return line
}

// stripLineNumber removes a leading run of ASCII digits (line-number
// markers) and re-trims the remainder.
func stripLineNumber(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 {
		return line
	}
	return strings.TrimSpace(line[i:])
}
