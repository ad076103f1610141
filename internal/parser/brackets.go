package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dgallion1/typeordie/internal/corpus"
)

// maxLookahead is how many lines past the opener a closer may appear.
const maxLookahead = 10

type delimiter struct {
	open, close byte
}

// delimiters are processed in this order, each independently.
var delimiters = []delimiter{
	{'{', '}'},
	{'[', ']'},
}

// lineBuffer is the working copy of the input lines for one parse call.
// Stripping a span that crosses lines rewrites lines after the current one,
// so the parser reads from the buffer rather than from its input.
type lineBuffer struct {
	lines []string
}

func newLineBuffer(lines []string) *lineBuffer {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &lineBuffer{lines: cp}
}

// strip removes every delimited span that opens on line i.
func (b *lineBuffer) strip(i int) error {
	for _, d := range delimiters {
		for {
			line := b.lines[i]
			start := strings.IndexByte(line, d.open)
			if start < 0 {
				break
			}

			endLine, end, ok := b.findClose(i, start+1, d.close)
			if !ok {
				return &LineError{
					Line: i + 1,
					Text: line,
					Err:  fmt.Errorf("%w: %q", corpus.ErrUnterminatedDelimiter, d.open),
				}
			}

			prefix := strings.TrimRightFunc(line[:start], unicode.IsSpace)
			if endLine == i {
				b.lines[i] = strings.TrimSpace(prefix + line[end+1:])
				continue
			}

			b.lines[i] = prefix
			for j := i + 1; j < endLine; j++ {
				b.lines[j] = ""
			}
			last := b.lines[endLine]
			b.lines[endLine] = strings.TrimLeftFunc(last[end+1:], unicode.IsSpace)
		}
	}
	return nil
}

// findClose looks for c starting at byte offset from on line i, then on the
// following lines up to the lookahead limit.
func (b *lineBuffer) findClose(i, from int, c byte) (line, pos int, ok bool) {
	for j := i; j < len(b.lines) && j <= i+maxLookahead; j++ {
		s, offset := b.lines[j], 0
		if j == i {
			s, offset = s[from:], from
		}
		if k := strings.IndexByte(s, c); k >= 0 {
			return j, k + offset, true
		}
	}
	return 0, 0, false
}
