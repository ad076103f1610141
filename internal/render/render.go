// Package render formats poems and excerpts as Markdown and HTML.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dgallion1/typeordie/internal/corpus"
)

var md = goldmark.New(
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Markdown builds a document with the book heading, the attribution, the
// section and poem title, and lines as one paragraph with a break after
// each line. A nil lines slice renders the whole poem.
func Markdown(book *corpus.Book, poem *corpus.Poem, lines []string) string {
	if lines == nil {
		lines = poem.Lines
	}

	var buf strings.Builder
	if book.Title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", escape(book.Title))
	}
	if book.Author != "" {
		fmt.Fprintf(&buf, "*by %s*\n\n", escape(book.Author))
	}
	fmt.Fprintf(&buf, "## %s\n\n", escape(poem.Section))
	fmt.Fprintf(&buf, "### %s\n\n", escape(poem.Title))

	for _, l := range lines {
		buf.WriteString(escape(l))
		buf.WriteByte('\n')
	}
	return buf.String()
}

// HTML converts Markdown from this package to an HTML fragment.
func HTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// PoemHTML renders lines of poem (or the whole poem when lines is nil).
func PoemHTML(book *corpus.Book, poem *corpus.Poem, lines []string) (string, error) {
	return HTML(Markdown(book, poem, lines))
}

// escape backslash-escapes ASCII punctuation so text is never read as
// Markdown syntax.
func escape(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isPunct(c) {
			buf.WriteByte('\\')
		}
		buf.WriteByte(c)
	}
	return buf.String()
}

func isPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}
