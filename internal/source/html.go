package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor handles HTML files. The anthology markers are expected as
// escaped text (typically inside a <pre>), so only text content is kept.
// Block elements and <br> become line breaks, and em-dashes are written back
// as the "&mdash;" marker the parser folds to "-".
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(r io.Reader, filename string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html %s: %w", filename, err)
	}

	var buf strings.Builder
	newline := func() {
		s := buf.String()
		if len(s) > 0 && !strings.HasSuffix(s, "\n") {
			buf.WriteByte('\n')
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(strings.ReplaceAll(n.Data, "—", "&mdash;"))
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "nav", "title":
				return
			case "br":
				buf.WriteByte('\n')
				return
			}
		}

		block := n.Type == html.ElementNode && isBlock(n.Data)
		if block {
			newline()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			newline()
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return buf.String(), nil
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "tr", "td", "blockquote", "pre", "section", "article",
		"h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
