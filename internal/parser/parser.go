// Package parser turns anthology text into a corpus.Book.
//
// The format is line oriented:
//
//	<head>
//	#Title: Title
//	#Author: Author
//	</head>
//	<book>
//	' comment
//	#Section
//	##Poem title
//	content lines...
//	</book>
//
// Lines outside the two tagged regions are ignored. Leading line numbers,
// {...} and [...] annotations (possibly spanning lines) are removed, and a
// fixed set of typographic characters is folded to ASCII before validation.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/typeordie/internal/corpus"
)

type state int

const (
	stateIdle state = iota
	stateHead
	stateBody
)

const (
	titlePrefix  = "#title:"
	authorPrefix = "#author:"
)

// poemKey identifies a poem while parsing. The index built from it is
// dropped once the Book is returned.
type poemKey struct {
	section, title string
}

type builder struct {
	book    *corpus.Book
	index   map[poemKey]int
	section string
	title   string
}

// ParseText parses a whole anthology held in memory.
func ParseText(text string) (*corpus.Book, error) {
	text = strings.ReplaceAll(text, "\r", "")
	return Parse(strings.Split(text, "\n"))
}

// ParseReader reads an anthology line by line and parses it.
func ParseReader(r io.Reader) (*corpus.Book, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read anthology: %w", err)
	}
	return Parse(lines)
}

// Parse runs the tag-driven state machine over lines. The input slice is
// not modified.
func Parse(lines []string) (*corpus.Book, error) {
	buf := newLineBuffer(lines)
	b := &builder{
		book:  &corpus.Book{},
		index: make(map[poemKey]int),
	}
	st := stateIdle

	for i := range buf.lines {
		line := strings.TrimSpace(buf.lines[i])
		if line == "" || strings.HasPrefix(line, "'") {
			continue
		}
		line = stripLineNumber(line)

		switch strings.ToLower(line) {
		case "<head>":
			st = stateHead
			continue
		case "<book>":
			st = stateBody
			continue
		case "</head>", "</book>":
			st = stateIdle
			continue
		}
		if st == stateIdle {
			continue
		}

		buf.lines[i] = Normalize(line)
		if err := buf.strip(i); err != nil {
			return nil, err
		}
		line = strings.TrimSpace(buf.lines[i])
		if line == "" {
			continue
		}

		switch st {
		case stateHead:
			b.header(line)
		case stateBody:
			if err := b.body(i+1, line); err != nil {
				return nil, err
			}
		}
	}

	if len(b.book.Poems) == 0 {
		return nil, fmt.Errorf("no poems parsed: %w", corpus.ErrEmptyCorpus)
	}
	return b.book, nil
}

func (b *builder) header(line string) {
	switch {
	case hasPrefixFold(line, titlePrefix):
		b.book.Title = strings.TrimSpace(line[len(titlePrefix):])
	case hasPrefixFold(line, authorPrefix):
		b.book.Author = strings.TrimSpace(line[len(authorPrefix):])
	}
}

func (b *builder) body(n int, line string) error {
	switch {
	case strings.HasPrefix(line, "##"):
		b.title = strings.TrimSpace(line[2:])
		return nil
	case strings.HasPrefix(line, "#"):
		b.section = strings.TrimSpace(line[1:])
		return nil
	}

	if b.section == "" || b.title == "" {
		return &LineError{Line: n, Text: line, Err: corpus.ErrMissingContext}
	}
	if r, bad := firstInvalid(line); bad {
		return &LineError{Line: n, Text: line, Err: fmt.Errorf("%w %q", corpus.ErrInvalidCharacter, r)}
	}

	p := b.poem()
	p.Lines = append(p.Lines, line)
	return nil
}

// poem returns the poem for the current (section, title), creating and
// appending it on first use.
func (b *builder) poem() *corpus.Poem {
	key := poemKey{section: b.section, title: b.title}
	if i, ok := b.index[key]; ok {
		return b.book.Poems[i]
	}
	p := &corpus.Poem{Section: b.section, Title: b.title}
	b.index[key] = len(b.book.Poems)
	b.book.Poems = append(b.book.Poems, p)
	return p
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
