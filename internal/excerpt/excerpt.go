// Package excerpt samples a bounded run of text from a poem and wraps it to
// a fixed display width.
package excerpt

import (
	"fmt"
	"strings"

	"github.com/dgallion1/typeordie/internal/corpus"
)

// Source supplies non-negative pseudo-random integers.
type Source interface {
	Int() int
}

// Config holds the two size budgets for an excerpt.
type Config struct {
	MaxChars        int // Total characters taken from the poem.
	MaxCharsPerLine int // Width of each display line.
}

// DefaultConfig returns the budgets used for a typing round.
func DefaultConfig() Config {
	return Config{
		MaxChars:        100,
		MaxCharsPerLine: 20,
	}
}

// Validate reports whether both budgets are positive.
func (c Config) Validate() error {
	if c.MaxChars <= 0 || c.MaxCharsPerLine <= 0 {
		return fmt.Errorf("%w: budgets must be positive (max_chars=%d, max_chars_per_line=%d)",
			corpus.ErrInvalidSelection, c.MaxChars, c.MaxCharsPerLine)
	}
	return nil
}

// Select picks a random contiguous run of roughly maxChars characters from
// poem and wraps it into lines of at most maxCharsPerLine characters.
//
// Lengths are byte counts; parsed content is ASCII so bytes and characters
// agree. The start line is drawn as rnd.Int() modulo the number of eligible
// lines, which slightly favours low indices when that number is not a power
// of two.
func Select(poem *corpus.Poem, maxChars, maxCharsPerLine int, rnd Source) ([]string, error) {
	if poem == nil || len(poem.Lines) == 0 {
		return nil, fmt.Errorf("%w: poem has no lines", corpus.ErrInvalidSelection)
	}
	if err := (Config{MaxChars: maxChars, MaxCharsPerLine: maxCharsPerLine}).Validate(); err != nil {
		return nil, err
	}

	start := startLine(poem.Lines, maxChars, rnd)

	var out []string
	budget := maxChars
	for i := start; budget > 0 && i < len(poem.Lines); i++ {
		text := poem.Lines[i]
		if len(text) > budget {
			// Last line: cut it down and stop.
			text = truncateAtWord(text, budget)
		}

		wrapped, err := Wrap(text, maxCharsPerLine)
		if err != nil {
			return nil, err
		}
		out = append(out, wrapped...)

		budget -= len(poem.Lines[i])
	}

	return out, nil
}

// startLine walks backwards from the end of the poem until the tail holds
// at least maxChars characters, then draws a start line before that point.
// Poems shorter than maxChars start at the top.
func startLine(lines []string, maxChars int, rnd Source) int {
	sum := 0
	for i := len(lines) - 1; i >= 0; i-- {
		sum += len(lines[i])
		if sum >= maxChars && i > 0 {
			return rnd.Int() % i
		}
	}
	return 0
}

// truncateAtWord shortens text to at most limit characters, cutting at the
// last space at or before limit. A first word longer than limit is kept
// whole.
func truncateAtWord(text string, limit int) string {
	if limit >= len(text) {
		return text
	}
	if i := strings.LastIndexByte(text[:limit+1], ' '); i > 0 {
		return strings.TrimRight(text[:i], " ")
	}
	end := limit
	for end < len(text) && text[end] != ' ' {
		end++
	}
	return text[:end]
}
