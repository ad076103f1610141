package excerpt

import (
	"fmt"
	"strings"

	"github.com/dgallion1/typeordie/internal/corpus"
)

// Wrap splits text into trimmed, non-empty lines of at most width
// characters. A line may only end at the end of text or next to a space;
// a word longer than width is an ErrWrapFailure.
func Wrap(text string, width int) ([]string, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: width must be positive, got %d", corpus.ErrInvalidSelection, width)
	}

	var out []string
	for idx := 0; idx < len(text); {
		n := min(width, len(text)-idx)
		for n > 0 && !isBreak(text, idx+n) {
			n--
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %q does not fit in %d columns", corpus.ErrWrapFailure, text[idx:], width)
		}

		if chunk := strings.TrimSpace(text[idx : idx+n]); chunk != "" {
			out = append(out, chunk)
		}
		idx += n
	}
	return out, nil
}

// isBreak reports whether text may be cut just before position end.
func isBreak(text string, end int) bool {
	return end == len(text) || text[end-1] == ' ' || text[end] == ' '
}
