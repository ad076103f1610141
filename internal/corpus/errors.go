package corpus

import "errors"

// Parse-time failures.
var (
	// ErrUnterminatedDelimiter means a {...} or [...] span was not closed
	// within the lookahead window.
	ErrUnterminatedDelimiter = errors.New("unterminated delimiter")
	// ErrMissingContext means a content line appeared before both a
	// section and a title were set.
	ErrMissingContext = errors.New("content line without section and title")
	// ErrInvalidCharacter means a content line contains a character outside
	// the whitelist.
	ErrInvalidCharacter = errors.New("invalid character")
)

// Load and selection failures.
var (
	ErrEmptyCorpus      = errors.New("empty corpus")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrWrapFailure      = errors.New("no space boundary within line width")
)
