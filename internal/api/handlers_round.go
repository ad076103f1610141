package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/dgallion1/typeordie/internal/corpus"
)

// maxKeysBody caps the body of a keys request.
const maxKeysBody = 64 << 10

// handleExcerpt draws a stateless excerpt from a random poem. The budgets
// default to the round settings.
func (s *Server) handleExcerpt(w http.ResponseWriter, r *http.Request) {
	maxChars, ok := intQuery(w, r, "max_chars", s.cfg.Round.MaxChars)
	if !ok {
		return
	}
	perLine, ok := intQuery(w, r, "max_chars_per_line", s.cfg.Round.MaxCharsPerLine)
	if !ok {
		return
	}

	book, err := s.lib.RandomBook()
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	poem, err := s.lib.RandomPoem(book)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	lines, err := s.lib.Excerpt(poem, maxChars, perLine)
	if err != nil {
		s.log.Warn("excerpt failed", "book", book.Title, "poem", poem.Title, "error", err)
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, excerptResponse(book, poem, lines))
}

func excerptResponse(book *corpus.Book, poem *corpus.Poem, lines []string) map[string]any {
	return map[string]any{
		"book":    book.Title,
		"author":  book.Author,
		"section": poem.Section,
		"title":   poem.Title,
		"lines":   lines,
	}
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.rounds.Snapshot())
}

func (s *Server) handleNextRound(w http.ResponseWriter, r *http.Request) {
	snap, err := s.rounds.Next()
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, snap)
}

// handleKeys applies the request body to the round one character at a time.
func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxKeysBody))
	if err != nil {
		jsonError(w, "read body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	if len(body) == 0 {
		jsonError(w, "body must contain the typed keys", http.StatusBadRequest)
		return
	}

	snap, err := s.rounds.Keys(string(body))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, snap)
}

func (s *Server) handleForfeit(w http.ResponseWriter, r *http.Request) {
	snap, err := s.rounds.Forfeit()
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, snap)
}

func intQuery(w http.ResponseWriter, r *http.Request, key string, fallback int) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		jsonError(w, key+" must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
