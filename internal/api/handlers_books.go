package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/typeordie/internal/corpus"
	"github.com/dgallion1/typeordie/internal/render"
)

type bookSummary struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Poems  int    `json:"poems"`
	Lines  int    `json:"lines"`
	Source string `json:"source,omitempty"`
	Digest string `json:"digest,omitempty"`
}

type poemSummary struct {
	ID      int    `json:"id"`
	Section string `json:"section"`
	Title   string `json:"title"`
	Lines   int    `json:"lines"`
}

// handleListBooks lists every loaded book.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books := s.lib.Books()
	out := make([]bookSummary, len(books))
	for i, b := range books {
		out[i] = bookSummary{
			ID:     i,
			Title:  b.Title,
			Author: b.Author,
			Poems:  len(b.Poems),
			Lines:  b.LineCount(),
			Source: b.Source,
			Digest: b.Digest,
		}
	}
	writeJSON(w, map[string]any{"books": out})
}

// handleListPoems lists the poems of one book.
func (s *Server) handleListPoems(w http.ResponseWriter, r *http.Request) {
	book, ok := s.bookParam(w, r)
	if !ok {
		return
	}
	out := make([]poemSummary, len(book.Poems))
	for i, p := range book.Poems {
		out[i] = poemSummary{ID: i, Section: p.Section, Title: p.Title, Lines: len(p.Lines)}
	}
	writeJSON(w, map[string]any{"title": book.Title, "poems": out})
}

// handleGetPoem returns one poem as JSON, or as HTML with ?format=html.
func (s *Server) handleGetPoem(w http.ResponseWriter, r *http.Request) {
	book, ok := s.bookParam(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "poemID"))
	if err != nil || id < 0 || id >= len(book.Poems) {
		jsonError(w, "poem not found", http.StatusNotFound)
		return
	}
	poem := book.Poems[id]

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, map[string]any{
			"book":    book.Title,
			"author":  book.Author,
			"section": poem.Section,
			"title":   poem.Title,
			"lines":   poem.Lines,
		})
	case "html":
		page, err := render.PoemHTML(book, poem, nil)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	default:
		jsonError(w, "format must be json or html", http.StatusBadRequest)
	}
}

func (s *Server) bookParam(w http.ResponseWriter, r *http.Request) (*corpus.Book, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "bookID"))
	if err != nil {
		jsonError(w, "book not found", http.StatusNotFound)
		return nil, false
	}
	book, ok := s.lib.Book(id)
	if !ok {
		jsonError(w, "book not found", http.StatusNotFound)
		return nil, false
	}
	return book, true
}
