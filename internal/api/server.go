package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/typeordie/internal/config"
	"github.com/dgallion1/typeordie/internal/library"
	"github.com/dgallion1/typeordie/internal/round"
)

// Server is the HTTP API server for the anthology library and typing
// rounds.
type Server struct {
	router chi.Router
	lib    *library.Library
	rounds *round.Manager
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(lib *library.Library, rounds *round.Manager, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		lib:    lib,
		rounds: rounds,
		log:    log,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/books", s.handleListBooks)
		r.Get("/books/{bookID}/poems", s.handleListPoems)
		r.Get("/books/{bookID}/poems/{poemID}", s.handleGetPoem)
		r.Get("/excerpt", s.handleExcerpt)

		r.Get("/round", s.handleRound)
		r.Post("/round/next", s.handleNextRound)
		r.Post("/round/keys", s.handleKeys)
		r.Post("/round/forfeit", s.handleForfeit)
		r.Get("/round/ws", s.handleRoundWS)

		r.Get("/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
