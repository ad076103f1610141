package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"progress": s.rounds.Stats(),
		"library":  s.lib.Stats(),
	})
}
