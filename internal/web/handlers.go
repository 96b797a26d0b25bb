package web

import (
	"encoding/json"
	"net/http"

	"ytmusicbot/internal/queue"
)

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Searches int            `json:"searches"`
	Tracks   int            `json:"tracks"`
	Cached   int            `json:"cached_audio"`
	Queue    queue.Snapshot `json:"queue"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.admission.Snapshot())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, StatsResponse{
		Searches: s.results.Len(),
		Tracks:   s.metadata.Len(),
		Cached:   s.artifacts.Len(),
		Queue:    s.admission.Snapshot(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
