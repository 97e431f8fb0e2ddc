// Package api serves the saved-articles endpoints and the rendered feed page.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/RobinCoderZhao/feedbridge/internal/saved"
)

// Server holds the dependencies for the HTTP surface.
type Server struct {
	saved  *saved.Store
	root   string
	logger *slog.Logger
}

// NewServer creates a Server serving static files from root and persisting
// saved articles in store.
func NewServer(store *saved.Store, root string) *Server {
	return &Server{
		saved:  store,
		root:   root,
		logger: slog.Default(),
	}
}

// Routes returns the configured http.Handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/saved", s.handleListSaved)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("DELETE /api/save", s.handleRemove)
	mux.HandleFunc("POST /api/saved/check", s.handleCheck)

	mux.Handle("/", http.FileServer(http.Dir(s.root)))

	return mux
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	articles, err := s.saved.List(r.Context())
	if err != nil {
		s.logger.Error("list saved articles failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load saved articles")
		return
	}
	if articles == nil {
		articles = []saved.Article{}
	}
	respondJSON(w, http.StatusOK, articles)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var a saved.Article
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if a.Link == "" || a.Title == "" {
		respondError(w, http.StatusBadRequest, "link and title are required")
		return
	}

	created, err := s.saved.Save(r.Context(), a)
	if err != nil {
		s.logger.Error("save article failed", "link", a.Link, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save article")
		return
	}

	msg := "Article already saved"
	if created {
		msg = "Article saved"
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Link string `json:"link"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Link == "" {
		respondError(w, http.StatusBadRequest, "link is required")
		return
	}

	if err := s.saved.Remove(r.Context(), req.Link); err != nil {
		s.logger.Error("remove article failed", "link", req.Link, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to remove article")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Article removed"})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Links []string `json:"links"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Links == nil {
		respondError(w, http.StatusBadRequest, "links array is required")
		return
	}

	found, err := s.saved.CheckLinks(r.Context(), req.Links)
	if err != nil {
		s.logger.Error("check saved links failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to check saved links")
		return
	}
	if found == nil {
		found = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"saved": found})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
