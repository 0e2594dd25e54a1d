package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// QuickSearches are the canned queries offered in the UI sidebar for the
// issues support engineers hit most often.
var QuickSearches = []string{
	"Printer not printing receipts",
	"Customer charged twice",
	"Employee already clocked in",
	"Order won't close",
	"Menu item showing wrong price",
	"Cash drawer over/short",
}

type askRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type askSource struct {
	Path          string  `json:"path"`
	Relevance     string  `json:"relevance"`
	SimilarityPct float64 `json:"similarity_pct"`
}

type askResponse struct {
	SessionID          string      `json:"session_id"`
	Answer             string      `json:"answer,omitempty"`
	Question           string      `json:"question,omitempty"`
	NeedsClarification bool        `json:"needs_clarification"`
	LowConfidence      bool        `json:"low_confidence"`
	Sources            []askSource `json:"sources,omitempty"`
}

type feedbackRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
	Answer    string `json:"answer"`
	Helpful   bool   `json:"helpful"`
	Comment   string `json:"comment"`
}

func (s *Server) registerRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/ask", s.handleAsk)
		r.Get("/quick-searches", s.handleQuickSearches)
		if s.feedback != nil {
			r.Post("/feedback", s.handleFeedback)
			r.Get("/feedback", s.handleRecentFeedback)
		}
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = s.engine.NewSessionID()
	}

	res, err := s.engine.Handle(r.Context(), req.SessionID, req.Message)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := askResponse{
		SessionID:          req.SessionID,
		Answer:             res.Answer,
		Question:           res.Question,
		NeedsClarification: res.NeedsClarification,
		LowConfidence:      res.LowConfidence,
	}
	for _, c := range res.Chunks {
		resp.Sources = append(resp.Sources, askSource{
			Path:          c.Chunk.Source,
			Relevance:     c.RelevanceLabel(),
			SimilarityPct: c.SimilarityPct(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuickSearches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"searches": QuickSearches})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" || req.Answer == "" {
		http.Error(w, "query and answer are required", http.StatusBadRequest)
		return
	}

	id, err := s.feedback.Record(r.Context(), req.SessionID, req.Query, req.Answer, req.Helpful, req.Comment)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleRecentFeedback(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := s.feedback.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
