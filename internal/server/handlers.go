package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type searchRequest struct {
	Question string `json:"question"`
}

type searchFragment struct {
	FragmentID string  `json:"fragment_id"`
	Source     string  `json:"source"`
	Ordinal    int     `json:"ordinal"`
	Score      float32 `json:"score"`
	Rank       int     `json:"rank"`
	Text       string  `json:"text"`
}

type searchResponse struct {
	Fragments []searchFragment `json:"fragments"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		s.writeError(w, r, http.StatusBadRequest, "question is required")
		return
	}

	ctxt, err := s.retriever.Retrieve(r.Context(), req.Question)
	if err != nil {
		s.log.Error("search failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		s.writeError(w, r, http.StatusBadGateway, "retrieval failed")
		return
	}

	resp := searchResponse{Fragments: []searchFragment{}}
	for _, res := range ctxt.Results {
		resp.Fragments = append(resp.Fragments, searchFragment{
			FragmentID: res.FragmentID,
			Source:     res.Metadata.Source,
			Ordinal:    res.Metadata.Ordinal,
			Score:      res.Score,
			Rank:       res.Rank,
			Text:       res.Text,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer      string   `json:"answer"`
	FragmentIDs []string `json:"fragment_ids"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		s.writeError(w, r, http.StatusBadRequest, "question is required")
		return
	}

	ctxt, err := s.retriever.Retrieve(r.Context(), req.Question)
	if err != nil {
		s.log.Error("retrieval failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		s.writeError(w, r, http.StatusBadGateway, "retrieval failed")
		return
	}

	answer, err := s.answerer.Ask(r.Context(), req.Question, ctxt)
	if err != nil {
		s.log.Error("generation failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		s.writeError(w, r, http.StatusBadGateway, "generation failed")
		return
	}

	ids := answer.FragmentIDs
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, askResponse{Answer: answer.Text, FragmentIDs: ids})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, _ *http.Request, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
