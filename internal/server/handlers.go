package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/talentmatch/internal/matching"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/internal/skillgap"
	"github.com/hyperjump/talentmatch/internal/storage"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	candidate := req.Candidate.Profile()
	postings := models.PostingsFromRecords(req.Postings)
	s.logger.Debug("match request", zap.Int("postings", len(postings)), zap.Int("top_k", req.TopK))

	results := s.engine.Match(r.Context(), candidate, postings, req.TopK)
	s.respondJSON(w, http.StatusOK, models.MatchResponse{
		Matches:       models.Views(results),
		MissingSkills: s.skills.ForTopMatch(candidate.Skills, results),
	})
}

func (s *Server) handleMissingSkills(w http.ResponseWriter, r *http.Request) {
	var req models.SkillGapRequest
	if !s.decode(w, r, &req) {
		return
	}
	a := s.skills
	if req.Limit > 0 {
		a.Limit = req.Limit
	}
	s.respondJSON(w, http.StatusOK, map[string][]string{
		"missing_skills": a.Missing(req.Skills.String(), req.JobText),
	})
}

func (s *Server) handleCandidateMatch(w http.ResponseWriter, r *http.Request) {
	var req models.CandidateMatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.records == nil || s.jobs == nil {
		s.respondError(w, http.StatusServiceUnavailable, "candidate matching is not configured")
		return
	}
	flow := &matching.CandidateFlow{
		Ranker:  s.engine,
		Records: s.records,
		Jobs:    s.jobs,
		Skills:  s.skills,
		Sheet:   s.config.Storage.CandidatesSheet,
		TopK:    s.config.Matching.TopK,
		Logger:  s.logger,
	}
	resp, err := flow.MatchByEmail(r.Context(), req.Email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "candidate not found")
	case errors.Is(err, matching.ErrJobSearch):
		s.logger.Error("job search failed", zap.String("email", req.Email), zap.Error(err))
		s.respondError(w, http.StatusBadGateway, "job search failed")
	case err != nil:
		s.logger.Error("candidate lookup failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "candidate lookup failed")
	default:
		s.respondJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleJobCandidates(w http.ResponseWriter, r *http.Request) {
	var req models.JobCandidatesRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.records == nil {
		s.respondError(w, http.StatusServiceUnavailable, "candidate store is not configured")
		return
	}
	records, err := s.records.Records(r.Context(), s.config.Storage.CandidatesSheet)
	if err != nil {
		s.logger.Error("reading candidates failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "reading candidates failed")
		return
	}
	candidates := make([]models.CandidateProfile, len(records))
	for i, rec := range records {
		candidates[i] = models.CandidateFromRecord(rec)
	}
	ranked := skillgap.RankCandidates(req.Skills, candidates)
	if req.Limit > 0 && len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}
	if ranked == nil {
		ranked = []skillgap.CandidateScore{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"candidates": ranked})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cfg := s.config
	resp := map[string]interface{}{
		"embedding": map[string]interface{}{
			"provider":   cfg.Embedding.Provider,
			"model":      cfg.Embedding.Model,
			"dimensions": cfg.Embedding.Dimensions,
		},
		"geocoding": map[string]interface{}{
			"provider": cfg.Geocoding.Provider,
		},
		"matching": map[string]interface{}{
			"top_k":         cfg.Matching.TopK,
			"workers":       cfg.Matching.Workers,
			"penalty_curve": cfg.Matching.Penalty.Curve,
		},
		"job_search_configured": s.jobs != nil,
		"workbook_path":         cfg.Storage.WorkbookPath,
	}
	if s.embeddings != nil {
		n, err := s.embeddings.CountEmbeddings(r.Context())
		if err != nil {
			s.logger.Error("status: count embeddings failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["stored_embeddings"] = n
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
