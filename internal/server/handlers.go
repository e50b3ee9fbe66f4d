package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/lynxhire/internal/engine"
	"github.com/spigell/lynxhire/internal/insights"
	"github.com/spigell/lynxhire/internal/screening"
	"github.com/spigell/lynxhire/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

// candidateView is a record as served over HTTP.
type candidateView struct {
	engine.CandidateRecord
	Stale bool `json:"stale"`
}

type candidateResponse struct {
	Candidate candidateView    `json:"candidate"`
	Insights  insights.Report  `json:"insights"`
	Outlook   []insights.Phase `json:"outlook"`
}

type candidatePatch struct {
	Tags  *[]string `json:"tags"`
	Notes *string   `json:"notes"`
}

type shortlistResponse struct {
	Candidates []candidateView    `json:"candidates"`
	Filters    []screening.Status `json:"filters"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps session errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrCandidateNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNoJob):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, session.ErrEmptyDescription),
		errors.Is(err, session.ErrUnknownTag):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) view(c engine.CandidateRecord) candidateView {
	return candidateView{CandidateRecord: c, Stale: s.session.Stale(c)}
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"service":    "lynxhire",
		"version":    s.version,
		"lexicon":    s.session.Engine().Lexicon().Version(),
		"candidates": s.session.Candidates().Len(),
	})
}

func (s *Server) getJobHandler(w http.ResponseWriter, _ *http.Request) {
	job, ok := s.session.Job()
	if !ok {
		writeError(w, http.StatusNotFound, session.ErrNoJob.Error())
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) postJobHandler(w http.ResponseWriter, r *http.Request) {
	var in session.JobInput
	if !decode(w, r, &in) {
		return
	}

	job, err := s.session.AnalyzeJob(in)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.persist(r.Context())
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) listCandidatesHandler(w http.ResponseWriter, _ *http.Request) {
	cands := s.session.Candidates()
	out := make([]candidateView, 0, cands.Len())
	for _, c := range cands.Items {
		out = append(out, s.view(*c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) postCandidateHandler(w http.ResponseWriter, r *http.Request) {
	var in session.CandidateInput
	if !decode(w, r, &in) {
		return
	}

	c, err := s.session.AddCandidate(in)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.metrics.observeCandidate(c)
	s.metrics.candidates.Set(float64(s.session.Candidates().Len()))
	s.persist(r.Context())

	writeJSON(w, http.StatusCreated, candidateResponse{
		Candidate: s.view(c),
		Insights:  insights.For(&c),
		Outlook:   insights.Outlook(&c, ""),
	})
}

func (s *Server) getCandidateHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.session.Find(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, candidateResponse{
		Candidate: s.view(c),
		Insights:  insights.For(&c),
		Outlook:   insights.Outlook(&c, r.URL.Query().Get("focus")),
	})
}

func (s *Server) patchCandidateHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch candidatePatch
	if !decode(w, r, &patch) {
		return
	}
	if patch.Tags == nil && patch.Notes == nil {
		writeError(w, http.StatusBadRequest, "nothing to update: set tags or notes")
		return
	}

	c, err := s.session.Find(id)
	if patch.Tags != nil && err == nil {
		c, err = s.session.SetTags(id, *patch.Tags)
	}
	if patch.Notes != nil && err == nil {
		c, err = s.session.SetNotes(id, *patch.Notes)
	}
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	s.persist(r.Context())
	writeJSON(w, http.StatusOK, s.view(c))
}

func (s *Server) dashboardHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, insights.Pool(s.session.Candidates().Items))
}

func (s *Server) shortlistHandler(w http.ResponseWriter, r *http.Request) {
	deps := screening.Deps{Logger: s.logger, Stale: s.session.Stale}
	out, statuses, err := screening.Shortlist(r.Context(), &s.shortlist, deps, s.session.Candidates())
	if err != nil {
		s.logger.Error("shortlist failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := shortlistResponse{Candidates: make([]candidateView, 0, out.Len()), Filters: statuses}
	for _, c := range out.Items {
		resp.Candidates = append(resp.Candidates, s.view(*c))
	}
	writeJSON(w, http.StatusOK, resp)
}
