package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pthm/psgrade/internal/engine"
	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/features"
	"github.com/pthm/psgrade/internal/feedback"
	"github.com/pthm/psgrade/internal/filler"
	"github.com/pthm/psgrade/internal/logger"
	"github.com/pthm/psgrade/internal/store"
	"go.uber.org/zap"
)

// Error codes returned in {"error": ...} bodies
const (
	codeBadRequest  = "bad_request"
	codeTooShort    = "too_short"
	codeInvalidType = "invalid_evidence_type"
	codeNotFound    = "not_found"
	codeNoStore     = "store_disabled"
	codeInternal    = "internal"
)

type scoreRequest struct {
	Item   evidence.Item    `json:"item"`
	Target *evidence.Target `json:"target,omitempty"`
}

type rankRequest struct {
	Items  []evidence.Item  `json:"items"`
	Target *evidence.Target `json:"target,omitempty"`
}

type evaluateRequest struct {
	Text   string           `json:"text"`
	Items  []evidence.Item  `json:"items,omitempty"`
	Target *evidence.Target `json:"target,omitempty"`

	// User, when set and a store is configured, saves the result
	User string `json:"user,omitempty"`
}

type evaluateResponse struct {
	Report  *feedback.Report `json:"report"`
	Version int              `json:"version,omitempty"`
}

type liveRequest struct {
	Text string `json:"text"`
}

type liveResponse struct {
	Features features.FeatureSet `json:"features"`
	Penalty  float64             `json:"penalty"`
	Matches  []filler.Match      `json:"matches"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleScoreEvidence(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.engine.ValidateEvidence(req.Item); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeInvalidType, err)
		return
	}

	score := s.engine.ScoreEvidence(req.Item, req.Target)
	s.metrics.EvidenceTotal.WithLabelValues(score.Tier.String()).Inc()
	writeJSON(w, http.StatusOK, score)
}

func (s *Server) handleRankEvidence(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if !s.decode(w, r, &req) {
		return
	}

	ranked := s.engine.RankEvidence(req.Items, req.Target)
	for _, rk := range ranked {
		s.metrics.EvidenceTotal.WithLabelValues(rk.Score.Tier.String()).Inc()
	}
	if ranked == nil {
		ranked = []evidence.Ranked{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if !s.decode(w, r, &req) {
		return
	}

	report, err := s.engine.EvaluateStatement(req.Text, req.Items, req.Target)
	if errors.Is(err, engine.ErrTooShort) {
		writeError(w, http.StatusUnprocessableEntity, codeTooShort, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, err)
		return
	}

	s.metrics.EvaluationsTotal.WithLabelValues(report.Grade).Inc()
	s.metrics.OverallScore.Observe(report.Overall)

	resp := evaluateResponse{Report: report}
	if req.User != "" && s.store != nil {
		v, err := s.store.Save(r.Context(), req.User, req.Text, req.Target, report)
		if err != nil {
			logger.Named("server").Error("saving statement failed", zap.String("user", req.User), zap.Error(err))
			writeError(w, http.StatusInternalServerError, codeInternal, err)
			return
		}
		resp.Version = v.Version
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	var req liveRequest
	if !s.decode(w, r, &req) {
		return
	}

	fr := s.engine.AnalyzeFiller(req.Text)
	matches := fr.Matches
	if matches == nil {
		matches = []filler.Match{}
	}
	writeJSON(w, http.StatusOK, liveResponse{
		Features: s.engine.ExtractFeatures(req.Text),
		Penalty:  fr.Total,
		Matches:  matches,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, codeNoStore, errors.New("no statement store configured"))
		return
	}

	versions, err := s.store.History(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, err)
		return
	}
	if versions == nil {
		versions = []store.Version{}
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, codeNoStore, errors.New("no statement store configured"))
		return
	}

	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || version < 1 {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("invalid version %q", chi.URLParam(r, "version")))
		return
	}

	v, err := s.store.Get(r.Context(), chi.URLParam(r, "user"), version)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, codeNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// decode reads a JSON body into v, writing a 400 on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.BodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Named("server").Warn("writing response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{Error: code, Message: err.Error()})
}
