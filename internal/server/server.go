package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"smite-parser/internal/constants"
	"smite-parser/internal/domain"
	"smite-parser/internal/middleware"
	"smite-parser/internal/repository"
	"smite-parser/internal/service"

	"github.com/rs/zerolog"
)

// Reports is the read side the HTTP API serves from.
type Reports interface {
	ListMatches(ctx context.Context) ([]domain.Match, error)
	GetMatch(ctx context.Context, matchID string) (*service.MatchDetail, error)
	Timeline(ctx context.Context, matchID string, f repository.TimelineFilter) ([]domain.TimelineEvent, error)
	ItemBuilds(ctx context.Context, matchID string) ([]service.PlayerBuild, error)
}

type ReportServer struct {
	reports Reports
	logger  zerolog.Logger
}

func NewReportServer(reports Reports, logger zerolog.Logger) *ReportServer {
	return &ReportServer{reports: reports, logger: logger}
}

func (s *ReportServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/matches", s.listMatches)
	mux.HandleFunc("GET /api/matches/{id}", s.getMatch)
	mux.HandleFunc("GET /api/matches/{id}/timeline", s.getTimeline)
	mux.HandleFunc("GET /api/matches/{id}/items", s.getItems)
	return mux
}

func (s *ReportServer) listMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.reports.ListMatches(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := make([]matchResponse, len(matches))
	for i, m := range matches {
		resp[i] = toMatchResponse(m)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *ReportServer) getMatch(w http.ResponseWriter, r *http.Request) {
	detail, err := s.reports.GetMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchDetailResponse(detail))
}

func (s *ReportServer) getTimeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.TimelineFilter{
		Category:  q.Get("category"),
		EventType: q.Get("type"),
	}

	if v := q.Get("min_importance"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < constants.MinImportance || n > constants.MaxImportance {
			s.badRequest(w, r, "min_importance must be an integer between 1 and 10")
			return
		}
		f.MinImportance = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.badRequest(w, r, "limit must be a positive integer")
			return
		}
		f.Limit = n
	}

	events, err := s.reports.Timeline(r.Context(), r.PathValue("id"), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimelineResponse(events))
}

func (s *ReportServer) getItems(w http.ResponseWriter, r *http.Request) {
	builds, err := s.reports.ItemBuilds(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBuildResponse(builds))
}

func (s *ReportServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	if errors.Is(err, repository.ErrNotFound) {
		status = http.StatusNotFound
		msg = "match not found"
	}

	log := s.logger
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		log = *l
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}

	writeJSON(w, status, errorResponse{Error: msg, RequestID: middleware.GetRequestID(r.Context())})
}

func (s *ReportServer) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, RequestID: middleware.GetRequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
