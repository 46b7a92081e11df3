// Package v1 implements the native REST API.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/vmunix/streamcz/internal/catalog"
	"github.com/vmunix/streamcz/internal/events"
	"github.com/vmunix/streamcz/internal/hosting"
	"github.com/vmunix/streamcz/internal/library"
	"github.com/vmunix/streamcz/internal/player"
	"github.com/vmunix/streamcz/internal/scrape"
	"github.com/vmunix/streamcz/internal/service"
)

// Config holds API server configuration.
type Config struct {
	Version string
}

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	cfg  Config
}

// NewWithDeps creates a new v1 API server with explicit dependencies.
func NewWithDeps(deps ServerDeps, cfg Config) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Server{deps: deps, cfg: cfg}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Catalog
	mux.HandleFunc("GET /api/v1/titles", s.searchTitles)
	mux.HandleFunc("GET /api/v1/titles/{id}", s.getTitle)
	mux.HandleFunc("GET /api/v1/titles/{id}/series", s.listSeries)
	mux.HandleFunc("GET /api/v1/series/{id}/episodes", s.listEpisodes)

	// Sources & streams
	mux.HandleFunc("GET /api/v1/sources", s.findSources)
	mux.HandleFunc("GET /api/v1/streams/{path...}", s.resolveStream)

	// History
	mux.HandleFunc("GET /api/v1/history", s.listHistory)
	mux.HandleFunc("POST /api/v1/history", s.bindHistory)
	mux.HandleFunc("PATCH /api/v1/history/{id}", s.advanceHistory)

	// Player
	mux.HandleFunc("GET /api/v1/player/{id}", s.requirePlayer(s.getSession))
	mux.HandleFunc("POST /api/v1/player/{id}/query", s.requirePlayer(s.changeQuery))
	mux.HandleFunc("POST /api/v1/player/{id}/episode", s.requirePlayer(s.selectEpisode))

	// System
	mux.HandleFunc("GET /api/v1/events", s.requireEventLog(s.listEvents))
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError maps a service error onto a status code.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, hosting.ErrStreamNotFound):
		writeError(w, http.StatusNotFound, "STREAM_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, catalog.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, library.ErrDuplicate), errors.Is(err, library.ErrConstraint):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error())
	case scrape.IsFetchError(err):
		writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "TIMEOUT", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

// pathID extracts the integer "id" path parameter.
func pathID(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, errors.New("missing path parameter: id")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", idStr)
	}
	return id, nil
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryBool extracts an optional boolean flag; a bare "?refresh" counts as true.
func queryBool(r *http.Request, name string) bool {
	q := r.URL.Query()
	if !q.Has(name) {
		return false
	}
	val := q.Get(name)
	if val == "" {
		return true
	}
	b, _ := strconv.ParseBool(val)
	return b
}

func (s *Server) searchTitles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	titles, err := s.deps.Service.SearchTitles(r.Context(), query, queryBool(r, "refresh"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listTitlesResponse{Items: titles, Total: len(titles)})
}

func (s *Server) getTitle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	t, err := s.deps.Service.GetTitle(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, titleToResponse(t))
}

func (s *Server) listSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	series, err := s.deps.Service.GetSeries(r.Context(), id, queryBool(r, "refresh"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listSeriesResponse{Items: series, Total: len(series)})
}

func (s *Server) listEpisodes(w http.ResponseWriter, r *http.Request) {
	seriesID := strings.TrimSpace(r.PathValue("id"))
	if seriesID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "missing series id")
		return
	}

	episodes, err := s.deps.Service.GetEpisodes(r.Context(), seriesID, queryBool(r, "refresh"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listEpisodesResponse{Items: episodes, Total: len(episodes)})
}

func (s *Server) findSources(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "query parameter is required")
		return
	}

	sources, err := s.deps.Service.FindSources(r.Context(), query, queryInt(r, "year", 0), queryBool(r, "refresh"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listSourcesResponse{Items: sources, Total: len(sources)})
}

func (s *Server) resolveStream(w http.ResponseWriter, r *http.Request) {
	stream, err := s.deps.Service.ResolveStream(r.Context(), r.PathValue("path"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stream)
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.Service.History(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := listHistoryResponse{
		Items: make([]historyResponse, len(entries)),
		Total: len(entries),
	}
	for i, e := range entries {
		resp.Items[i] = historyToResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) bindHistory(w http.ResponseWriter, r *http.Request) {
	var req bindHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	entry, err := s.deps.Service.BindHistory(r.Context(), service.BindRequest{
		TitleID:     req.TitleID,
		TitleName:   req.TitleName,
		Position:    req.Position,
		SourceLink:  req.SourceLink,
		SourceTitle: req.SourceTitle,
		SeriesID:    req.SeriesID,
		Season:      req.Season,
		Episode:     req.Episode,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, historyToResponse(entry))
}

func (s *Server) advanceHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req advanceHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Position == nil {
		writeError(w, http.StatusBadRequest, "MISSING_POSITION", "position is required")
		return
	}

	res, err := s.deps.Service.AdvanceHistory(r.Context(), id, *req.Position, req.Force)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, advanceHistoryResponse{
		Entry:   historyToResponse(res.Entry),
		Skipped: res.Skipped,
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	sess, ok := s.deps.Sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No player session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) changeQuery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req playerQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "query is required")
		return
	}

	rev := s.deps.Sessions.SetQuery(id, query, req.Year)
	err = s.deps.Bus.Publish(r.Context(), &events.QueryChanged{
		BaseEvent: events.NewBaseEvent(events.EventPlayerQueryChanged, events.EntityTitle, events.TitleEntity(id)),
		TitleID:   id,
		Query:     query,
		Year:      req.Year,
		Refresh:   req.Refresh,
		Revision:  rev,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, playerChangeResponse{TitleID: id, Revision: rev, Query: query})
}

func (s *Server) selectEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req playerEpisodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	show := strings.TrimSpace(req.ShowTitle)
	if show == "" || req.Season <= 0 || req.Episode <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_EPISODE", "show_title, season and episode are required")
		return
	}

	query := service.EpisodeQuery(show, req.Season, req.Episode)
	rev := s.deps.Sessions.SelectEpisode(id, player.Episode{
		SeriesID: req.SeriesID,
		Season:   req.Season,
		Episode:  req.Episode,
	}, query)
	err = s.deps.Bus.Publish(r.Context(), &events.EpisodeSelected{
		BaseEvent: events.NewBaseEvent(events.EventPlayerEpisodeSelected, events.EntityTitle, events.TitleEntity(id)),
		TitleID:   id,
		ShowTitle: show,
		SeriesID:  req.SeriesID,
		Season:    req.Season,
		Episode:   req.Episode,
		Refresh:   req.Refresh,
		Revision:  rev,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, playerChangeResponse{TitleID: id, Revision: rev, Query: query})
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{Status: "ok", Version: s.cfg.Version}
	if s.deps.Sessions != nil {
		resp.Sessions = s.deps.Sessions.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}
