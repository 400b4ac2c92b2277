// Package server exposes the analysis pipeline over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/ppiankov/credibly/internal/media"
	"github.com/ppiankov/credibly/internal/model"
	"github.com/ppiankov/credibly/internal/pipeline"
	"github.com/ppiankov/credibly/internal/store"
)

// Server handles inbound analysis requests and result queries
type Server struct {
	analyzer *pipeline.Analyzer
	store    store.Store
	logger   zerolog.Logger

	// Aggregates for complete media are immutable apart from late-arriving
	// verification results, so a short TTL cache is safe.
	summaries *gocache.Cache

	httpServer *http.Server
}

// New creates a server bound to addr
func New(logger zerolog.Logger, analyzer *pipeline.Analyzer, s store.Store, addr string, summaryTTL, readTimeout, writeTimeout time.Duration) *Server {
	if summaryTTL <= 0 {
		summaryTTL = 5 * time.Minute
	}

	srv := &Server{
		analyzer:  analyzer,
		store:     s,
		logger:    logger.With().Str("component", "server").Logger(),
		summaries: gocache.New(summaryTTL, 10*time.Minute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", srv.handleAnalyze)
	mux.HandleFunc("GET /api/media", srv.handleGetMedia)
	mux.HandleFunc("GET /api/media/summary", srv.handleGetSummary)
	mux.HandleFunc("GET /api/creators/reputable", srv.handleReputableCreators)
	mux.HandleFunc("GET /ws", srv.handleWebSocket)

	srv.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	return srv
}

// ListenAndServe blocks serving requests until Shutdown
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type analyzeRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req.URL, req.Name)
	if err != nil {
		s.writeAnalysisError(w, req.URL, err)
		return
	}

	writeJSON(w, http.StatusOK, mediaReport(result))
}

func (s *Server) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	item, err := s.store.GetMediaByURL(r.Context(), url)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "unknown media url")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("media lookup failed")
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	claims, err := s.store.ListClaims(r.Context(), item.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("claim listing failed")
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	writeJSON(w, http.StatusOK, model.MediaReport{
		Name:     item.Name,
		URL:      item.URL,
		Complete: item.Complete,
		Content:  claims,
	})
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	if cached, ok := s.summaries.Get(url); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	item, err := s.store.GetMediaByURL(r.Context(), url)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "unknown media url")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("media lookup failed")
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	claims, err := s.store.ListClaims(r.Context(), item.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("claim listing failed")
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	report := model.SummaryReport{
		Summary:  pipeline.Summarize(claims),
		Contents: claims,
	}
	if item.Complete {
		s.summaries.SetDefault(url, report)
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReputableCreators(w http.ResponseWriter, r *http.Request) {
	standings, err := s.store.ListCreatorStandings(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("creator standings failed")
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"creators": standings})
}

func (s *Server) writeAnalysisError(w http.ResponseWriter, url string, err error) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, media.ErrSourceUnavailable):
		s.logger.Warn().Str("url", url).Err(err).Msg("source unavailable")
		writeError(w, http.StatusBadGateway, "source unavailable")
	default:
		s.logger.Error().Str("url", url).Err(err).Msg("analysis failed")
		writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}

func mediaReport(result *pipeline.Result) model.MediaReport {
	return model.MediaReport{
		Name:     result.Media.Name,
		URL:      result.Media.URL,
		Complete: result.Media.Complete,
		Content:  result.Claims,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
