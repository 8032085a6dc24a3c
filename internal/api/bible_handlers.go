package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	domainerrors "github.com/sanctumapp/sanctum-server/internal/errors"
	"github.com/sanctumapp/sanctum-server/internal/http/response"
)

type initializeSessionRequest struct {
	Version string `json:"version" validate:"omitempty,oneof=NLT KJV"`
}

type getChapterRequest struct {
	Book    string `json:"book" validate:"required,max=40"`
	Chapter int    `json:"chapter" validate:"required,gte=1,lte=150"`
	Version string `json:"version" validate:"omitempty,oneof=NLT KJV"`
}

type searchBibleRequest struct {
	Query   string `json:"q" validate:"required,min=2,max=200"`
	Version string `json:"version" validate:"omitempty,oneof=NLT KJV"`
}

// handleInitializeSession warms the session cache from the persistent store.
// POST /api/v1/bible/session/initialize?version=NLT
func (s *Server) handleInitializeSession(w http.ResponseWriter, r *http.Request) {
	req := initializeSessionRequest{
		Version: r.URL.Query().Get("version"),
	}
	if err := s.validator.Validate(req); err != nil {
		s.writeValidationError(w, err)
		return
	}

	info, err := s.sessions.InitializeSession(r.Context(), req.Version)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, info, s.logger)
}

// handleGetChapter serves one chapter, cache-first with compliance-gated
// fetching. GET /api/v1/bible/chapter/{book}/{chapter}?version=NLT
func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	chapterNumber, err := strconv.Atoi(chi.URLParam(r, "chapter"))
	if err != nil {
		response.BadRequest(w, "chapter must be a number", s.logger)
		return
	}

	req := getChapterRequest{
		Book:    chi.URLParam(r, "book"),
		Chapter: chapterNumber,
		Version: r.URL.Query().Get("version"),
	}
	if err := s.validator.Validate(req); err != nil {
		s.writeValidationError(w, err)
		return
	}

	result := s.sessions.GetChapter(r.Context(), req.Book, req.Chapter, req.Version)
	switch {
	case result.Success:
		response.Success(w, result, s.logger)
	case strings.HasPrefix(result.Error, "Chapter not found"):
		response.JSON(w, http.StatusNotFound, result, s.logger)
	case strings.HasPrefix(result.Error, "Personal use limit reached"):
		// A blocked fetch is a designed outcome, not a server fault.
		response.JSON(w, http.StatusOK, result, s.logger)
	default:
		response.JSON(w, http.StatusInternalServerError, result, s.logger)
	}
}

// handleSearch searches verse content.
// GET /api/v1/bible/search?q=grace&version=NLT&cached_only=true
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req := searchBibleRequest{
		Query:   r.URL.Query().Get("q"),
		Version: r.URL.Query().Get("version"),
	}
	if err := s.validator.Validate(req); err != nil {
		s.writeValidationError(w, err)
		return
	}

	cachedOnly := false
	if raw := r.URL.Query().Get("cached_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "cached_only must be a boolean", s.logger)
			return
		}
		cachedOnly = parsed
	}

	result := s.sessions.SearchBible(r.Context(), req.Query, req.Version, cachedOnly)
	if result.Success {
		response.Success(w, result, s.logger)
		return
	}
	response.JSON(w, http.StatusInternalServerError, result, s.logger)
}

// handleNavigation returns the canon grouped by testament.
// GET /api/v1/bible/navigation
func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	nav, err := s.sessions.NavigationData(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, nav, s.logger)
}

// handleStats returns usage statistics with session cache sizes.
// GET /api/v1/bible/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.sessions.UsageStatistics(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, stats, s.logger)
}

// handleCompliance returns the current compliance ledger snapshot.
// GET /api/v1/bible/compliance
func (s *Server) handleCompliance(w http.ResponseWriter, r *http.Request) {
	compliance, err := s.store.ComplianceStatus(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, compliance, s.logger)
}

// writeValidationError maps domain validation errors to HTTP responses.
func (s *Server) writeValidationError(w http.ResponseWriter, err error) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		response.Error(w, domainErr.HTTPStatus(), domainErr.Message, s.logger)
		return
	}
	response.BadRequest(w, err.Error(), s.logger)
}
