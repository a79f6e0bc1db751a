package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// CapabilitiesResponse describes what a search request can ask for
// @Description Search capabilities
type CapabilitiesResponse struct {
	Sources           []domain.Source `json:"sources"`
	DefaultSources    []domain.Source `json:"default_sources"`
	SemanticAvailable bool            `json:"semantic_available"`
	EmbeddingModel    string          `json:"embedding_model,omitempty"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks database and cache connections)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", "dependency", "postgres", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", "dependency", "redis", "error", err)
			writeError(w, http.StatusServiceUnavailable, "cache unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Search endpoints

// searchRequest is the JSON body of a federated search.
// Organization and user always come from the token.
type searchRequest struct {
	Query             string   `json:"query"`
	Sources           []string `json:"sources,omitempty"`
	ContentTypes      []string `json:"content_types,omitempty"`
	KBSpaceIDs        []string `json:"kb_space_ids,omitempty"`
	Limit             int      `json:"limit,omitempty"`
	Offset            int      `json:"offset,omitempty"`
	MinScore          float64  `json:"min_score,omitempty"`
	SemanticSearch    *bool    `json:"semantic_search,omitempty"` // defaults to true
	IncludeConnectors bool     `json:"include_connectors,omitempty"`
}

func (req searchRequest) params(auth *domain.AuthContext) domain.FederatedSearchParams {
	p := domain.FederatedSearchParams{
		Query:             req.Query,
		ContentTypes:      req.ContentTypes,
		KBSpaceIDs:        req.KBSpaceIDs,
		Limit:             req.Limit,
		Offset:            req.Offset,
		MinScore:          req.MinScore,
		SemanticSearch:    req.SemanticSearch == nil || *req.SemanticSearch,
		IncludeConnectors: req.IncludeConnectors,
	}
	for _, src := range req.Sources {
		if src = strings.TrimSpace(src); src != "" {
			p.Sources = append(p.Sources, domain.Source(strings.ToLower(src)))
		}
	}
	if auth != nil {
		p.OrganizationID = auth.OrganizationID
		p.UserID = auth.UserID
	}
	return p
}

// handleSearch godoc
// @Summary      Federated search
// @Description  Search articles, knowledge items, news, the employee directory and connector items in one ranked list. Semantic ranking degrades to keyword-only when embeddings are unavailable.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      searchRequest  true  "Search query"
// @Success      200      {object}  domain.FederatedSearchResult
// @Failure      400      {object}  ErrorResponse  "Invalid request or missing query"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      500      {object}  ErrorResponse  "Search failed"
// @Router       /search [post]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.search(w, r, req)
}

// handleSearchQuery godoc
// @Summary      Federated search (query string)
// @Description  Same as POST /search with parameters in the query string. Lists are comma separated.
// @Tags         Search
// @Produce      json
// @Security     BearerAuth
// @Param        q                   query  string  true   "Search query"
// @Param        sources             query  string  false  "Comma separated sources"
// @Param        content_types       query  string  false  "Comma separated content types"
// @Param        kb_space_ids        query  string  false  "Comma separated knowledge space IDs"
// @Param        limit               query  int     false  "Page size"
// @Param        offset              query  int     false  "Page offset"
// @Param        min_score           query  number  false  "Minimum score"
// @Param        semantic            query  bool    false  "Semantic ranking (default true)"
// @Param        include_connectors  query  bool    false  "Include connector items"
// @Success      200  {object}  domain.FederatedSearchResult
// @Failure      400  {object}  ErrorResponse  "Invalid request or missing query"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      500  {object}  ErrorResponse  "Search failed"
// @Router       /search [get]
func (s *Server) handleSearchQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := searchRequest{
		Query:        q.Get("q"),
		Sources:      splitList(q.Get("sources")),
		ContentTypes: splitList(q.Get("content_types")),
		KBSpaceIDs:   splitList(q.Get("kb_space_ids")),
	}

	var err error
	if req.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if req.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	if v := q.Get("min_score"); v != "" {
		if req.MinScore, err = strconv.ParseFloat(v, 64); err != nil {
			writeError(w, http.StatusBadRequest, "invalid min_score")
			return
		}
	}
	if v := q.Get("semantic"); v != "" {
		semantic, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid semantic")
			return
		}
		req.SemanticSearch = &semantic
	}
	if v := q.Get("include_connectors"); v != "" {
		if req.IncludeConnectors, err = strconv.ParseBool(v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid include_connectors")
			return
		}
	}

	s.search(w, r, req)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, req searchRequest) {
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := s.searchService.Search(r.Context(), req.params(GetAuthContext(r.Context())))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, context.Canceled):
			// client went away; nothing useful to write
		default:
			s.logger.Error("search failed", "request_id", RequestID(r.Context()), "error", err)
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleCapabilities godoc
// @Summary      Search capabilities
// @Description  Lists searchable sources and whether semantic ranking is currently available
// @Tags         Search
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  CapabilitiesResponse
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Router       /search/capabilities [get]
func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	resp := CapabilitiesResponse{
		Sources:        domain.AllSources(),
		DefaultSources: domain.DefaultSources(),
	}
	if s.services != nil {
		if emb := s.services.EmbeddingService(); emb != nil {
			resp.SemanticAvailable = true
			resp.EmbeddingModel = emb.Model()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Embedding settings endpoints

// handleGetEmbeddingSettings godoc
// @Summary      Get embedding settings
// @Description  Get the embedding provider configuration (admin only). API keys are masked.
// @Tags         Settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  driving.EmbeddingStatus
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      403  {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /settings/embedding [get]
func (s *Server) handleGetEmbeddingSettings(w http.ResponseWriter, r *http.Request) {
	status, err := s.settingsService.EmbeddingStatus(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get embedding settings")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleUpdateEmbeddingSettings godoc
// @Summary      Update embedding settings
// @Description  Update the embedding provider (admin only). This hot-reloads the embedding service; searches fall back to keyword-only while it is unavailable.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.UpdateEmbeddingRequest  true  "Embedding settings to update"
// @Success      200      {object}  driving.EmbeddingStatus
// @Failure      400      {object}  ErrorResponse  "Invalid configuration or unsupported provider"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /settings/embedding [put]
func (s *Server) handleUpdateEmbeddingSettings(w http.ResponseWriter, r *http.Request) {
	var req driving.UpdateEmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := s.settingsService.UpdateEmbedding(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidProvider):
			writeError(w, http.StatusBadRequest, "unsupported AI provider")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid embedding configuration")
		default:
			s.logger.Error("embedding settings update failed", "request_id", RequestID(r.Context()), "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update embedding settings")
		}
		return
	}

	if auth := GetAuthContext(r.Context()); auth != nil {
		s.logger.Info("embedding settings updated", "user_id", auth.UserID, "available", status.Available)
	}
	writeJSON(w, http.StatusOK, status)
}

// handleTestEmbedding godoc
// @Summary      Test embedding connection
// @Description  Health check the live embedding service (admin only)
// @Tags         Settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatusResponse
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      403  {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      503  {object}  ErrorResponse  "Embedding service unavailable"
// @Router       /settings/embedding/test [post]
func (s *Server) handleTestEmbedding(w http.ResponseWriter, r *http.Request) {
	if err := s.settingsService.TestConnection(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
