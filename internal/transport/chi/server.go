// Package chi exposes the catalog over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lifeswitch-cloud/catalogd/internal/domain"
	domcatalog "github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
	"github.com/lifeswitch-cloud/catalogd/internal/domain/match"
	"github.com/lifeswitch-cloud/catalogd/internal/metrics"
	cataloguc "github.com/lifeswitch-cloud/catalogd/internal/usecase/catalog"
	healthuc "github.com/lifeswitch-cloud/catalogd/internal/usecase/health"
	resolveuc "github.com/lifeswitch-cloud/catalogd/internal/usecase/resolve"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SearchDefaults are the configured fallbacks applied when a search
// request omits a parameter. Zero values defer to the request defaults.
type SearchDefaults struct {
	Limit    int
	MaxLimit int
	Locale   string
	MinScore float64
}

// Server routes HTTP requests to the resolve and curation services.
type Server struct {
	resolver      *resolveuc.Service
	catalog       *cataloguc.Service
	health        *healthuc.Service
	defaults      SearchDefaults
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	resolver *resolveuc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	defaults SearchDefaults,
	logger *zap.Logger,
) *Server {
	s := &Server{
		resolver: resolver,
		catalog:  catalog,
		health:   health,
		defaults: defaults,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidEntity, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidAlias, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, CodeStoreUnavailable),
	}
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/exercises/search", s.searchHandler(domcatalog.KindExercise))
		r.Get("/exercises", s.listHandler(domcatalog.KindExercise))
		r.Post("/exercises", s.CreateExercise)

		r.Get("/foods/search", s.searchHandler(domcatalog.KindFood))
		r.Get("/foods/by_barcode", s.FindFoodByBarcode)
		r.Get("/foods", s.listHandler(domcatalog.KindFood))
		r.Post("/foods", s.CreateFood)
		r.Post("/foods/{id}/approve", s.ApproveFood)

		r.Get("/entities/{id}", s.GetEntity)
		r.Get("/entities/{id}/aliases", s.ListAliases)
		r.Post("/entities/{id}/aliases", s.AddAlias)
		r.Post("/entities/{id}/deactivate", s.DeactivateEntity)
		r.Post("/entities/{id}/reactivate", s.ReactivateEntity)
	})
}

// searchHandler handles GET /{kind}s/search.
func (s *Server) searchHandler(kind domcatalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit := s.defaults.Limit
		if limit == 0 {
			limit = match.DefaultLimit
		}
		if raw := q.Get("limit"); raw != "" {
			var err error
			limit, err = strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, CodeValidationFailed, "limit must be an integer")
				return
			}
		}
		if s.defaults.MaxLimit > 0 && limit > s.defaults.MaxLimit {
			writeError(w, http.StatusBadRequest, CodeValidationFailed,
				"limit exceeds the configured maximum of "+strconv.Itoa(s.defaults.MaxLimit))
			return
		}
		minScore := s.defaults.MinScore
		if raw := q.Get("min_score"); raw != "" {
			var err error
			minScore, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, CodeValidationFailed, "min_score must be a number")
				return
			}
		}
		locale := q.Get("locale")
		if locale == "" {
			locale = s.defaults.Locale
		}

		req, err := match.NewRequest(q.Get("q"), locale, limit, minScore)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}

		start := time.Now()
		matches, err := s.resolver.Resolve(r.Context(), kind, &req)
		if err != nil {
			metrics.ResolveRequestsTotal.WithLabelValues(string(kind), "error").Inc()
			s.handleDomainError(w, err)
			return
		}
		metrics.ResolveRequestsTotal.WithLabelValues(string(kind), "ok").Inc()
		metrics.ResolveDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
		metrics.ResolveMatchesReturned.WithLabelValues(string(kind)).Observe(float64(len(matches)))
		if len(matches) == 0 {
			metrics.ResolveEmptyTotal.WithLabelValues(string(kind)).Inc()
		}

		items := make([]MatchItem, len(matches))
		for i := range matches {
			items[i] = matchToItem(&matches[i])
		}
		writeJSON(w, http.StatusOK, SearchResponse{
			Query: req.RawQuery(),
			Items: items,
			Total: len(items),
		})
	}
}

// listHandler handles GET /exercises and GET /foods.
func (s *Server) listHandler(kind domcatalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entities, err := s.catalog.List(r.Context(), kind)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		items := make([]EntityResponse, len(entities))
		for i := range entities {
			items[i] = entityToResponse(&entities[i])
		}
		writeJSON(w, http.StatusOK, EntityListResponse{Items: items, Total: len(items)})
	}
}

// CreateExercise handles POST /exercises.
func (s *Server) CreateExercise(w http.ResponseWriter, r *http.Request) {
	var req CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "name is required")
		return
	}

	e, err := s.catalog.CreateExercise(r.Context(), req.Name, exerciseInfoFromRequest(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entityToResponse(&e))
}

// CreateFood handles POST /foods.
func (s *Server) CreateFood(w http.ResponseWriter, r *http.Request) {
	var req CreateFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "name is required")
		return
	}

	f, err := s.catalog.CreateFood(r.Context(), req.Name, foodInfoFromRequest(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entityToResponse(&f))
}

// FindFoodByBarcode handles GET /foods/by_barcode.
func (s *Server) FindFoodByBarcode(w http.ResponseWriter, r *http.Request) {
	barcode := r.URL.Query().Get("barcode")
	if barcode == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "barcode is required")
		return
	}

	e, err := s.catalog.FindByBarcode(r.Context(), barcode)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToResponse(&e))
}

// GetEntity handles GET /entities/{id}.
func (s *Server) GetEntity(w http.ResponseWriter, r *http.Request) {
	e, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToResponse(&e))
}

// ListAliases handles GET /entities/{id}/aliases.
func (s *Server) ListAliases(w http.ResponseWriter, r *http.Request) {
	aliases, err := s.catalog.Aliases(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	items := make([]AliasResponse, len(aliases))
	for i := range aliases {
		items[i] = aliasToResponse(&aliases[i])
	}
	writeJSON(w, http.StatusOK, AliasListResponse{Items: items, Total: len(items)})
}

// AddAlias handles POST /entities/{id}/aliases.
func (s *Server) AddAlias(w http.ResponseWriter, r *http.Request) {
	var req AddAliasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "text is required")
		return
	}

	a, created, err := s.catalog.AddAlias(r.Context(), chi.URLParam(r, "id"), aliasParamsFromRequest(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, aliasToResponse(&a))
}

// DeactivateEntity handles POST /entities/{id}/deactivate.
func (s *Server) DeactivateEntity(w http.ResponseWriter, r *http.Request) {
	e, err := s.catalog.Deactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToResponse(&e))
}

// ReactivateEntity handles POST /entities/{id}/reactivate.
func (s *Server) ReactivateEntity(w http.ResponseWriter, r *http.Request) {
	e, err := s.catalog.Reactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToResponse(&e))
}

// ApproveFood handles POST /foods/{id}/approve.
func (s *Server) ApproveFood(w http.ResponseWriter, r *http.Request) {
	var req ApproveFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	public := true
	if req.IsPublic != nil {
		public = *req.IsPublic
	}

	e, err := s.catalog.Approve(r.Context(), chi.URLParam(r, "id"), public)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToResponse(&e))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidArgument,
		domain.ErrInvalidEntity,
		domain.ErrInvalidAlias,
		domain.ErrNotFound,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
