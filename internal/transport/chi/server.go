package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/glyphdex/glyphdex/internal/domain"
	"github.com/glyphdex/glyphdex/internal/domain/search/query"
	collectionuc "github.com/glyphdex/glyphdex/internal/usecase/collection"
	healthuc "github.com/glyphdex/glyphdex/internal/usecase/health"
	iconuc "github.com/glyphdex/glyphdex/internal/usecase/icon"
	searchuc "github.com/glyphdex/glyphdex/internal/usecase/search"
	usageuc "github.com/glyphdex/glyphdex/internal/usecase/usage"
)

// Server holds the HTTP handlers of the public API.
type Server struct {
	search        *searchuc.Service
	icons         *iconuc.Service
	collections   *collectionuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	icons *iconuc.Service,
	collections *collectionuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:      search,
		icons:       icons,
		collections: collections,
		usage:       usage,
		health:      health,
		logger:      logger,
	}
	// Order matters: specific handlers run before their plain sentinel.
	s.errorHandlers = []errorHandler{
		rateLimitHandler,
		noSearchableTermsHandler,
		sentinelHandler(domain.ErrInvalidParams, http.StatusBadRequest, CodeInvalidParams),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrAuthRequired, http.StatusUnauthorized, CodeAuthRequired),
		sentinelHandler(domain.ErrAuthInvalid, http.StatusUnauthorized, CodeAuthInvalid),
	}
	return s
}

// Register mounts all routes on the router. Auth and observability
// middleware are attached by the caller.
func (s *Server) Register(r gochi.Router) {
	r.Get("/health", s.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r gochi.Router) {
		r.Get("/search", s.Search)
		r.Get("/icons/{fullName}", s.GetIcon)
		r.Post("/icons/batch", s.BatchIcons)
		r.Get("/collections", s.ListCollections)
		r.Get("/collections/{prefix}", s.GetCollection)
		r.Get("/licenses", s.ListLicenses)
		r.Get("/categories", s.ListCategories)
		r.Get("/usage", s.Usage)
	})
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params := query.Params{
		Collection: r.URL.Query().Get("collection"),
		Category:   r.URL.Query().Get("category"),
		License:    r.URL.Query().Get("license"),
		Identity:   IdentityFromContext(r.Context()),
	}
	if q, ok := r.URL.Query()["q"]; ok {
		params.QuerySupplied = true
		if len(q) > 0 {
			params.Query = q[0]
		}
	}

	var err error
	if params.Limit, err = intParam(r, "limit"); err != nil {
		s.handleDomainError(w, err)
		return
	}
	if params.Offset, err = intParam(r, "offset"); err != nil {
		s.handleDomainError(w, err)
		return
	}

	req, err := query.New(params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponseFrom(resp.Results, resp.Page))
}

// GetIcon handles GET /api/v1/icons/{fullName}.
func (s *Server) GetIcon(w http.ResponseWriter, r *http.Request) {
	fullName := gochi.URLParam(r, "fullName")

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.handleDomainError(w, fmt.Errorf("%w: size must be an integer", domain.ErrInvalidParams))
			return
		}
		size = v
	}

	rendered, err := s.icons.Get(r.Context(), fullName, size)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, iconResponseFrom(rendered))
}

// BatchIcons handles POST /api/v1/icons/batch.
func (s *Server) BatchIcons(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidParams, "invalid request body: "+err.Error())
		return
	}

	items, err := s.icons.Batch(r.Context(), req.Names)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponseFrom(items))
}

// ListCollections handles GET /api/v1/collections.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.collections.List(
		r.Context(), r.URL.Query().Get("category"), r.URL.Query().Get("search"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]CollectionResponse, len(cols))
	for i, c := range cols {
		items[i] = collectionResponseFrom(c)
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": items})
}

// GetCollection handles GET /api/v1/collections/{prefix}.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	col, err := s.collections.Get(r.Context(), gochi.URLParam(r, "prefix"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, collectionResponseFrom(col))
}

// ListLicenses handles GET /api/v1/licenses.
func (s *Server) ListLicenses(w http.ResponseWriter, r *http.Request) {
	counts, err := s.collections.Licenses(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]LicenseCountResponse, len(counts))
	for i, lc := range counts {
		items[i] = licenseCountResponseFrom(lc)
	}
	writeJSON(w, http.StatusOK, map[string]any{"licenses": items})
}

// ListCategories handles GET /api/v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.collections.Categories(r.Context(), r.URL.Query().Get("collection"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// Usage handles GET /api/v1/usage.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	report, err := s.usage.Report(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usageResponseFrom(report))
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidParams, name)
	}
	return &v, nil
}
