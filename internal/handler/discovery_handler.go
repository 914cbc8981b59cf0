package handler

import (
	"ir-portal/internal/middleware"
	"ir-portal/internal/service"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// DiscoveryHandler serves the cross-resource endpoints: search, tags, regions, taxonomy and stats.
type DiscoveryHandler struct {
	search   *service.SearchService
	taxonomy *service.TaxonomyService
	stats    *service.StatsService
}

// NewDiscoveryHandler creates a new DiscoveryHandler.
func NewDiscoveryHandler(search *service.SearchService, taxonomy *service.TaxonomyService, stats *service.StatsService) *DiscoveryHandler {
	return &DiscoveryHandler{search: search, taxonomy: taxonomy, stats: stats}
}

// searchHandler fans q out over every resource. A bad limit falls back to the default.
func (h *DiscoveryHandler) searchHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(strings.TrimSpace(q.Get("limit")))
	res, err := h.search.Search(r.Context(), q.Get("q"), limit)
	if err != nil {
		return serviceError(err, "Result")
	}
	return ok(w, res)
}

func (h *DiscoveryHandler) tagHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	res, err := h.search.ByTag(r.Context(), chi.URLParam(r, "tag"))
	if err != nil {
		return serviceError(err, "Tag")
	}
	return ok(w, res)
}

func (h *DiscoveryHandler) regionsHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	markers, err := h.taxonomy.Markers(r.Context())
	if err != nil {
		return serviceError(err, "Region")
	}
	return ok(w, markers)
}

func (h *DiscoveryHandler) taxonomyHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return ok(w, h.taxonomy.Taxonomy())
}

func (h *DiscoveryHandler) statsHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		return serviceError(err, "Stats")
	}
	return ok(w, stats)
}

// healthHandler reports whether the database answers.
func (h *DiscoveryHandler) healthHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.stats.Healthy(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Database unavailable", Code: http.StatusServiceUnavailable}
	}
	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
