package handler

import (
	"context"
	"ir-portal/internal/data"
	"ir-portal/internal/middleware"
	"ir-portal/internal/service"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// crudService is the write and detail side every content service shares.
type crudService[T any, In any] interface {
	Get(ctx context.Context, id string, admin bool) (*T, error)
	Create(ctx context.Context, in In) (*T, error)
	Update(ctx context.Context, id string, in In) (*T, error)
	Delete(ctx context.Context, id string) error
}

// crud serves detail, create, update and delete for one resource.
type crud[T any, In any] struct {
	noun string
	svc  crudService[T, In]
}

func (h crud[T, In]) get(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	admin := middleware.GetUserInfo(r.Context()).IsAdmin()
	item, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), admin)
	if err != nil {
		return serviceError(err, h.noun)
	}
	return ok(w, item)
}

func (h crud[T, In]) create(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in In
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	item, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return serviceError(err, h.noun)
	}
	return created(w, item)
}

func (h crud[T, In]) update(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in In
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	item, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		return serviceError(err, h.noun)
	}
	return ok(w, item)
}

func (h crud[T, In]) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return serviceError(err, h.noun)
	}
	return message(w, h.noun+" deleted")
}

// mount registers the list handler and the crud routes under the current router.
func (h crud[T, In]) mount(r chi.Router, wrap func(middleware.AppHandler) http.Handler, list middleware.AppHandler) {
	r.Method(http.MethodGet, "/", wrap(list))
	r.Method(http.MethodPost, "/", wrap(h.create))
	r.Method(http.MethodGet, "/{id}", wrap(h.get))
	r.Method(http.MethodPut, "/{id}", wrap(h.update))
	r.Method(http.MethodDelete, "/{id}", wrap(h.delete))
}

// ContentHandler serves the JSON API of the seven content resources.
type ContentHandler struct {
	articles  *service.ArticleService
	analyses  *service.AnalysisService
	news      *service.NewsService
	podcasts  *service.PodcastService
	concepts  *service.ConceptService
	resources *service.ResourceService
	modules   *service.ModuleService
}

// ContentServices bundles the services ContentHandler needs.
type ContentServices struct {
	Articles  *service.ArticleService
	Analyses  *service.AnalysisService
	News      *service.NewsService
	Podcasts  *service.PodcastService
	Concepts  *service.ConceptService
	Resources *service.ResourceService
	Modules   *service.ModuleService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(s ContentServices) *ContentHandler {
	return &ContentHandler{
		articles:  s.Articles,
		analyses:  s.Analyses,
		news:      s.News,
		podcasts:  s.Podcasts,
		concepts:  s.Concepts,
		resources: s.Resources,
		modules:   s.Modules,
	}
}

// Routes mounts every resource under r, wrapping handlers with wrap.
func (h *ContentHandler) Routes(r chi.Router, wrap func(middleware.AppHandler) http.Handler) {
	r.Route("/articles", func(r chi.Router) {
		crud[data.Article, service.ArticleInput]{noun: "Article", svc: h.articles}.mount(r, wrap, h.listArticles)
	})
	r.Route("/analyses", func(r chi.Router) {
		crud[data.Analysis, service.AnalysisInput]{noun: "Analysis", svc: h.analyses}.mount(r, wrap, h.listAnalyses)
	})
	r.Route("/news", func(r chi.Router) {
		crud[data.NewsItem, service.NewsInput]{noun: "News item", svc: h.news}.mount(r, wrap, h.listNews)
	})
	r.Route("/podcasts", func(r chi.Router) {
		crud[data.Podcast, service.PodcastInput]{noun: "Podcast", svc: h.podcasts}.mount(r, wrap, h.listPodcasts)
	})
	r.Route("/concepts", func(r chi.Router) {
		r.Method(http.MethodGet, "/random", wrap(h.randomConcept))
		crud[data.Concept, service.ConceptInput]{noun: "Concept", svc: h.concepts}.mount(r, wrap, h.listConcepts)
	})
	r.Route("/resources", func(r chi.Router) {
		crud[data.Resource, service.ResourceInput]{noun: "Resource", svc: h.resources}.mount(r, wrap, h.listResources)
	})
	r.Route("/modules", func(r chi.Router) {
		crud[data.LearningModule, service.ModuleInput]{noun: "Module", svc: h.modules}.mount(r, wrap, h.listModules)
	})
}

func (h *ContentHandler) listArticles(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	lq, appErr := listQuery(r, service.DefaultArticlePageSize)
	if appErr != nil {
		return appErr
	}
	q := service.ArticleQuery{ListQuery: lq}
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest("year must be an integer")
		}
		q.Year = &year
	}
	page, err := h.articles.List(r.Context(), q)
	if err != nil {
		return serviceError(err, "Article")
	}
	return ok(w, page)
}

func (h *ContentHandler) listAnalyses(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	lq, appErr := listQuery(r, service.DefaultPageSize)
	if appErr != nil {
		return appErr
	}
	page, err := h.analyses.List(r.Context(), service.AnalysisQuery{ListQuery: lq, Category: r.URL.Query().Get("category")})
	if err != nil {
		return serviceError(err, "Analysis")
	}
	return ok(w, page)
}

func (h *ContentHandler) listNews(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	lq, appErr := listQuery(r, service.DefaultPageSize)
	if appErr != nil {
		return appErr
	}
	q := r.URL.Query()
	page, err := h.news.List(r.Context(), service.NewsQuery{ListQuery: lq, Region: q.Get("region"), Category: q.Get("category")})
	if err != nil {
		return serviceError(err, "News item")
	}
	return ok(w, page)
}

func (h *ContentHandler) listPodcasts(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	lq, appErr := listQuery(r, service.DefaultPageSize)
	if appErr != nil {
		return appErr
	}
	featured, appErr := boolParam(r.URL.Query(), "featured")
	if appErr != nil {
		return appErr
	}
	q := service.PodcastQuery{ListQuery: lq, Topic: r.URL.Query().Get("topic"), FeaturedOnly: featured != nil && *featured}
	page, err := h.podcasts.List(r.Context(), q)
	if err != nil {
		return serviceError(err, "Podcast")
	}
	return ok(w, page)
}

func (h *ContentHandler) listConcepts(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if r.URL.Query().Get("random") == "true" {
		return h.randomConcept(w, r)
	}
	lq, appErr := listQuery(r, service.DefaultPageSize)
	if appErr != nil {
		return appErr
	}
	page, err := h.concepts.List(r.Context(), lq)
	if err != nil {
		return serviceError(err, "Concept")
	}
	return ok(w, page)
}

// randomConcept answers {"item": concept} with a null item when nothing matches.
func (h *ContentHandler) randomConcept(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	lq, appErr := listQuery(r, service.DefaultPageSize)
	if appErr != nil {
		return appErr
	}
	c, err := h.concepts.Random(r.Context(), lq)
	if err != nil {
		return serviceError(err, "Concept")
	}
	return ok(w, map[string]interface{}{"item": c})
}

func (h *ContentHandler) listResources(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	lq, appErr := listQuery(r, service.DefaultPageSize)
	if appErr != nil {
		return appErr
	}
	q := r.URL.Query()
	page, err := h.resources.List(r.Context(), service.ResourceQuery{ListQuery: lq, Type: q.Get("type"), RelatedTheory: q.Get("relatedTheory")})
	if err != nil {
		return serviceError(err, "Resource")
	}
	return ok(w, page)
}

func (h *ContentHandler) listModules(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	lq, appErr := listQuery(r, service.DefaultPageSize)
	if appErr != nil {
		return appErr
	}
	page, err := h.modules.List(r.Context(), lq)
	if err != nil {
		return serviceError(err, "Module")
	}
	return ok(w, page)
}
