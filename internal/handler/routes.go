package handler

import (
	"ir-portal/internal/logger"
	"ir-portal/internal/middleware"
	"ir-portal/internal/session"
	"ir-portal/internal/upload"
	"ir-portal/internal/view"
	"ir-portal/web"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Content   *ContentHandler
	Discovery *DiscoveryHandler
	Favorites *FavoritesHandler
	Upload    *UploadHandler
	Auth      *AuthHandler
	Admin     *AdminHandler
	Seo       *SeoHandler
}

// NewRouter creates and configures a new chi router.
// JSON routes live under /api and report errors as JSON envelopes; admin pages render error.html.
func NewRouter(h Handlers, uploads *upload.Store, sm session.Manager, authz func(http.Handler) http.Handler,
	v *view.View, log logger.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)

	jsonWrap := middleware.JSONError(log)
	htmlWrap := middleware.HTMLError(log, v)

	// Public routes that need neither a session nor a policy check.
	r.Method(http.MethodGet, "/healthz", jsonWrap(h.Discovery.healthHandler))
	r.Get("/robots.txt", h.Seo.robotsHandler)
	r.Get("/sitemap.xml", h.Seo.sitemapHandler)
	r.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))
	r.Handle(upload.URLPrefix+"*", uploads.Handler())

	r.Group(func(r chi.Router) {
		r.Use(sm.LoadAndSave)
		r.Use(authz)

		r.Route("/api", func(r chi.Router) {
			h.Content.Routes(r, jsonWrap)

			r.Method(http.MethodGet, "/search", jsonWrap(h.Discovery.searchHandler))
			r.Method(http.MethodGet, "/tags/{tag}", jsonWrap(h.Discovery.tagHandler))
			r.Method(http.MethodGet, "/regions", jsonWrap(h.Discovery.regionsHandler))
			r.Method(http.MethodGet, "/taxonomy", jsonWrap(h.Discovery.taxonomyHandler))
			r.Method(http.MethodGet, "/stats", jsonWrap(h.Discovery.statsHandler))
			r.Method(http.MethodPost, "/upload", jsonWrap(h.Upload.uploadHandler))

			r.Route("/favorites", func(r chi.Router) {
				r.Method(http.MethodGet, "/", jsonWrap(h.Favorites.list))
				r.Method(http.MethodPost, "/", jsonWrap(h.Favorites.add))
				r.Method(http.MethodDelete, "/", jsonWrap(h.Favorites.clear))
				r.Method(http.MethodPost, "/toggle", jsonWrap(h.Favorites.toggle))
				r.Method(http.MethodDelete, "/{type}/{id}", jsonWrap(h.Favorites.remove))
			})

			r.Route("/auth", func(r chi.Router) {
				r.Method(http.MethodGet, "/session", jsonWrap(h.Auth.currentSession))
				r.Method(http.MethodPost, "/login", jsonWrap(h.Auth.login))
				r.Method(http.MethodPost, "/logout", jsonWrap(h.Auth.logout))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Method(http.MethodGet, "/", htmlWrap(h.Admin.dashboard))
			r.Method(http.MethodGet, "/login", htmlWrap(h.Admin.loginForm))
			r.Method(http.MethodPost, "/login", htmlWrap(h.Admin.login))
			r.Method(http.MethodPost, "/logout", htmlWrap(h.Admin.logout))
			r.Method(http.MethodGet, "/{resource}", htmlWrap(h.Admin.table))
			r.Method(http.MethodPost, "/{resource}/{id}/delete", htmlWrap(h.Admin.deleteRow))
		})

		r.Method(http.MethodGet, "/auth/oidc/login", htmlWrap(h.Auth.oidcLogin))
		r.Method(http.MethodGet, "/auth/oidc/callback", htmlWrap(h.Auth.oidcCallback))
	})

	return r
}
