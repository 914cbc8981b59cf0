package main

import (
	"context"
	"errors"
	"fmt"
	"ir-portal/internal/auth"
	"ir-portal/internal/cache"
	"ir-portal/internal/config"
	"ir-portal/internal/data"
	"ir-portal/internal/favorites"
	"ir-portal/internal/handler"
	"ir-portal/internal/logger"
	"ir-portal/internal/middleware"
	"ir-portal/internal/service"
	"ir-portal/internal/session"
	"ir-portal/internal/upload"
	"ir-portal/internal/view"
	"ir-portal/web"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
	"github.com/spf13/afero"
)

const cachePurgeInterval = 10 * time.Minute

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, nil)

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB.DSN, "migrations"); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Session Management Setup ---
	sessionManager := session.New(mysqlstore.New(db.DB), session.Options{
		Lifetime:   time.Duration(cfg.Session.LifetimeHours) * time.Hour,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Server.TLS.Enabled,
	})

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	enforcer, err := auth.NewEnforcer(&sqlxadapter.AdapterOptions{
		DriverName:     "mysql",
		DataSourceName: cfg.DB.DSN,
	})
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)

	adminRepository := data.NewAdminRepository(db)
	authService := service.NewAuthService(adminRepository)
	created, err := authService.EnsureAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
	if err != nil {
		log.Fatal(err, "Failed to create the bootstrap admin")
	}
	if created {
		log.Info(fmt.Sprintf("Created admin account %s", cfg.Admin.Email))
	}

	// sso stays a nil interface when single sign-on is not configured.
	var sso handler.SSO
	if cfg.OIDC.Enabled() {
		authenticator, err := auth.NewAuthenticator(context.Background(), cfg.OIDC)
		if err != nil {
			log.Fatal(err, "Failed to initialize authenticator")
		}
		sso = authenticator
	}
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	searchCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer searchCache.Close()

	// --- Dependency Injection and Handler Initialization ---
	articles := data.NewArticleRepository(db)
	analyses := data.NewAnalysisRepository(db)
	news := data.NewNewsRepository(db)
	podcasts := data.NewPodcastRepository(db)
	concepts := data.NewConceptRepository(db)
	resources := data.NewResourceRepository(db)
	modules := data.NewModuleRepository(db)

	searchService := service.NewSearchService(articles, analyses, podcasts, news, modules, searchCache,
		time.Duration(cfg.Cache.SearchTTLSeconds)*time.Second, log)
	renderer := service.NewRenderer()
	content := handler.ContentServices{
		Articles:  service.NewArticleService(articles, searchService),
		Analyses:  service.NewAnalysisService(analyses, renderer, searchService),
		News:      service.NewNewsService(news, analyses, searchService),
		Podcasts:  service.NewPodcastService(podcasts, searchService),
		Concepts:  service.NewConceptService(concepts, searchService),
		Resources: service.NewResourceService(resources, searchService),
		Modules:   service.NewModuleService(modules, renderer, searchService),
	}
	statsService := service.NewStatsService(data.NewStatsRepository(db), articles, analyses, podcasts)
	taxonomyService := service.NewTaxonomyService(news)
	uploads := upload.NewStore(afero.NewOsFs(), cfg.Upload.Dir, cfg.Upload.MaxFileSizeMB)

	handlers := handler.Handlers{
		Content:   handler.NewContentHandler(content),
		Discovery: handler.NewDiscoveryHandler(searchService, taxonomyService, statsService),
		Favorites: handler.NewFavoritesHandler(favorites.NewStore(sessionManager)),
		Upload:    handler.NewUploadHandler(uploads),
		Auth:      handler.NewAuthHandler(authService, sessionManager, sso, log),
		Admin:     handler.NewAdminHandler(viewService, authService, statsService, content, sessionManager, sso != nil, log),
		Seo:       handler.NewSeoHandler(content, cfg.Server.BaseURL),
	}
	authzMiddleware := middleware.Authorizer(enforcer, sessionManager, log)

	// --- Router Setup ---
	router := handler.NewRouter(handlers, uploads, sessionManager, authzMiddleware, viewService, log)

	// Expired search results are dropped on read; the sweep keeps the file from growing.
	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go purgeCache(purgeCtx, searchCache, log)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}

func purgeCache(ctx context.Context, c *cache.Cache, log logger.Logger) {
	ticker := time.NewTicker(cachePurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.Purge()
			if err != nil {
				log.Error(err, "cache purge failed")
				continue
			}
			if n > 0 {
				log.Debug(fmt.Sprintf("purged %d expired cache entries", n))
			}
		}
	}
}
