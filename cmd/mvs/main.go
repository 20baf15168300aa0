// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/mvs-cms/internal/auth"
	"github.com/olegiv/mvs-cms/internal/cache"
	"github.com/olegiv/mvs-cms/internal/collection"
	"github.com/olegiv/mvs-cms/internal/config"
	"github.com/olegiv/mvs-cms/internal/content"
	"github.com/olegiv/mvs-cms/internal/handler"
	"github.com/olegiv/mvs-cms/internal/imaging"
	"github.com/olegiv/mvs-cms/internal/logging"
	"github.com/olegiv/mvs-cms/internal/media"
	"github.com/olegiv/mvs-cms/internal/middleware"
	"github.com/olegiv/mvs-cms/internal/render"
	"github.com/olegiv/mvs-cms/internal/scheduler"
	"github.com/olegiv/mvs-cms/internal/session"
	"github.com/olegiv/mvs-cms/internal/store"
	"github.com/olegiv/mvs-cms/internal/version"
	"github.com/olegiv/mvs-cms/internal/visitor"
	"github.com/olegiv/mvs-cms/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Request limits
const (
	requestTimeout = 30 * time.Second
	// Uploads may carry several large files to remote storage.
	uploadTimeout = 2 * time.Minute

	createRateLimit  = 30
	createRateWindow = time.Minute
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "mvs - Manna Vision Society website and content manager\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MVS_SESSION_SECRET     Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MVS_DB_PATH            SQLite database path (default: ./data/mvs.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MVS_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MVS_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MVS_STORAGE_DRIVER     Media storage: local|s3 (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MVS_UPLOADS_DIR        Local media directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MVS_S3_BUCKET          Bucket for MVS_STORAGE_DRIVER=s3\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MVS_SITE_URL           Public base URL used in sitemap.xml (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MVS_REDIS_URL          Redis URL for a shared cache and visitor counter (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MVS_ADMIN_EMAIL        Bootstrap admin email, used when no admin exists\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MVS_ADMIN_PASSWORD     Bootstrap admin password\n")
	}

	flag.Parse()

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Warnings and errors are also written to the event log table.
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, db, store.AdminSeed{
		Email:        cfg.AdminEmail,
		Password:     cfg.AdminPassword,
		AllowDefault: cfg.IsDevelopment(),
	}); err != nil {
		if errors.Is(err, store.ErrNoAdminCredentials) {
			return fmt.Errorf("seeding admin: %w (set MVS_ADMIN_EMAIL and MVS_ADMIN_PASSWORD)", err)
		}
		return fmt.Errorf("seeding admin: %w", err)
	}
	if cfg.HasBootstrapAdmin() && !cfg.IsDevelopment() {
		slog.Info("bootstrap admin credentials are only read on first start and can be removed")
	}

	// Cache: Redis when configured, falling back to memory.
	cacheCfg := cache.DefaultConfig()
	if cfg.UseRedisCache() {
		cacheCfg.RedisURL = cfg.RedisURL
	}
	cacheCfg.Prefix = cfg.CachePrefix
	appCache, err := cache.New(cacheCfg)
	if err != nil {
		slog.Warn("redis unavailable, using memory cache",
			"url", cache.SanitizeRedisURL(cfg.RedisURL), "error", err)
		cacheCfg.RedisURL = ""
		if appCache, err = cache.New(cacheCfg); err != nil {
			return fmt.Errorf("initializing cache: %w", err)
		}
	}
	defer func() { _ = appCache.Close() }()
	slog.Info("cache initialized", "backend", cache.Backend(appCache))

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}
	binder := media.NewBinder(storage, imaging.NewProcessor(imaging.DefaultThumbnailConfig()), logger)

	catalog := content.NewCatalog(db, collection.Deps{Media: binder, Logger: logger})
	loader := content.NewLoader(catalog, logger, nil)
	logo := handler.NewLogoSource(loader, appCache, logger)

	// The footer counter lives in Redis when it is shared, else in SQLite.
	var counterStore visitor.Store = visitor.NewDBStore(store.New(db), visitor.CounterName)
	if cache.Backend(appCache) == "redis" {
		counterStore = visitor.NewCacheStore(appCache, visitor.CounterName)
	}
	counter := visitor.NewCounter(counterStore,
		visitor.WithBase(cfg.VisitorBase), visitor.WithDebounce(cfg.VisitorDebounce))

	sched := scheduler.New(logger)
	if err := sched.AddVisitorTick(counter, cfg.VisitorTick); err != nil {
		return fmt.Errorf("scheduling visitor tick: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	sessionManager := session.New(db, cfg.IsDevelopment())

	authenticator, err := auth.NewAuthenticator(store.New(db), logger)
	if err != nil {
		return fmt.Errorf("initializing authenticator: %w", err)
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		ThumbURL:       binder.ThumbURL,
		LogoURL:        logo.URL,
		Logger:         logger,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()

	publicHandler := handler.NewPublicHandler(loader, renderer, logger)
	authHandler := handler.NewAuthHandler(authenticator, renderer, sessionManager, loginProtection, logger)
	adminHandler := handler.NewAdminHandler(renderer, binder, logger, cfg.MaxUploadBytes())
	adminHandler.RegisterCatalog(catalog, logo.Invalidate)
	adminHandler.SetEventLog(store.New(db))
	adminHandler.SetJobs(sched.Registry())

	healthCfg := handler.HealthConfig{Version: info.Short()}
	if local, ok := storage.(*media.LocalStorage); ok {
		healthCfg.Uploads = local
	}
	if p, ok := appCache.(handler.Pinger); ok {
		healthCfg.Cache = p
	}
	if sp, ok := appCache.(cache.StatsProvider); ok {
		healthCfg.CacheStats = sp
	}
	healthHandler := handler.NewHealthHandler(db, sessionManager, healthCfg)
	seoHandler := handler.NewSEOHandler(cfg.SiteURL, cfg.NoIndex, logger)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)

	// Assets and the health check skip sessions and the visitor counter.
	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/dist/*", middleware.StaticCache(middleware.StaticMaxAge)(
		http.StripPrefix("/static/dist/", http.FileServer(http.FS(staticFS)))))
	if local, ok := storage.(*media.LocalStorage); ok {
		r.Handle(cfg.UploadsURL+"/*", middleware.StaticCache(middleware.UploadsMaxAge)(
			handler.Uploads(cfg.UploadsURL, local.Root())))
	}
	r.With(sessionManager.LoadAndSave).Get(handler.RouteHealth, healthHandler.Health)
	seoHandler.Routes(r)

	csrf := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()))

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(csrf)
		r.Use(middleware.ResolveAuth(sessionManager, authenticator, logger))
		r.Use(visitor.Track(counter, sessionManager, logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			publicHandler.Routes(r)
		})

		r.Route(handler.RouteAdmin, func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(requestTimeout))
				r.Get(handler.RouteLogin, authHandler.LoginForm)
				r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
				r.Post(handler.RouteLogout, authHandler.Logout)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				adminHandler.Routes(r,
					middleware.Timeout(uploadTimeout),
					middleware.CreateRateLimit(createRateLimit, createRateWindow),
				)
			})
		})

		// Registered on the root router, wrapped in this group's middleware.
		r.NotFound(publicHandler.NotFound)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      uploadTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Short())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newStorage opens the configured media backend.
func newStorage(ctx context.Context, cfg *config.Config) (media.Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		s, err := media.NewS3Storage(ctx, media.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing s3 storage: %w", err)
		}
		slog.Info("media storage initialized", "driver", config.StorageS3, "bucket", cfg.S3.Bucket)
		return s, nil
	default:
		s, err := media.NewLocalStorage(cfg.UploadsDir, cfg.UploadsURL)
		if err != nil {
			return nil, fmt.Errorf("initializing local storage: %w", err)
		}
		slog.Info("media storage initialized", "driver", config.StorageLocal, "dir", cfg.UploadsDir)
		return s, nil
	}
}
