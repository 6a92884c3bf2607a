package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"siteadmin/internal/audit"
	"siteadmin/internal/cache"
	"siteadmin/internal/config"
	"siteadmin/internal/database"
	"siteadmin/internal/handlers"
	"siteadmin/internal/logger"
	"siteadmin/internal/router"
	"siteadmin/internal/services"
	"siteadmin/internal/validator"
)

// @title           Site Admin API
// @version         1.0
// @description     Admin panel API for managing the marketing site's blog, staff pages, SEO metadata and redirects.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const (
	shutdownTimeout    = 30 * time.Second
	cacheSweepInterval = time.Minute
)

func main() {
	logger.InitWithLevel(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("database close failed", "error", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	cacheStore, closeCache, err := openCache(ctx, appConfig)
	if err != nil {
		return err
	}
	defer closeCache()

	auditStore, closeAudit, err := openAuditStore(ctx, appConfig, dbManager)
	if err != nil {
		return err
	}
	defer closeAudit()

	db := dbManager.DB()
	recorder := audit.NewRecorder(auditStore, nil)

	if appConfig.BootstrapAdmin() {
		admin, err := services.EnsureBootstrapAdmin(ctx, db, recorder, services.BootstrapAdminInput{
			Email:    appConfig.AdminEmail,
			Password: appConfig.AdminPassword.Value(),
			Name:     appConfig.AdminName,
		})
		if err != nil {
			return fmt.Errorf("failed to bootstrap admin user: %w", err)
		}
		if admin != nil {
			log.Infow("Created bootstrap admin user", "email", admin.Email, "id", admin.ID)
		}
	}

	userService := services.NewAdminUserService(db, recorder)
	dashboardService := services.NewDashboardService(db, auditStore, cacheStore, appConfig.CacheTTL, cache.SystemClock{})

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(userService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Blog:      handlers.NewBlogHandler(services.NewBlogService(db, recorder)),
		Staff:     handlers.NewStaffHandler(services.NewStaffService(db, recorder)),
		SEO:       handlers.NewSEOHandler(services.NewSEOService(db, recorder)),
		Redirect:  handlers.NewRedirectHandler(services.NewRedirectService(db, recorder)),
		User:      handlers.NewUserHandler(userService),
		Activity:  handlers.NewActivityHandler(services.NewActivityService(auditStore)),
	}, router.Options{
		CORSOrigins:  appConfig.CORSOrigins,
		MetricsToken: appConfig.MetricsToken.Value(),
		Users:        userService,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("Starting site admin server", "port", appConfig.Port, "env", appConfig.Env,
			"cache", appConfig.CacheBackend, "audit_store", appConfig.AuditStore)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

// openCache returns the configured dashboard cache and its cleanup func.
func openCache(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	log := logger.Get()

	if cfg.CacheBackend == config.CacheBackendRedis {
		client, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword.Value(), cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Infow("Using redis cache", "addr", cfg.RedisAddr)
		return cache.NewRedis(client, ""), func() {
			if err := client.Close(); err != nil {
				log.Warnw("redis close failed", "error", err)
			}
		}, nil
	}

	mem := cache.NewMemory(cache.SystemClock{})
	sweepCtx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(cacheSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n := mem.Sweep(); n > 0 {
					log.Debugw("Swept expired cache entries", "count", n)
				}
			}
		}
	}()
	return mem, cancel, nil
}

// openAuditStore returns the configured audit store and its cleanup func.
func openAuditStore(ctx context.Context, cfg *config.Config, dbManager *database.Manager) (audit.Store, func(), error) {
	if cfg.AuditStore != config.AuditStoreMongo {
		return audit.NewGormStore(dbManager.DB()), func() {}, nil
	}

	store, err := audit.ConnectMongo(ctx, cfg.MongoURI.Value(), cfg.MongoDatabase)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	logger.Get().Infow("Using mongo audit store", "database", cfg.MongoDatabase)
	return store, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Get().Warnw("mongo close failed", "error", err)
		}
	}, nil
}
