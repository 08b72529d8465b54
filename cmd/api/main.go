package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"forkify/internal/api"
	"forkify/internal/app"
	"forkify/internal/config"
	"forkify/internal/logger"
	"forkify/internal/metrics"
	"forkify/internal/platform/forkify"
	"forkify/internal/recipe"
	"forkify/internal/search"
	"forkify/internal/session"
	"forkify/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	logCfg.Environment = cfg.Environment
	log := logger.New(logCfg, os.Stdout)
	slog.SetDefault(log)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		panic(fmt.Errorf("error creating blob store: %w", err))
	}
	defer closeStore()

	client := forkify.NewClient(cfg.ForkifyBaseURL, &http.Client{Timeout: cfg.FetchTimeout})
	sessions := session.NewManager(cfg.SessionSize, cfg.SessionTTL, newStateFactory(client, client, store, cfg.PageSize))
	handler := api.NewHandler(sessions, cfg.FetchTimeout)

	if cfg.Environment != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(log, cfg, handler)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server starting", "addr", srv.Addr, "forkify_base_url", cfg.ForkifyBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
}

// openStore picks the likes store: Postgres, then a directory, then memory.
func openStore(cfg *config.Config) (storage.BlobStore, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		pg, err := storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil
	case cfg.StorageDir != "":
		fs, err := storage.NewFileStore(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	default:
		return storage.NewMemoryStore(), func() {}, nil
	}
}

// newStateFactory builds session states whose likes live under the
// session's own key prefix.
func newStateFactory(searcher search.Searcher, fetcher recipe.Fetcher, store storage.BlobStore, pageSize int) session.Factory {
	return func(ctx context.Context, id string) *app.State {
		return app.NewState(ctx, app.Options{
			Searcher: searcher,
			Fetcher:  fetcher,
			Store:    storage.WithPrefix(store, id),
			PageSize: pageSize,
		})
	}
}

func newRouter(log *slog.Logger, cfg *config.Config, handler *api.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(log), metrics.Middleware())

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", api.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", api.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api", api.Session(cfg.CookieMaxAge))
	handler.Register(apiGroup)
	return r
}
