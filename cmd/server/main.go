package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/WayneOg/ease-E-movies/internal/config"
	"github.com/WayneOg/ease-E-movies/internal/database"
	"github.com/WayneOg/ease-E-movies/internal/gateway"
	"github.com/WayneOg/ease-E-movies/internal/handler"
	"github.com/WayneOg/ease-E-movies/internal/middleware"
	"github.com/WayneOg/ease-E-movies/internal/provider"
	"github.com/WayneOg/ease-E-movies/internal/queue"
	"github.com/WayneOg/ease-E-movies/internal/repository"
	"github.com/WayneOg/ease-E-movies/internal/router"
	"github.com/WayneOg/ease-E-movies/internal/service"
	"github.com/WayneOg/ease-E-movies/internal/web"
)

func main() {
	cfg := config.Load()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "ease-e-movies",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DSN())
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		logger.Error("schema setup failed", "error", err)
		os.Exit(1)
	}

	// Redis is optional: without it the provider cache lives in process and
	// the HTTP cache and rate limiter switch themselves off.
	rdb := config.NewRedisClient(cfg.Redis)
	var cache gateway.Cache
	if rdb != nil {
		defer rdb.Close()
		cache = gateway.NewRedisCache(rdb)
	} else {
		logger.Warn("redis unavailable, using in-process provider cache", "addr", cfg.Redis.Addr)
		cache = gateway.NewMemoryCache(4096, cfg.Provider.CacheTTL)
	}

	gw := gateway.New(cache, gateway.Options{
		Timeout:      cfg.Provider.Timeout,
		TTL:          cfg.Provider.CacheTTL,
		Prefix:       cfg.Provider.CachePrefix,
		MaxBodyBytes: cfg.Provider.MaxBodyBytes,
		RateLimit:    cfg.Provider.RateLimit,
		Logger:       logger.Named("gateway"),
	})

	deps := service.Deps{
		Metadata:   provider.NewTMDB(gw, cfg.Provider.TMDBBaseURL, cfg.Provider.TMDBAPIKey, cfg.Provider.Language),
		Listings:   provider.NewTVMaze(gw, cfg.Provider.TVMazeBaseURL),
		Movies:     repository.NewMovieRepo(db),
		Series:     repository.NewSeriesRepo(db),
		Genres:     repository.NewGenreRepo(db),
		Categories: repository.NewCategoryRepo(db),
	}
	if cfg.Provider.TraktClientID != "" {
		deps.Trending = provider.NewTrakt(gw, cfg.Provider.TraktBaseURL, cfg.Provider.TraktClientID)
	}

	if cfg.AMQPURL != "" {
		events := logger.Named("events")
		pub := queue.NewPublisher(cfg.AMQPURL, 0, events)
		go pub.Run(ctx)
		deps.Events = pub

		eventLog := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     28,
		}
		defer eventLog.Close()
		consumer := queue.NewConsumer(cfg.AMQPURL, eventLog, events)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				events.Error("event consumer stopped", "error", err)
			}
		}()
	} else {
		logger.Info("AMQP_URL not set, catalog events disabled")
	}

	catalog := service.New(deps, service.Options{
		GenrePolicy:      service.ParseGenrePolicy(cfg.GenrePolicy),
		SearchLocalFirst: cfg.SearchLocalFirst,
		Logger:           logger.Named("catalog"),
	})

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Error("templates failed to load", "error", err)
		os.Exit(1)
	}

	httpLog := logger.Named("http")
	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(httpLog))

	limiter := middleware.NewTokenBucket(cfg.RateLimit, rdb, httpLog)
	respCache := middleware.NewResponseCache(cfg.Cache, rdb, httpLog)

	router.RegisterRoutes(e, db)
	router.RegisterPages(e, handler.NewPageHandler(catalog, httpLog), limiter)
	router.RegisterAPI(e, handler.NewAPIHandler(catalog, httpLog), limiter, respCache)
	router.RegisterAdmin(e, &handler.AdminHandler{
		Catalog:      catalog,
		Log:          httpLog,
		Secret:       cfg.JWTSecret,
		User:         cfg.AdminUser,
		PasswordHash: cfg.AdminPasswordHash,
		TTL:          time.Duration(cfg.AccessTTLMin) * time.Minute,
	}, cfg.JWTSecret, limiter)

	go func() {
		addr := ":" + cfg.Port
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
