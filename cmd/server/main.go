package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"                  // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // panic recovery
	"github.com/robfig/cron/v3"                     // hourly session sweep
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movielog/internal/authz"
	"github.com/iliyamo/movielog/internal/config" // Internal config loader
	"github.com/iliyamo/movielog/internal/database"
	"github.com/iliyamo/movielog/internal/handler"
	"github.com/iliyamo/movielog/internal/middleware"
	"github.com/iliyamo/movielog/internal/poster"
	"github.com/iliyamo/movielog/internal/profanity"
	"github.com/iliyamo/movielog/internal/queue"
	"github.com/iliyamo/movielog/internal/repository"
	"github.com/iliyamo/movielog/internal/router" // Internal router setup
	"github.com/iliyamo/movielog/internal/service"
	"github.com/iliyamo/movielog/internal/session"
	"github.com/iliyamo/movielog/web"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load() // Load environment config
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	db, err := openDB(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if cfg.DBBootstrap || cfg.DBDriver == "sqlite" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := database.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to create schema: %v", err)
		}
	}

	rootCtx, stopAll := context.WithCancel(context.Background())
	defer stopAll()

	// Redis is optional; without it sessions move to SQL and the cache and
	// rate limiter pass through.
	rdb := config.NewRedisClient(rootCtx)
	if rdb == nil {
		logger.Warn("redis unavailable; using SQL sessions, cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	var store session.Store
	if cfg.SessionStore == "redis" && rdb != nil {
		store = session.NewRedisStore(rdb, "movielog:session")
	} else {
		store = session.NewSQLStore(repository.NewSessionRepo(db))
	}
	sessions := session.NewManager(store, cfg.SessionSecret, cfg.SessionTTL, logger)

	sched := cron.New()
	if _, err := sched.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(rootCtx, 30*time.Second)
		defer cancel()
		sessions.Sweep(ctx)
	}); err != nil {
		logger.Fatalf("Failed to schedule session sweep: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	publisher := service.NewActivityPublisher(cfg.AMQPURL, logger)
	if cfg.ActivityConsumer && cfg.AMQPURL != "" {
		c := &queue.Consumer{URL: cfg.AMQPURL, LogPath: cfg.ActivityLogPath, Log: logger}
		go func() {
			if err := c.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("activity consumer stopped")
			}
		}()
	}

	renderer, err := handler.NewRenderer(web.FS)
	if err != nil {
		logger.Fatalf("Failed to parse templates: %v", err)
	}
	info, err := handler.NewInfoHandler(db, rdb, web.FS)
	if err != nil {
		logger.Fatalf("Failed to load intro page: %v", err)
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	router.Register(e, router.Deps{
		Auth:      handler.NewAuthHandler(cfg, repository.NewUserRepo(db), sessions, logger),
		Movies:    handler.NewMovieHandler(repository.NewMovieRepo(db), authz.Policy{EnforceOwnership: cfg.EnforceOwnership}, profanity.NewFilter(), publisher, logger),
		Posters:   handler.NewPosterHandler(poster.NewResolver(cfg.Poster, logger)),
		Info:      info,
		Sessions:  sessions,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Static:    echo.MustSubFS(web.FS, "static"),
		Log:       logger,
	})

	addr := ":" + cfg.Port // Address string with port
	errChan := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.WithError(err).Error("server failed")
	case <-stop:
		logger.Info("shutting down")
	}

	stopAll()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	if cfg.DBDriver == "sqlite" {
		return database.OpenSQLite(cfg.DBPath)
	}
	return database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
