package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/vitikova/user-service/internal/config"
	"github.com/vitikova/user-service/internal/db"
	"github.com/vitikova/user-service/internal/events"
	"github.com/vitikova/user-service/internal/httpserver"
	"github.com/vitikova/user-service/internal/logging"
	"github.com/vitikova/user-service/internal/middleware"
	"github.com/vitikova/user-service/internal/repo"
	"github.com/vitikova/user-service/internal/search"
	"github.com/vitikova/user-service/internal/service"
	"github.com/vitikova/user-service/internal/tokens"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	gormRepo := repo.New(gdb)
	tokenSvc := tokens.New(tokens.Config{Secret: cfg.JWTSecret})
	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	var index *search.Index
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("elasticsearch unavailable, user search disabled", "error", err)
		} else {
			index = search.NewIndex(esClient)
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", "error", err)
			rdb = nil
		}
		pingCancel()
	}

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:     gormRepo,
				Tokens:   tokenSvc,
				Producer: producer,
				Index:    index,
			},
		},
		Users: &httpserver.UserHTTP{
			Svc: &service.UserService{
				Repo:     gormRepo,
				Index:    index,
				Producer: producer,
			},
		},
		Filter: middleware.NewAccessFilter(gormRepo, tokenSvc, httpserver.PublicPrefixes...),
		Logger: logger,
		Redis:  rdb,
	})

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go service.RunBlacklistCleanup(cleanupCtx, gormRepo, service.CleanupInterval, logger)

	go func() {
		if err := e.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	cleanupCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
