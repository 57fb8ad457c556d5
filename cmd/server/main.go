package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/es"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := models.AutoMigrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	store := &repo.GormRepo{DB: gdb}

	authService := &service.AuthService{
		Repo:          store,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
	}
	cartService := &service.CartService{Repo: store}
	catalogService := &service.CatalogService{Repo: store}

	tokenMW := &authmw.TokenMiddleware{
		Auth:       authService,
		JWTSecret:  cfg.JWTSecret,
		DemoUserID: cfg.DemoUserID,
	}

	var producer *events.Producer
	var publisher httpserver.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
		defer producer.Close()
	} else {
		logger.Warn("KAFKA_BROKERS not set, event publication disabled")
	}

	deps := &httpserver.Deps{
		Cart:    &httpserver.CartHTTP{Svc: cartService, Events: publisher},
		Catalog: &httpserver.CatalogHTTP{Svc: catalogService, Events: publisher, ESIndex: cfg.ESIndex},
		Auth:    &httpserver.AuthHTTP{Svc: authService, Events: publisher},
		Tokens:  tokenMW,
	}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		deps.Catalog.ES = esClient
		deps.Search = &httpserver.SearchHTTP{ES: esClient, Index: cfg.ESIndex}
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	httpserver.Register(e, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		logger.Info("starting storefront server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}
