package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/finobags/shop/internal/config"
	"github.com/finobags/shop/internal/db"
	"github.com/finobags/shop/internal/es"
	"github.com/finobags/shop/internal/httpserver"
	"github.com/finobags/shop/internal/logging"
	"github.com/finobags/shop/internal/metrics"
	"github.com/finobags/shop/internal/middleware/loggingmw"
	"github.com/finobags/shop/internal/middleware/metricsmw"
	"github.com/finobags/shop/internal/mykafka"
	"github.com/finobags/shop/internal/payment"
	"github.com/finobags/shop/internal/repo"
	"github.com/finobags/shop/internal/search"
	"github.com/finobags/shop/internal/service"
	"github.com/finobags/shop/internal/session"
)

func main() {
	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")

	logger := logging.New(config.EnvDefault("LOG_LEVEL", "info"))
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL, cfg.SQLitePath)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Seed(database); err != nil {
		log.Fatalf("db seed error: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: database}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)

	var provider payment.Provider = payment.None{}
	if cfg.PaymentURL != "" {
		provider = payment.NewClient(
			cfg.PaymentURL,
			cfg.PublicBaseURL,
			time.Duration(cfg.PaymentTimeoutSec)*time.Second,
		)
	}

	sessions := session.NewStore()

	checkoutSvc := &service.CheckoutService{
		Repo:           gormRepo,
		Provider:       provider,
		PaymentTimeout: time.Duration(cfg.PaymentTimeoutSec) * time.Second,
	}
	authSvc := &service.AuthService{Repo: gormRepo}

	deps := &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc, Sessions: sessions, Producer: producer},
		ProductHandler: &httpserver.ProductHTTP{Repo: gormRepo},
		CartHandler:    &httpserver.CartHTTP{Repo: gormRepo, Svc: checkoutSvc, Producer: producer},
		OrderHandler:   &httpserver.OrderHTTP{Repo: gormRepo},
		Sessions:       sessions,
		SessionSecret:  cfg.SessionSecret,
	}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		deps.SearchHandler = &httpserver.SearchHTTP{ES: esClient, Index: "product"}

		products, err := gormRepo.ListProducts(context.Background())
		if err == nil {
			if err := search.IndexProducts(context.Background(), esClient, "product", products); err != nil {
				logger.Warn("product indexing failed", "error", err)
			}
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metricsmw.Observe(metrics.NewServerMetrics(cfg.ServiceName)))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
