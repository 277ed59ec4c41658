package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"tachpae-storefront/internal/config"
	"tachpae-storefront/internal/db"
	"tachpae-storefront/internal/httpserver"
	"tachpae-storefront/internal/modal"
	catalogrepo "tachpae-storefront/internal/repository/catalog"
	"tachpae-storefront/internal/store"
	"tachpae-storefront/internal/tracking"
	"tachpae-storefront/internal/visitor"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatalf("connect to redis: %v", err)
	}
	defer redisClient.Close()

	sessionStore := store.NewRedis(redisClient, cfg.CartTTL, logger)

	var tracker tracking.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink := tracking.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer kafkaSink.Close()
		tracker = kafkaSink
	} else {
		logger.Printf("no kafka brokers configured, tracking events go to the log")
		tracker = tracking.NewLog(logger)
	}

	catalogRepo := catalogrepo.NewPostgres(dbpool, logger)
	visitorService := visitor.New()
	modalEngine := modal.New(sessionStore, modal.DefaultPolicies(), logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		VisitorSvc:     visitorService,
		Store:          sessionStore,
		Tracker:        tracker,
		CatalogRepo:    catalogRepo,
		Modals:         modalEngine,
		ShareBaseURL:   cfg.ShareBaseURL,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
