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

	redisAdapter "github.com/Abdurahmanit/GroupProject/content-service/internal/adapter/cache/redis"
	ingestAdapter "github.com/Abdurahmanit/GroupProject/content-service/internal/adapter/ingest"
	mongoAdapter "github.com/Abdurahmanit/GroupProject/content-service/internal/adapter/mongo"
	natsAdapter "github.com/Abdurahmanit/GroupProject/content-service/internal/adapter/nats"
	minioAdapter "github.com/Abdurahmanit/GroupProject/content-service/internal/adapter/storage/minio"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/handler"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/tracer"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/storage"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/router"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()

	configPath := "config.yaml"
	if cp := os.Getenv("CONFIG_PATH"); cp != "" {
		configPath = cp
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Configuration loaded successfully",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTP.Port),
		zap.String("mongo_database", cfg.Mongo.Database),
		zap.String("nats_url", cfg.NATS.URL),
		zap.Bool("object_store_enabled", cfg.Minio.Endpoint != ""),
		zap.Bool("debug_enabled", cfg.Debug.Enabled),
	)
	if cfg.Auth.JWTSecret == "" {
		appLogger.Fatal("auth.jwt_secret must be set")
	}
	if cfg.Auth.CronSecret == "" {
		appLogger.Warn("CRON_SECRET is not set; scheduled maintenance routes will reject every request")
	}
	log := appLogger.Logger

	tp := tracer.InitTracer(cfg.ServiceName, &cfg.Tracing, appLogger)

	mongoClient, err := mongoAdapter.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	appLogger.Info("Successfully connected to MongoDB")

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongoAdapter.EnsureIndexes(indexCtx, mongoClient.Database(cfg.Mongo.Database)); err != nil {
		appLogger.Error("Failed to ensure MongoDB indexes", zap.Error(err))
	}
	cancelIndex()

	redisClient, err := redisAdapter.NewRedisClient(&cfg.Redis, log)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheRepo := redisAdapter.NewRedisCacheRepository(redisClient, log)

	natsPublisher, err := natsAdapter.NewNATSPublisher(&cfg.NATS, log)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}

	var objectStore storage.ObjectStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioAdapter.NewObjectStore(context.Background(), &cfg.Minio, log)
		if err != nil {
			appLogger.Fatal("Failed to initialize MinIO object store", zap.Error(err))
		}
		objectStore = store
	} else {
		appLogger.Info("Object store not configured; proxied images are not cached")
	}

	metricsManager := metrics.NewMetricsManager(cfg.ServiceName)
	go func() {
		if err := metrics.StartMetricsServer(cfg.Metrics.Port, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()

	contentRepo := mongoAdapter.NewContentMongoRepository(mongoClient, cfg.Mongo.Database)
	legacyRepo := mongoAdapter.NewLegacyArticleMongoRepository(mongoClient, cfg.Mongo.Database)
	userRepo := mongoAdapter.NewUserMongoRepository(mongoClient, cfg.Mongo.Database)
	bookmarkRepo := mongoAdapter.NewBookmarkMongoRepository(mongoClient, cfg.Mongo.Database)
	historyRepo := mongoAdapter.NewHistoryMongoRepository(mongoClient, cfg.Mongo.Database)
	appLogger.Info("Repositories initialized")

	catalogue := entity.Categories()
	retryCfg := usecase.RetryConfig{Attempts: cfg.Retry.Attempts, Delay: cfg.Retry.Delay}

	feedUC := usecase.NewFeedUseCase(contentRepo, legacyRepo, cacheRepo, catalogue, metricsManager, usecase.FeedConfig{
		Retry:            retryCfg,
		FeedTTL:          cfg.Cache.FeedTTL,
		ContentTTL:       cfg.Cache.ContentTTL,
		BestOfWeekWindow: cfg.Features.BestOfWeekWindow,
	}, log)
	featureUC := usecase.NewFeatureUseCase(contentRepo, bookmarkRepo, cacheRepo, natsPublisher, metricsManager, usecase.FeatureConfig{
		BreakingWindow:   cfg.Features.BreakingWindow,
		BestOfWeekWindow: cfg.Features.BestOfWeekWindow,
		BestOfWeekSize:   cfg.Features.BestOfWeekSize,
		MigrationBatch:   cfg.Features.MigrationBatch,
	}, log)
	postUC := usecase.NewPostUseCase(contentRepo, userRepo, cacheRepo, natsPublisher, log)
	userUC := usecase.NewUserUseCase(userRepo, bookmarkRepo, historyRepo, cacheRepo, natsPublisher, usecase.AuthConfig{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
	}, log)
	bookmarkUC := usecase.NewBookmarkUseCase(bookmarkRepo, feedUC, natsPublisher, log)
	historyUC := usecase.NewHistoryUseCase(historyRepo, feedUC, log)

	sources := make([]usecase.IngestSource, 0, len(cfg.Ingest.Sources))
	for _, s := range cfg.Ingest.Sources {
		sources = append(sources, usecase.IngestSource{Name: s.Name, URL: s.URL, Category: s.Category})
	}
	ingestUC := usecase.NewIngestUseCase(ingestAdapter.NewFetcher(cfg.Ingest.Timeout, log), contentRepo, cacheRepo, natsPublisher, metricsManager, usecase.IngestConfig{
		Sources:           sources,
		MaxItemsPerSource: cfg.Ingest.MaxItemsPerSource,
	}, log)

	proxyUC := usecase.NewImageProxyUseCase(&http.Client{Timeout: cfg.Proxy.Timeout}, objectStore, metricsManager, usecase.ProxyConfig{
		MaxBytes:  cfg.Proxy.MaxBytes,
		Timeout:   cfg.Proxy.Timeout,
		UserAgent: cfg.Proxy.UserAgent,
	}, log)
	appLogger.Info("Use cases initialized")

	sections := cfg.Sections.AsMap()
	handlers := router.Handlers{
		Content:  handler.NewContentHandler(feedUC, catalogue, sections, log),
		Post:     handler.NewPostHandler(postUC, log),
		User:     handler.NewUserHandler(userUC, log),
		Bookmark: handler.NewBookmarkHandler(bookmarkUC, historyUC, log),
		Cron:     handler.NewCronHandler(featureUC, ingestUC, log),
		Proxy:    handler.NewProxyHandler(proxyUC, log),
	}
	if cfg.Debug.Enabled {
		handlers.Debug = handler.NewDebugHandler(usecase.NewDebugUseCase(contentRepo, log), log)
		appLogger.Warn("Debug routes are enabled")
	}

	r := router.NewRouter(handlers, router.Options{
		ServiceName:  cfg.ServiceName,
		Sections:     sections,
		CronSecret:   cfg.Auth.CronSecret,
		DebugEnabled: cfg.Debug.Enabled,
		Tokens:       userUC,
		Metrics:      metricsManager,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	} else {
		appLogger.Info("HTTP server stopped")
	}

	natsPublisher.Close()

	if err := mongoClient.Disconnect(ctx); err != nil {
		appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
	} else {
		appLogger.Info("Disconnected from MongoDB")
	}

	if err := redisClient.Close(); err != nil {
		appLogger.Error("Error closing Redis client", zap.Error(err))
	}

	if err := tp.Shutdown(ctx); err != nil {
		appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
	}

	appLogger.Info("Application shut down")
	_ = log.Sync()
}
