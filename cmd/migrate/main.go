// Command migrate rewrites every stored feature bag onto canonical snake_case keys.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	redisAdapter "github.com/Abdurahmanit/GroupProject/content-service/internal/adapter/cache/redis"
	mongoAdapter "github.com/Abdurahmanit/GroupProject/content-service/internal/adapter/mongo"
	natsAdapter "github.com/Abdurahmanit/GroupProject/content-service/internal/adapter/nats"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/cache"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type options struct {
	Config    string `long:"config" env:"CONFIG_PATH" default:"config.yaml" description:"Path to the config file or directory"`
	DryRun    bool   `long:"dry-run" description:"Count documents that need migrating without writing"`
	BatchSize int    `long:"batch-size" default:"500" description:"Documents per bulk write (1-500)"`
	SkipCache bool   `long:"skip-cache" description:"Do not connect to Redis or invalidate cached feeds"`
	SkipNATS  bool   `long:"skip-nats" description:"Do not publish the migration event"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}
	os.Exit(run(opts))
}

func run(opts options) int {
	_ = godotenv.Load()
	appLogger := logger.NewLogger()
	log := appLogger.Logger

	cfg, err := config.LoadConfig(opts.Config)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	mongoClient, err := mongoAdapter.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	var cacheRepo cache.CacheRepository
	if !opts.SkipCache && !opts.DryRun {
		redisClient, err := redisAdapter.NewRedisClient(&cfg.Redis, log)
		if err != nil {
			appLogger.Warn("Redis unavailable; cached feeds will expire on their own", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo = redisAdapter.NewRedisCacheRepository(redisClient, log)
		}
	}

	var publisher events.Publisher
	if !opts.SkipNATS {
		natsPublisher, err := natsAdapter.NewNATSPublisher(&cfg.NATS, log)
		if err != nil {
			appLogger.Warn("NATS unavailable; migration event will not be published", zap.Error(err))
		} else {
			defer natsPublisher.Close()
			publisher = natsPublisher
		}
	}

	contentRepo := mongoAdapter.NewContentMongoRepository(mongoClient, cfg.Mongo.Database)
	featureUC := usecase.NewFeatureUseCase(contentRepo, nil, cacheRepo, publisher, nil, usecase.FeatureConfig{
		MigrationBatch: cfg.Features.MigrationBatch,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Starting feature key migration",
		zap.String("database", cfg.Mongo.Database),
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("batch_size", usecase.ClampBatchSize(opts.BatchSize)),
	)
	res, err := featureUC.Migrate(ctx, usecase.MigrateInput{DryRun: opts.DryRun, BatchSize: opts.BatchSize})
	if res != nil {
		out, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(out))
	}
	if err != nil {
		appLogger.Error("Feature key migration failed", zap.Error(err))
		return 1
	}
	return 0
}
