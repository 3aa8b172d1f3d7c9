package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/medpredict/alert-service/internal/catalog"
	"github.com/medpredict/alert-service/internal/config"
	"github.com/medpredict/alert-service/internal/handler"
	"github.com/medpredict/alert-service/internal/infra/postgresql"
	"github.com/medpredict/alert-service/internal/infra/postgresql/migrations"
	infraredis "github.com/medpredict/alert-service/internal/infra/redis"
	"github.com/medpredict/alert-service/internal/objectstore"
	"github.com/medpredict/alert-service/internal/observability"
	"github.com/medpredict/alert-service/internal/predict"
	"github.com/medpredict/alert-service/internal/provider"
	"github.com/medpredict/alert-service/internal/ratelimit"
	"github.com/medpredict/alert-service/internal/repository"
	"github.com/medpredict/alert-service/internal/service"
	"github.com/medpredict/alert-service/internal/transport"
	"github.com/medpredict/alert-service/internal/upload"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	var limiter ratelimit.RateLimiter = ratelimit.NopLimiter{}
	if cfg.RedisURL != "" {
		rdb, err := infraredis.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis initialization failed", zap.Error(err))
		}
		defer rdb.Close()

		limiter, err = infraredis.NewRedisRateLimiter(rdb, cfg.DispatchRatePerSec)
		if err != nil {
			logger.Fatal("rate limiter initialization failed", zap.Error(err))
		}
	}

	notifier, err := provider.NewNovuClient(cfg.NovuAPIURL, cfg.NovuAPIKey)
	if err != nil {
		logger.Fatal("notification provider initialization failed", zap.Error(err))
	}

	loader, err := catalog.NewFileLoader(cfg.RecipientsFile, cfg.ProductsFile)
	if err != nil {
		logger.Fatal("catalog loader initialization failed", zap.Error(err))
	}

	store, err := upload.NewDiskStore(cfg.UploadDir, cfg.MaxFileSize)
	if err != nil {
		logger.Fatal("upload store initialization failed", zap.Error(err))
	}

	dispatcher, err := service.NewDispatchService(loader, loader, notifier, limiter, logger)
	if err != nil {
		logger.Fatal("dispatch service initialization failed", zap.Error(err))
	}
	dispatcher.SetMetrics(metrics)

	alertRepo := repository.NewGormAlertRepo(db)

	app := fiber.New(fiber.Config{
		AppName:      "medpredict-alert-service",
		BodyLimit:    int(cfg.MaxFileSize) + 1024*1024,
		ErrorHandler: transport.ErrorHandler(logger, cfg.IsProduction()),
	})

	app.Use(recover.New())
	app.Use(metrics.HTTPMiddleware())

	app.Static("/uploads", store.Dir())
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")
	handler.RegisterHealthRoutes(api, cfg.Environment)
	if err := handler.RegisterAlertRoutes(api, store, dispatcher, alertRepo, metrics, logger); err != nil {
		logger.Fatal("alert route registration failed", zap.Error(err))
	}

	if cfg.PredictionAPIURL != "" {
		predictor, err := predict.NewClient(cfg.PredictionAPIURL)
		if err != nil {
			logger.Fatal("prediction client initialization failed", zap.Error(err))
		}
		if err := handler.RegisterPredictRoutes(api, predictor, logger); err != nil {
			logger.Fatal("predict route registration failed", zap.Error(err))
		}
	}

	if cfg.S3Endpoint != "" {
		reportStore, err := objectstore.NewMinioStore(context.Background(), objectstore.MinioConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
		}, logger)
		if err != nil {
			logger.Fatal("report store initialization failed", zap.Error(err))
		}
		if err := handler.RegisterReportRoutes(api, reportStore, logger); err != nil {
			logger.Fatal("report route registration failed", zap.Error(err))
		}
	}

	go func() {
		logger.Info("alert service started",
			zap.Int("port", cfg.APIPort),
			zap.String("environment", cfg.Environment),
		)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
			logger.Fatal("server stopped unexpectedly", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
