package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/config"
	"github.com/rim-zghida/plagiasm-detector/internal/detector"
	"github.com/rim-zghida/plagiasm-detector/internal/embedding"
	"github.com/rim-zghida/plagiasm-detector/internal/extraction"
	"github.com/rim-zghida/plagiasm-detector/internal/handler"
	"github.com/rim-zghida/plagiasm-detector/internal/plagiarism"
	"github.com/rim-zghida/plagiasm-detector/internal/queue"
	"github.com/rim-zghida/plagiasm-detector/internal/repository"
	"github.com/rim-zghida/plagiasm-detector/internal/server"
	"github.com/rim-zghida/plagiasm-detector/internal/service"
	"github.com/rim-zghida/plagiasm-detector/internal/storage"
	"github.com/rim-zghida/plagiasm-detector/internal/worker"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	httpLog := logrus.New()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/config.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Repositories
	userRepo := repository.NewUserRepository(db, logger)
	batchRepo := repository.NewBatchRepository(db, logger)
	docRepo := repository.NewDocumentRepository(db, logger)
	compRepo := repository.NewComparisonRepository(db, logger)
	detectionRepo := repository.NewDetectionRepository(db, logger)

	// File storage
	var store storage.Store
	if cfg.Storage.Type == "s3" {
		s3, err := storage.NewS3Store(cfg.Storage.Endpoint, cfg.Storage.AccessKey,
			cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		store = s3
	} else {
		store = storage.NewLocalStore(cfg.Storage.LocalDir)
	}

	// External collaborators
	extractor := extraction.NewClient(cfg.Extraction.URL, logger)
	embedder := embedding.NewClient(cfg.Embedding.URL, cfg.Embedding.Model, cfg.Embedding.Enabled)

	// Detection providers
	registry := detector.NewRegistry(cfg.Detection.DefaultProvider, logger,
		detector.NewLocalProvider(),
		detector.NewRemoteProvider(cfg.Detection.RemoteURL),
	)

	// Task dispatcher and batch worker
	dispatcher := queue.NewDispatcher(db, time.Duration(cfg.Worker.StaleJobTimeout)*time.Second, logger)
	matcher := plagiarism.NewMatcher(embedder, docRepo, logger)
	batchWorker := worker.NewWorker(dispatcher, batchRepo, docRepo, compRepo, detectionRepo,
		registry, matcher, logger, time.Duration(cfg.Worker.PollInterval)*time.Second)

	// Services
	defaults := service.AnalysisOptions{
		Provider:        cfg.Detection.DefaultProvider,
		AIThreshold:     cfg.Detection.DefaultThreshold,
		CheckPlagiarism: true,
		CheckAI:         true,
	}
	authService := service.NewAuthService(userRepo, []byte(cfg.Server.JWTSecret), logger)
	adminService := service.NewAdminService(userRepo, logger)
	analysisService := service.NewAnalysisService(batchRepo, store, extractor, dispatcher, logger)
	resultsService := service.NewResultsService(batchRepo, docRepo, compRepo, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, httpLog)
	adminHandler := handler.NewAdminHandler(adminService, httpLog)
	analysisHandler := handler.NewAnalysisHandler(analysisService, resultsService, registry, defaults, httpLog)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the batch worker in a goroutine
	go batchWorker.Run(ctx)

	// Initialize and run the server
	srv := server.NewServer(authHandler, adminHandler, analysisHandler,
		[]byte(cfg.Server.JWTSecret), logger, httpLog)
	srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
