package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/eliotalders0n/chatlens/internal/ai"
	"github.com/eliotalders0n/chatlens/internal/align"
	"github.com/eliotalders0n/chatlens/internal/analytics"
	"github.com/eliotalders0n/chatlens/internal/classifier"
	"github.com/eliotalders0n/chatlens/internal/config"
	"github.com/eliotalders0n/chatlens/internal/gamify"
	"github.com/eliotalders0n/chatlens/internal/handler"
	"github.com/eliotalders0n/chatlens/internal/middleware"
	"github.com/eliotalders0n/chatlens/internal/parser"
	"github.com/eliotalders0n/chatlens/internal/pdf"
	"github.com/eliotalders0n/chatlens/internal/repository"
	"github.com/eliotalders0n/chatlens/internal/service"
	"github.com/eliotalders0n/chatlens/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize database connection pool with pgx
	pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Successfully connected to database")

	// Optional blob storage for raw-export and report archival
	var blobClient storage.BlobStorage
	if cfg.Storage.AccountName != "" && cfg.Storage.AccountKey != "" {
		client, err := storage.NewBlobClient(
			cfg.Storage.AccountName,
			cfg.Storage.AccountKey,
			cfg.Storage.UploadContainer,
			cfg.Storage.ReportContainer,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize blob storage client", zap.Error(err))
		}
		blobClient = client
	} else {
		logger.Info("Blob storage not configured, archival disabled")
	}

	// Optional enrichment collaborator
	var enricher *ai.Enricher
	if cfg.OpenAI.APIKey != "" {
		aiClient, err := ai.NewClient(cfg.OpenAI.APIKey, logger)
		if err != nil {
			logger.Fatal("Failed to initialize OpenAI client", zap.Error(err))
		}
		enricher = ai.NewEnricher(
			aiClient,
			cfg.OpenAI.Model,
			cfg.OpenAI.FallbackModels,
			cfg.OpenAI.CallDelay,
			cfg.OpenAI.SampleSize,
			logger,
		)
	} else {
		logger.Info("OpenAI not configured, enrichment disabled")
	}

	// Initialize repositories
	analysisRepo := repository.NewAnalysisRepository(pool, logger)

	// Initialize pipeline stages
	chatParser := parser.NewParser(logger)
	chatClassifier := classifier.NewClassifier(logger)
	analyticsEngine := analytics.NewEngine(
		cfg.Analysis.SilenceThresholdDays,
		cfg.Analysis.ResponseCutoffHours,
		logger,
	)
	gamifyEngine := gamify.NewEngine(logger)
	aligner := align.NewAligner(logger)

	// Initialize services
	analysisService := service.NewAnalysisService(
		chatParser,
		chatClassifier,
		analyticsEngine,
		gamifyEngine,
		aligner,
		enricher,
		analysisRepo,
		blobClient,
		cfg.Analysis.ClassifyTimeout,
		logger,
	)

	pdfGenerator := pdf.NewPDFGenerator(logger)
	reportService := service.NewReportService(analysisRepo, pdfGenerator, blobClient, logger)

	// Initialize handlers
	analysisHandler := handler.NewAnalysisHandler(analysisService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-Report-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggingMiddleware(logger))
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Register routes
	r.GET("/health", healthHandler.GetHealth)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analyses", analysisHandler.CreateAnalysis)
		v1.GET("/analyses", analysisHandler.ListAnalyses)
		v1.GET("/analyses/:id", analysisHandler.GetAnalysis)
		v1.POST("/analyses/:id/report", reportHandler.GenerateReport)
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	pool.Close()

	logger.Info("Server exited")
}
