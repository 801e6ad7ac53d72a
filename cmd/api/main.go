package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tradedocs/internal/config"
	"tradedocs/internal/database"
	"tradedocs/internal/database/migration"
	handlers "tradedocs/internal/http/handler"
	"tradedocs/internal/http/middleware"
	"tradedocs/internal/learning"
	"tradedocs/internal/logging"
	"tradedocs/internal/otel"
	"tradedocs/internal/repository/postgres"
	"tradedocs/internal/service"
	"tradedocs/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx := context.Background()

	// Tracing degrades to a noop provider when the exporter is unreachable
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logging.New("database", loc), cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Metrics registry with process/Go collectors plus pipeline counters
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMW, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}
	procMetrics, err := service.NewProcessorMetrics(registry)
	if err != nil {
		log.Fatalf("failed to register processing metrics: %v", err)
	}

	// Repositories
	docRepo := postgres.NewDocumentPostgres(db)
	contentRepo := postgres.NewContentPostgres(db)
	mappingRepo := postgres.NewMappingPostgres(db)

	// Services
	retrainCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mapping_retrain_candidates_total",
		Help: "Mappings whose feedback swing flagged them for retraining.",
	})
	registry.MustRegister(retrainCounter)
	engine := learning.NewEngine(mappingRepo).WithRetrainCounter(retrainCounter)
	presignExpiry := time.Duration(cfg.Processing.PresignExpirySec) * time.Second
	docSvc := service.NewDocumentService(objStore, docRepo, presignExpiry)
	processor := service.NewProcessor(objStore, docRepo, contentRepo,
		logging.New("processor", loc), procMetrics, cfg.Processing.ExtractedTextMaxChars)
	reviewSvc := service.NewReviewService(docRepo, contentRepo, mappingRepo, engine)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	app.Use(promMW.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, docSvc, reviewSvc, engine, processor)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
