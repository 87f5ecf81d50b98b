package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"awdtrack/internal/auth"
	"awdtrack/internal/config"
	"awdtrack/internal/database"
	"awdtrack/internal/database/migration"
	"awdtrack/internal/events"
	handlers "awdtrack/internal/http/handler"
	"awdtrack/internal/http/middleware"
	"awdtrack/internal/logger"
	tracing "awdtrack/internal/otel"
	"awdtrack/internal/repository/postgres"
	"awdtrack/internal/service"
	"awdtrack/internal/storage"
)

const (
	bodyLimit       = 25 << 20
	shutdownTimeout = 10 * time.Second
)

// @title AWD Document Tracking API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	loc := cfg.Location()
	log := logger.New(cfg.Log.Level, loc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error().Err(err).Msg("tracing shutdown failed")
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
	}

	// Change feed: one Redis subscription fanned out to SSE clients.
	hub := events.NewHub(log)
	go hub.Run(ctx, rdb.Subscribe(ctx, events.Channel))

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	metrics, err := service.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register service metrics")
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	attRepo := postgres.NewAttachmentPostgres(db)
	accRepo := postgres.NewAccountPostgres(db)
	dashRepo := postgres.NewDashboardPostgres(db)

	docSvc := service.NewDocumentService(service.DocumentServiceDeps{
		Documents:   docRepo,
		Attachments: attRepo,
		Storage:     objStore,
		Events:      events.NewPublisher(rdb),
		Metrics:     metrics,
		Location:    loc,
		URLExpiry:   cfg.MinIO.URLExpiry,
		Logger:      log,
	})
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	sessSvc := service.NewSessionService(accRepo, auth.NewRedisSessionStore(rdb), tokens, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID(log))
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:        db,
		Documents: docSvc,
		Accounts:  service.NewAccountService(accRepo),
		Sessions:  sessSvc,
		Dashboard: service.NewDashboardService(dashRepo, loc),
		Reports:   service.NewReportService(dashRepo, docSvc, loc),
		Events:    hub,
		Metrics:   prometheus.DefaultGatherer,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		// Ends the change feed so open event streams finish.
		cancel()
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("timezone", loc.String()).Msg("server starting")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
