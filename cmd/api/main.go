package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"docgen/docs"
	"docgen/internal/config"
	"docgen/internal/converter"
	"docgen/internal/database"
	"docgen/internal/docx"
	handlers "docgen/internal/http/handler"
	"docgen/internal/http/middleware"
	"docgen/internal/logger"
	"docgen/internal/model"
	"docgen/internal/otel"
	"docgen/internal/repository/postgres"
	"docgen/internal/service"
	"docgen/internal/storage"
	"docgen/internal/sweeper"
	"docgen/web"
)

// @title Document Generator API
// @version 1.0
// @description Generates proposal and contract PDFs from DOCX templates.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	log := logger.New(os.Stdout, loc, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("tracer shutdown failed")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Persistence is optional: documents are generated either way.
	db, artifacts := connectArtifacts(ctx, cfg, log)
	if db != nil {
		defer db.Close()
	}

	conv := converter.NewLibreOffice(cfg.Documents.ConverterBinary, time.Duration(cfg.Documents.ConvertTimeoutSec)*time.Second)
	gen, err := service.NewGenerator(service.GeneratorConfig{
		Templates: map[model.Kind]string{
			model.KindProposal: cfg.Documents.ProposalTemplate,
			model.KindContract: cfg.Documents.ContractTemplate,
		},
		WorkDir:  cfg.Documents.WorkDir,
		Location: loc,
		Image: docx.Image{
			WidthMM:     cfg.Documents.ImageWidthMM,
			MaxWidthMM:  cfg.Documents.ImageMaxWidthMM,
			MaxHeightMM: cfg.Documents.ImageMaxHeightMM,
		},
	}, conv, artifacts, log, reg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize generator")
	}

	if artifacts != nil {
		var locker sweeper.Locker
		if cfg.Redis.Addr != "" {
			rdb, err := sweeper.Connect(cfg.Redis)
			if err != nil {
				log.WithError(err).Warn("redis unavailable, sweeping without a lock")
			} else {
				defer rdb.Close()
				locker = sweeper.NewRedisLocker(rdb)
			}
		}
		sw := sweeper.New(artifacts, locker,
			time.Duration(cfg.Documents.RetentionDays)*24*time.Hour,
			time.Duration(cfg.Documents.SweepIntervalMin)*time.Minute,
			log)
		go sw.Run(ctx)
	}

	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register http metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.BodyLimitMB * 1024 * 1024,
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())

	deps := handlers.Deps{
		Generator: gen,
		Artifacts: artifacts,
		Page:      web.Page,
		Gatherer:  reg,
	}
	if db != nil {
		deps.DB = db
	}
	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("server_starting")
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}

// connectArtifacts wires the artifact store when both the database and the
// object store are configured. Any failure leaves persistence disabled.
func connectArtifacts(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger) (*sql.DB, service.ArtifactService) {
	if !cfg.Database.Enabled() || cfg.MinIO.Endpoint == "" {
		log.Info("artifact persistence disabled")
		return nil, nil
	}

	db, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.WithError(err).Error("database unavailable, artifact persistence disabled")
		return nil, nil
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.WithError(err).Error("object storage unavailable, artifact persistence disabled")
		_ = db.Close()
		return nil, nil
	}

	repo := postgres.NewArtifactPostgres(db)
	return db, service.NewArtifactService(objStore, repo, log)
}
