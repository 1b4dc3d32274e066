package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	catalogapp "github.com/partshop/backend/internal/application/catalog"
	inventoryapp "github.com/partshop/backend/internal/application/inventory"
	invoicingapp "github.com/partshop/backend/internal/application/invoicing"
	partnerapp "github.com/partshop/backend/internal/application/partner"
	reportapp "github.com/partshop/backend/internal/application/report"
	"github.com/partshop/backend/internal/infrastructure/auth"
	"github.com/partshop/backend/internal/infrastructure/cache"
	"github.com/partshop/backend/internal/infrastructure/config"
	"github.com/partshop/backend/internal/infrastructure/event"
	"github.com/partshop/backend/internal/infrastructure/logger"
	"github.com/partshop/backend/internal/infrastructure/migration"
	"github.com/partshop/backend/internal/infrastructure/persistence"
	"github.com/partshop/backend/internal/infrastructure/storage"
	"github.com/partshop/backend/internal/infrastructure/telemetry"
	"github.com/partshop/backend/internal/interfaces/http/handler"
	"github.com/partshop/backend/internal/interfaces/http/middleware"
	"github.com/partshop/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	migrateOnStart := flag.Bool("migrate", false, "Apply pending migrations before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting parts shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)
	ledgerMetrics, err := telemetry.NewLedgerMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}

	// Database
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(log, logger.GormLevel(cfg.Log.Level)),
		persistence.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
		TracerProvider:  tracerProvider.Provider(),
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	if *migrateOnStart {
		if err := runMigrations(&cfg.Database, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Read cache and events
	readCache, closeCache, err := cache.New(ctx, cfg.Cache, cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize read cache", zap.Error(err))
	}
	defer func() {
		if err := closeCache(); err != nil {
			log.Error("Error closing read cache", zap.Error(err))
		}
	}()

	bus := event.NewInMemoryEventBus(log)
	invalidator := reportapp.NewCacheInvalidationHandler(readCache, log)
	bus.Subscribe(invalidator, invalidator.EventTypes()...)
	audit := event.NewAuditLogHandler(log)
	bus.Subscribe(audit, audit.EventTypes()...)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Repositories and services
	partRepo := persistence.NewGormPartRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)

	invoiceService := invoicingapp.NewInvoiceService(
		persistence.NewGormInvoiceTransactionScope(db.DB),
		persistence.NewGormInvoiceRepository(db.DB),
		invoicingapp.Options{
			SalePrefix:     cfg.Numbering.SalePrefix,
			PurchasePrefix: cfg.Numbering.PurchasePrefix,
			Retry: invoicingapp.RetryPolicy{
				MaxAttempts: cfg.Numbering.MaxRetries,
				Backoff:     cfg.Numbering.RetryBackoff,
			},
			EnforceStockFloor: cfg.Inventory.EnforceStockFloor,
			CacheTTL:          cfg.Cache.StockTTL,
		},
	)
	invoiceService.SetEventPublisher(bus)
	invoiceService.SetCache(readCache)
	invoiceService.SetMetrics(ledgerMetrics)
	invoiceService.SetLogger(log)

	stockService := inventoryapp.NewStockService(persistence.NewGormInventoryTransactionScope(db.DB), partRepo, ledgerRepo)
	stockService.SetEventPublisher(bus)
	stockService.SetCache(readCache, cfg.Cache.StockTTL)
	stockService.SetMetrics(ledgerMetrics)
	stockService.SetLogger(log)

	exporter := inventoryapp.NewStockExporter(stockService, objectStorage(ctx, cfg, log))
	exporter.SetKeyPrefix(cfg.Storage.Prefix)
	exporter.SetLogger(log)

	partService := catalogapp.NewPartService(partRepo)
	partService.SetCache(readCache, cfg.Cache.StockTTL)
	partService.SetLogger(log)

	partyService := partnerapp.NewPartyService(persistence.NewGormPartyRepository(db.DB))
	partyService.SetLogger(log)

	reportService := reportapp.NewReportService(persistence.NewGormReportRepository(db.DB))
	reportService.SetCache(readCache, cfg.Cache.ReportTTL)
	reportService.SetLogger(log)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go limiter.RunSweeper(ctx.Done())
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine := router.New(router.Options{
		Logger: log,
		HTTP:   cfg.HTTP,
		Auth:   auth.NewJWTService(cfg.JWT),
		Tracing: middleware.TracingConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			Enabled:        tracerProvider.IsEnabled(),
			TracerProvider: tracerProvider.Provider(),
		},
		Meter:       meter,
		RateLimiter: limiter,
	}, router.Handlers{
		Invoices: handler.NewInvoiceHandler(invoiceService),
		Stock:    handler.NewStockHandler(stockService, exporter),
		Parts:    handler.NewPartHandler(partService),
		Parties:  handler.NewPartyHandler(partyService),
		Reports:  handler.NewReportHandler(reportService),
		System:   handler.NewSystemHandler(cfg.App.Name, version, map[string]handler.Pinger{"database": db}, log),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

// objectStorage returns the S3 archive target, or nil when archiving is off.
// A nil interface makes the exporter answer STORAGE_DISABLED.
func objectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) inventoryapp.ObjectStorage {
	if !cfg.Storage.Enabled {
		log.Info("Object storage disabled, stock export archiving unavailable")
		return nil
	}
	s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to prepare storage bucket", zap.Error(err), zap.String("bucket", s3.Bucket()))
	}
	return s3
}

// runMigrations applies pending migrations on a dedicated connection. The
// migrate driver closes its handle, so the serving pool is not shared.
func runMigrations(cfg *config.DatabaseConfig, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migration.WithLogger(log))
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
