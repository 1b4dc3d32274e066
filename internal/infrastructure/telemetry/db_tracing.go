package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL keeps query variables in span statements; development only
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBName          string
	// TracerProvider overrides the global provider
	TracerProvider trace.TracerProvider
}

// DBTracingPlugin registers otelgorm plus a slow query marker on a gorm DB.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh == 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBName == "" {
		cfg.DBName = "partshop"
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type queryStartKey struct{}

// Register installs the plugin on db. It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBName)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.config.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.config.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	errs := []error{
		cb.Create().Before("gorm:create").Register("otel_timing:before_create", markStart),
		cb.Query().Before("gorm:query").Register("otel_timing:before_query", markStart),
		cb.Update().Before("gorm:update").Register("otel_timing:before_update", markStart),
		cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", markStart),
		cb.Row().Before("gorm:row").Register("otel_timing:before_row", markStart),
		cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", markStart),
		cb.Create().After("gorm:create").Register("otel_timing:after_create", p.annotate),
		cb.Query().After("gorm:query").Register("otel_timing:after_query", p.annotate),
		cb.Update().After("gorm:update").Register("otel_timing:after_update", p.annotate),
		cb.Delete().After("gorm:delete").Register("otel_timing:after_delete", p.annotate),
		cb.Row().After("gorm:row").Register("otel_timing:after_row", p.annotate),
		cb.Raw().After("gorm:raw").Register("otel_timing:after_raw", p.annotate),
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

// annotate adds table, row count, error and slow query details to the statement span
func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
