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
	Enabled         bool
	LogFullSQL      bool          // include bound variables in db.statement
	SlowQueryThresh time.Duration // spans above it get db.slow_query=true
	DBSystem        string
	// TracerProvider overrides the global provider
	TracerProvider trace.TracerProvider
}

// DefaultDBTracingConfig returns default configuration for database tracing.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm plus slow-query and error marking
// callbacks on db. A disabled config is a no-op.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { markSpan(tx, cfg.SlowQueryThresh) }

	// after hooks run ahead of otelgorm's own, which ends the span
	cb := db.Callback()
	regs := []error{
		cb.Create().Before("gorm:create").Register("lp_trace:before_create", before),
		cb.Query().Before("gorm:query").Register("lp_trace:before_query", before),
		cb.Update().Before("gorm:update").Register("lp_trace:before_update", before),
		cb.Delete().Before("gorm:delete").Register("lp_trace:before_delete", before),
		cb.Row().Before("gorm:row").Register("lp_trace:before_row", before),
		cb.Raw().Before("gorm:raw").Register("lp_trace:before_raw", before),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("lp_trace:after_create", after),
		cb.Query().After("gorm:query").Before("otel:after:query").Register("lp_trace:after_query", after),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("lp_trace:after_update", after),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("lp_trace:after_delete", after),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("lp_trace:after_row", after),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("lp_trace:after_raw", after),
	}
	if err := errors.Join(regs...); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func markSpan(tx *gorm.DB, slow time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > slow {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
