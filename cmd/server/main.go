package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/lastikpazari/backend/internal/application/identity"
	reportapp "github.com/lastikpazari/backend/internal/application/report"
	tradeapp "github.com/lastikpazari/backend/internal/application/trade"
	"github.com/lastikpazari/backend/internal/infrastructure/auth"
	"github.com/lastikpazari/backend/internal/infrastructure/cache"
	"github.com/lastikpazari/backend/internal/infrastructure/config"
	"github.com/lastikpazari/backend/internal/infrastructure/event"
	"github.com/lastikpazari/backend/internal/infrastructure/logger"
	"github.com/lastikpazari/backend/internal/infrastructure/persistence"
	"github.com/lastikpazari/backend/internal/infrastructure/printing"
	"github.com/lastikpazari/backend/internal/infrastructure/storage"
	"github.com/lastikpazari/backend/internal/infrastructure/telemetry"
	"github.com/lastikpazari/backend/internal/interfaces/http/handler"
	"github.com/lastikpazari/backend/internal/interfaces/http/middleware"
	"github.com/lastikpazari/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Lastik Pazarı backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
		log.Warn("Failed to enable database tracing", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Checkout idempotency: Redis when configured, process memory otherwise
	idempotency := cache.NewIdempotencyStore(ctx, cfg.Redis, log)
	if closer, ok := idempotency.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	// Export archive
	var archive reportapp.ArchiveStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Warn("Export bucket not ready, exports will not be archived",
				zap.String("bucket", s3Storage.Bucket()), zap.Error(err))
		} else {
			archive = s3Storage
		}
	}

	// PDF rendering for dealer prints; HTML is always available
	var renderer tradeapp.PDFRenderer
	if cfg.Printing.PDFEnabled {
		chromeRenderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.RenderTimeout,
			RemoteURL:      cfg.Printing.RemoteURL,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      os.Geteuid() == 0,
			Logger:         log,
		})
		defer func() { _ = chromeRenderer.Close() }()
		renderer = chromeRenderer
	}

	// Domain events
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewOrderAuditHandler(log))

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.JWT.MaxLoginAttempts,
		LockDuration:     cfg.JWT.LockDuration,
	})

	orderConfig := tradeapp.DefaultOrderServiceConfig()
	if cfg.Order.NumberPrefix != "" {
		orderConfig.NumberPrefix = cfg.Order.NumberPrefix
	}
	orderConfig.ShippingFee = cfg.Order.ShippingFee
	if cfg.Order.IdempotencyTTL > 0 {
		orderConfig.IdempotencyTTL = cfg.Order.IdempotencyTTL
	}
	orderService := tradeapp.NewOrderService(orderRepo, idempotency, orderConfig)
	orderService.SetEventPublisher(eventBus)
	printService := tradeapp.NewPrintService(orderRepo, renderer)
	exportService := reportapp.NewExportService(archive)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var limiter, authLimiter, userLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		// login, register and refresh share 10 attempts per minute per IP
		authLimiter = middleware.NewRateLimiter(10, time.Minute)
		defer authLimiter.Stop()
		userLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer userLimiter.Stop()
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine := router.NewEngine(router.EngineConfig{
		Logger: log,
		HTTP:   cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		},
		Limiter: limiter,
	})

	router.API{
		JWTService:  jwtService,
		Logger:      log,
		Auth:        handler.NewAuthHandler(authService),
		Order:       handler.NewOrderHandler(orderService, printService),
		Export:      handler.NewExportHandler(exportService),
		Health:      handler.NewHealthHandler(db, version),
		AuthLimiter: authLimiter,
		UserLimiter: userLimiter,
	}.Mount(engine)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
