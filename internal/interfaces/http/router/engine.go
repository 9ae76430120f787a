package router

import (
	"github.com/gin-gonic/gin"
	"github.com/lastikpazari/backend/internal/infrastructure/config"
	"github.com/lastikpazari/backend/internal/infrastructure/logger"
	"github.com/lastikpazari/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// EngineConfig configures the global middleware stack
type EngineConfig struct {
	Logger  *zap.Logger
	HTTP    config.HTTPConfig
	Tracing middleware.TracingConfig
	// Limiter applies to every request by client IP; nil disables it
	Limiter *middleware.RateLimiter
}

// NewEngine builds a gin engine with the global middleware stack, in order:
// request id, panic recovery, request logging, tracing, security headers,
// CORS, body size limit and the per-IP rate limit.
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	if cfg.Limiter != nil {
		engine.Use(middleware.RateLimit(cfg.Limiter))
	}

	return engine
}
