package router

import (
	"github.com/gin-gonic/gin"
	"github.com/lastikpazari/backend/internal/domain/identity"
	"github.com/lastikpazari/backend/internal/infrastructure/auth"
	"github.com/lastikpazari/backend/internal/interfaces/http/handler"
	"github.com/lastikpazari/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// API holds everything the versioned routes are built from
type API struct {
	JWTService *auth.JWTService
	Logger     *zap.Logger

	Auth   *handler.AuthHandler
	Order  *handler.OrderHandler
	Export *handler.ExportHandler
	Health *handler.HealthHandler

	// AuthLimiter throttles login, register and refresh per client IP; nil disables it
	AuthLimiter *middleware.RateLimiter
	// UserLimiter throttles authenticated calls per user; nil disables it
	UserLimiter *middleware.RateLimiter
}

// Mount registers /health and every /api/v1 group on the engine
func (a API) Mount(engine *gin.Engine) {
	engine.GET("/health", a.Health.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))
	for _, group := range a.Groups() {
		r.Register(group)
		if a.Logger == nil {
			continue
		}
		for _, route := range group.Routes(r.BasePath()) {
			a.Logger.Debug("Route registered",
				zap.String("group", route.Group),
				zap.String("method", route.Method),
				zap.String("path", route.Path),
			)
		}
	}
	r.Setup()
}

// Groups returns the route groups of the three portals plus the public auth
// endpoints and the document exports.
func (a API) Groups() []*DomainGroup {
	authn := a.authenticated()

	authRoutes := NewDomainGroup("auth", "/auth")
	if a.AuthLimiter != nil {
		authRoutes.Use(middleware.AuthRateLimit(a.AuthLimiter))
	}
	authRoutes.POST("/login", a.Auth.Login)
	authRoutes.POST("/register", a.Auth.Register)
	authRoutes.POST("/refresh", a.Auth.RefreshToken)

	sessionRoutes := NewDomainGroup("session", "/auth").Use(authn...)
	sessionRoutes.GET("/me", a.Auth.GetCurrentUser)

	exportRoutes := NewDomainGroup("export", "/exports").Use(authn...)
	exportRoutes.POST("/excel", a.Export.ExportExcel)
	exportRoutes.POST("/word", a.Export.ExportWord)

	customerRoutes := NewDomainGroup("customer", "/orders").
		Use(authn...).
		Use(middleware.RequireRole(identity.RoleCustomer))
	customerRoutes.POST("", a.Order.Checkout)
	customerRoutes.GET("", a.Order.ListCustomerOrders)
	customerRoutes.GET("/:id", a.Order.GetOrder)
	customerRoutes.GET("/:id/timeline", a.Order.GetTimeline)

	dealerRoutes := NewDomainGroup("dealer", "/dealer/orders").
		Use(authn...).
		Use(middleware.RequireRole(identity.RoleDealer))
	dealerRoutes.GET("", a.Order.ListDealerOrders)
	dealerRoutes.POST("/print", a.Order.PrintOrders)
	dealerRoutes.GET("/:id", a.Order.GetOrder)
	dealerRoutes.GET("/:id/history", a.Order.GetHistory)
	dealerRoutes.PATCH("/:id/status", a.Order.UpdateStatus)

	adminRoutes := NewDomainGroup("admin", "/admin/orders").
		Use(authn...).
		Use(middleware.RequireRole(identity.RoleAdmin))
	adminRoutes.GET("", a.Order.ListAllOrders)
	adminRoutes.GET("/:id", a.Order.GetOrder)
	adminRoutes.GET("/:id/history", a.Order.GetHistory)
	adminRoutes.PATCH("/:id/status", a.Order.UpdateStatus)
	adminRoutes.POST("/:id/revert", a.Order.RevertStatus)

	return []*DomainGroup{authRoutes, sessionRoutes, exportRoutes, customerRoutes, dealerRoutes, adminRoutes}
}

// authenticated is the chain in front of every protected route:
// token check, span enrichment with the session, then the per-user limit.
func (a API) authenticated() []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService: a.JWTService,
			Logger:     a.Logger,
		}),
		middleware.TracingAttributeInjector(),
	}
	if a.UserLimiter != nil {
		chain = append(chain, middleware.RateLimitByKey(a.UserLimiter, middleware.SessionOrIPKey))
	}
	return chain
}
