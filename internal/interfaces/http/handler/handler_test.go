package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appidentity "github.com/lastikpazari/backend/internal/application/identity"
	"github.com/lastikpazari/backend/internal/application/report"
	"github.com/lastikpazari/backend/internal/application/trade"
	"github.com/lastikpazari/backend/internal/domain/identity"
	"github.com/lastikpazari/backend/internal/infrastructure/auth"
	"github.com/lastikpazari/backend/internal/infrastructure/cache"
	"github.com/lastikpazari/backend/internal/infrastructure/config"
	"github.com/lastikpazari/backend/internal/infrastructure/logger"
	"github.com/lastikpazari/backend/internal/infrastructure/persistence"
	"github.com/lastikpazari/backend/internal/infrastructure/persistence/models"
	"github.com/lastikpazari/backend/internal/infrastructure/storage"
	"github.com/lastikpazari/backend/internal/interfaces/http/dto"
	"github.com/lastikpazari/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testPassword = "sifre1234"
	testStoreID  = int64(7)
	otherStoreID = int64(8)
)

// testEnv wires the handlers to real services over an in-memory sqlite database
type testEnv struct {
	engine  *gin.Engine
	db      *persistence.Database
	jwt     *auth.JWTService
	archive *storage.MemoryObjectStorage

	customer      *identity.User
	otherCustomer *identity.User
	dealer        *identity.User
	otherDealer   *identity.User
	admin         *identity.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := persistence.Open(sqlite.Open(":memory:"), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.DB.AutoMigrate(models.AllModels()...))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-at-least-32-chars",
		RefreshSecret:          "handler-test-refresh-secret-32-chars",
		Issuer:                 "lastikpazari-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
	})

	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })

	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	archive := storage.NewMemoryObjectStorage("https://files.test")

	authHandler := NewAuthHandler(appidentity.NewAuthService(userRepo, jwtService, appidentity.DefaultAuthServiceConfig()))
	orderHandler := NewOrderHandler(
		trade.NewOrderService(orderRepo, idempotency, trade.DefaultOrderServiceConfig()),
		trade.NewPrintService(orderRepo, nil),
	)
	exportHandler := NewExportHandler(report.NewExportService(archive))
	healthHandler := NewHealthHandler(db, "test")

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID(), logger.GinMiddleware(zap.NewNop()))
	engine.GET("/health", healthHandler.Health)

	api := engine.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/refresh", authHandler.RefreshToken)

	authed := api.Group("", middleware.JWTAuthMiddleware(jwtService))
	authed.GET("/auth/me", authHandler.GetCurrentUser)
	authed.POST("/exports/excel", exportHandler.ExportExcel)
	authed.POST("/exports/word", exportHandler.ExportWord)

	customer := authed.Group("/orders", middleware.RequireRole(identity.RoleCustomer))
	customer.POST("", orderHandler.Checkout)
	customer.GET("", orderHandler.ListCustomerOrders)
	customer.GET("/:id", orderHandler.GetOrder)
	customer.GET("/:id/timeline", orderHandler.GetTimeline)

	dealer := authed.Group("/dealer/orders", middleware.RequireRole(identity.RoleDealer))
	dealer.GET("", orderHandler.ListDealerOrders)
	dealer.POST("/print", orderHandler.PrintOrders)
	dealer.GET("/:id", orderHandler.GetOrder)
	dealer.GET("/:id/history", orderHandler.GetHistory)
	dealer.PATCH("/:id/status", orderHandler.UpdateStatus)

	admin := authed.Group("/admin/orders", middleware.RequireRole(identity.RoleAdmin))
	admin.GET("", orderHandler.ListAllOrders)
	admin.GET("/:id", orderHandler.GetOrder)
	admin.GET("/:id/history", orderHandler.GetHistory)
	admin.PATCH("/:id/status", orderHandler.UpdateStatus)
	admin.POST("/:id/revert", orderHandler.RevertStatus)

	env := &testEnv{engine: engine, db: db, jwt: jwtService, archive: archive}
	store, other := testStoreID, otherStoreID
	env.customer = env.createUser(t, userRepo, "musteri@example.com", identity.RoleCustomer, nil)
	env.otherCustomer = env.createUser(t, userRepo, "diger@example.com", identity.RoleCustomer, nil)
	env.dealer = env.createUser(t, userRepo, "bayi@example.com", identity.RoleDealer, &store)
	env.otherDealer = env.createUser(t, userRepo, "bayi2@example.com", identity.RoleDealer, &other)
	env.admin = env.createUser(t, userRepo, "admin@example.com", identity.RoleAdmin, nil)
	return env
}

func (e *testEnv) createUser(t *testing.T, repo *persistence.GormUserRepository, email string, role identity.Role, storeID *int64) *identity.User {
	t.Helper()
	u, err := identity.NewUser(email, testPassword, "Test "+string(role), role, storeID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(t.Context(), u))
	return u
}

func (e *testEnv) token(t *testing.T, u *identity.User) string {
	t.Helper()
	pair, err := e.jwt.GenerateTokenPair(u)
	require.NoError(t, err)
	return pair.AccessToken
}

// do sends a request; body is JSON encoded unless it is already a string
func (e *testEnv) do(t *testing.T, method, path string, user *identity.User, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(t, user))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors dto.Response with the data left raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error, rec.Body.String())
	return env.Error.Code
}

func addressCheckoutBody() map[string]any {
	return map[string]any{
		"teslimatTipi":     "adres",
		"teslimatAdresiId": "5b0f2c9e-6f1a-4c43-9d1e-2f6f0d1b7a10",
		"odemeBilgisi":     map[string]any{"yontem": "kredi_karti", "durum": "paid", "referans": "PAY-1"},
		"urunler": []map[string]any{{
			"stokKodu":   "MIC-205-55-16",
			"urunAdi":    "Michelin Primacy 4",
			"ebat":       "205/55 R16",
			"adet":       4,
			"birimFiyat": "1299.99",
		}},
	}
}

func storeCheckoutBody(storeID int64) map[string]any {
	return map[string]any{
		"teslimatTipi":  "magaza",
		"magazaId":      storeID,
		"montajBilgisi": map[string]any{"tarih": "2030-10-21T00:00:00Z", "saat": "10:00-11:00"},
		"odemeBilgisi":  map[string]any{"yontem": "kapida_odeme"},
		"urunler": []map[string]any{{
			"stokKodu":   "PIR-225-45-17",
			"adet":       2,
			"birimFiyat": 2500,
		}},
	}
}

// placeOrder checks out as the env customer and returns the created order
func (e *testEnv) placeOrder(t *testing.T, body map[string]any) trade.OrderResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/orders", e.customer, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order trade.OrderResponse
	decode(t, rec, &order)
	return order
}
