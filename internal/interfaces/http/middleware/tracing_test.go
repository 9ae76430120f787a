package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer sets up a test tracer provider and returns the span recorder.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return sr
}

func findSpan(spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	for _, span := range spans {
		if span.Name() == name {
			return span
		}
	}
	return nil
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, attr := range span.Attributes() {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false, ServiceName: "test-service"}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracingWithConfig_Enabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"}))
	router.GET("/api/v1/orders/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, findSpan(sr.Ended(), "GET /api/v1/orders/:id"), "HTTP span not found")
}

func TestTracingWithConfig_SkipsHealth(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing())
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracingAttributeInjector_RequestID(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(RequestID(), Tracing(), TracingAttributeInjector())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "test-request-id-123")
	router.ServeHTTP(w, req)

	span := findSpan(sr.Ended(), "GET /test")
	require.NotNil(t, span)
	v, ok := spanAttr(span, "request_id")
	require.True(t, ok, "request_id attribute not found in span")
	assert.Equal(t, "test-request-id-123", v.AsString())
}

func TestTracingAttributeInjector_Session(t *testing.T) {
	sr := setupTestTracer(t)
	userID := uuid.New()
	store := int64(42)

	router := gin.New()
	router.Use(Tracing())
	// stands in for JWTAuthMiddleware
	router.Use(func(c *gin.Context) {
		c.Set(SessionKey, identity.Session{UserID: userID, Role: identity.RoleDealer, StoreID: &store})
		c.Next()
	})
	router.Use(TracingAttributeInjector())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	span := findSpan(sr.Ended(), "GET /test")
	require.NotNil(t, span)

	v, ok := spanAttr(span, "user_id")
	require.True(t, ok)
	assert.Equal(t, userID.String(), v.AsString())
	v, ok = spanAttr(span, "user_role")
	require.True(t, ok)
	assert.Equal(t, "dealer", v.AsString())
	v, ok = spanAttr(span, "store_id")
	require.True(t, ok)
	assert.Equal(t, int64(42), v.AsInt64())
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantCode    codes.Code
		wantMessage string
	}{
		{"bad request", http.StatusBadRequest, codes.Error, "Client Error"},
		{"unauthorized", http.StatusUnauthorized, codes.Error, "Unauthorized"},
		{"forbidden", http.StatusForbidden, codes.Error, "Forbidden"},
		{"not found", http.StatusNotFound, codes.Error, "Not Found"},
		{"conflict", http.StatusConflict, codes.Error, "Conflict"},
		{"server error", http.StatusInternalServerError, codes.Error, "Internal Server Error"},
		{"success", http.StatusOK, codes.Unset, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := setupTestTracer(t)

			router := gin.New()
			router.Use(Tracing(), SpanErrorMarker())
			router.GET("/test", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			router.ServeHTTP(w, req)

			span := findSpan(sr.Ended(), "GET /test")
			require.NotNil(t, span)
			assert.Equal(t, tt.wantCode, span.Status().Code)
			// otelgin sets its own status for 5xx after the marker runs
			if tt.wantCode == codes.Error && tt.status < http.StatusInternalServerError {
				assert.Equal(t, tt.wantMessage, span.Status().Description)
			}
		})
	}
}

func TestSpanErrorMarker_WithNoSpan(t *testing.T) {
	router := gin.New()
	router.Use(SpanErrorMarker(), TracingAttributeInjector())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	assert.NotPanics(t, func() { router.ServeHTTP(w, req) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()
	assert.Equal(t, "lastikpazari-backend", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
}
