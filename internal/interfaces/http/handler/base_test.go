package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/lastikpazari/backend/internal/infrastructure/printing"
	"github.com/lastikpazari/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	h := &BaseHandler{}
	router := gin.New()
	router.GET("/", func(c *gin.Context) { h.HandleError(c, err) })
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped forbidden", fmt.Errorf("load: %w", shared.NewDomainError("FORBIDDEN", "Order belongs to another store")), http.StatusForbidden, dto.ErrCodeForbidden},
		{"concurrency", shared.NewDomainError("CONCURRENCY_CONFLICT", "stale"), http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"unknown status", shared.NewDomainError("INVALID_STATUS", "Unknown order status: lost"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidTransition},
		{"checkout rule", shared.NewDomainError("INVALID_DELIVERY", "Store is required"), http.StatusBadRequest, dto.ErrCodeInvalidOrder},
		{"render timeout", &printing.RenderError{Code: printing.ErrCodeRenderTimeout, Message: "timed out", Cause: context.DeadlineExceeded}, http.StatusGatewayTimeout, dto.ErrCodeRenderTimeout},
		{"render failure", &printing.RenderError{Code: printing.ErrCodeRenderFailed, Message: "chrome crashed"}, http.StatusInternalServerError, dto.ErrCodeInternal},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveError(t, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
			assert.NotContains(t, rec.Body.String(), "disk on fire", "internal causes never leak")
		})
	}
}

func TestBaseHandler_SessionRequired(t *testing.T) {
	h := &OrderHandler{}
	router := gin.New()
	router.GET("/orders", h.ListCustomerOrders)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, rec))
}
