package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/dealerdesk/backend/internal/infrastructure/cache"
)

func newIdempotencyTestRouter(companyID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := cache.NewInMemoryIdempotencyStore()

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(ContextCompanyIDKey, companyID)
	})
	engine.Use(Idempotency(store, time.Minute, zap.NewNop()))
	engine.POST("/orders", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"queued": true})
	})
	return engine
}

func TestIdempotency_PassThroughWithoutHeader(t *testing.T) {
	engine := newIdempotencyTestRouter(uuid.New())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestIdempotency_RejectsReplay(t *testing.T) {
	engine := newIdempotencyTestRouter(uuid.New())

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	engine.ServeHTTP(first, req)
	assert.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	replay := httptest.NewRequest(http.MethodPost, "/orders", nil)
	replay.Header.Set(IdempotencyKeyHeader, "key-1")
	engine.ServeHTTP(second, replay)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "DUPLICATE_REQUEST")
}

func TestIdempotency_DistinctKeysPass(t *testing.T) {
	engine := newIdempotencyTestRouter(uuid.New())

	for _, key := range []string{"key-a", "key-b"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(IdempotencyKeyHeader, key)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestIdempotency_ScopedByCompany(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	gin.SetMode(gin.TestMode)

	serve := func(companyID uuid.UUID) int {
		engine := gin.New()
		engine.Use(func(c *gin.Context) { c.Set(ContextCompanyIDKey, companyID) })
		engine.Use(Idempotency(store, time.Minute, zap.NewNop()))
		engine.POST("/orders", func(c *gin.Context) { c.Status(http.StatusCreated) })

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(IdempotencyKeyHeader, "shared-key")
		engine.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, serve(uuid.New()))
	assert.Equal(t, http.StatusCreated, serve(uuid.New()), "same key from another company is not a replay")
}
