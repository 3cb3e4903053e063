package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dealerdesk/backend/internal/infrastructure/cache"
	"github.com/dealerdesk/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the client-supplied replay protection header
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency rejects a repeated mutating request carrying the same
// Idempotency-Key within the TTL window. Requests without the header pass
// through, the protection is opt-in for clients. Keys are scoped to the
// authenticated company so keys cannot collide across companies.
func Idempotency(store cache.IdempotencyStore, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scoped := GetCompanyID(c).String() + ":" + c.Request.Method + ":" + c.FullPath() + ":" + key
		fresh, err := store.Remember(c.Request.Context(), scoped, ttl)
		if err != nil {
			// Replay protection is best effort. A store outage must not
			// take the endpoint down with it.
			logger.Warn("idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.ErrorResponse(dto.ErrCodeDuplicateRequest, "Request with this Idempotency-Key was already processed"))
			return
		}
		c.Next()
	}
}
