package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealerdesk/backend/internal/interfaces/http/dto"
)

// RequireRole rejects callers whose role is not in the allowed set. Must
// run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetRole(c)
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.ErrorResponse(dto.ErrCodeForbidden, "Insufficient role for this operation"))
			return
		}
		c.Next()
	}
}
