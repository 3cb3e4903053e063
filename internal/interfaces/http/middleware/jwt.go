package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dealerdesk/backend/internal/infrastructure/auth"
	"github.com/dealerdesk/backend/internal/interfaces/http/dto"
)

// Context keys populated by the JWT middleware
const (
	ContextUserIDKey    = "auth_user_id"
	ContextCompanyIDKey = "auth_company_id"
	ContextRoleKey      = "auth_role"
)

// JWTAuth validates the Bearer token and stores the caller's identity in
// the gin context
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Authorization header must be a Bearer token")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, "Token has expired")
				return
			}
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextCompanyIDKey, claims.CompanyID)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse(dto.ErrCodeUnauthorized, message))
}

// GetUserID returns the authenticated user ID from the gin context
func GetUserID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(ContextUserIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetCompanyID returns the authenticated company ID from the gin context
func GetCompanyID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(ContextCompanyIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetRole returns the authenticated role from the gin context
func GetRole(c *gin.Context) string {
	return c.GetString(ContextRoleKey)
}
