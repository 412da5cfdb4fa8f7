package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/voyago/identity-service/internal/service"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextToken  = "token"
)

// AuthMiddleware authenticates the request by token: revocation check
// first, then signature and expiry. On success the identity claims and
// the raw token land in the gin context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondUnauthorized(c, "authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondUnauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		token := parts[1]

		claims, err := authService.AuthenticateToken(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.SubjectID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextToken, token)

		c.Next()
	}
}
