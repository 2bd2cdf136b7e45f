package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/examin-app/examin-backend/internal/model"
	"github.com/examin-app/examin-backend/internal/response"
	"github.com/examin-app/examin-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

// RequireJWT validates a JWT of either role from the Authorization header.
func RequireJWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractAndValidateClaims(c, authService)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireStudent restricts a route to student tokens. Must run after RequireJWT.
func RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if claims.Role != model.RoleStudent {
			response.AbortFail(c, http.StatusForbidden, response.ErrStudentAccessOnly)
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts a route to admin tokens. Must run after RequireJWT.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if claims.Role != model.RoleAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}
		c.Next()
	}
}

// RequireAdminWSAuth validates an admin JWT from the query param ?token=...
// Used for WebSocket upgrade requests, which cannot send headers.
func RequireAdminWSAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		if claims.Role != model.RoleAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func extractAndValidateClaims(c *gin.Context, authService *service.AuthService) (*service.Claims, error) {
	tokenStr := ""

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenStr = parts[1]
		}
	}

	if tokenStr == "" {
		return nil, fmt.Errorf("authorization header required")
	}

	return authService.ValidateToken(tokenStr)
}
