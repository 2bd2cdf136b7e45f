package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examin-app/examin-backend/internal/model"
	"github.com/examin-app/examin-backend/internal/response"
	"github.com/examin-app/examin-backend/internal/service"
)

// CheckSingleDeviceSession validates the JWT's JTI against the active session
// in Redis. A mismatch means the session was reset or replaced, so the token
// is rejected. Admin tokens pass through untouched.
func CheckSingleDeviceSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if claims.Role != model.RoleStudent {
			c.Next()
			return
		}

		if err := authService.ValidateStudentSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
