package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menkyoquiz/menkyo-backend/internal/response"
	"github.com/menkyoquiz/menkyo-backend/internal/service"
)

// CheckSingleDeviceLogin validates the JWT's JTI against the most recent
// login in Redis. A mismatch means the account logged in on another
// device, which invalidates this token.
func CheckSingleDeviceLogin(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		// Only enforce for user tokens.
		if claims.TokenType != service.TokenTypeUser {
			c.Next()
			return
		}

		if err := authService.ValidateUserLogin(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
