package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trivia-service/internal/dto"
	"trivia-service/pkg/jwt"
)

const ContextUserID = "user_id"

// BearerToken returns the token from the Authorization header, falling back
// to the token query parameter since browsers cannot set headers on
// websocket upgrades.
func BearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Query("token")
}

// JWTAuth validates the caller's access token locally. With allowGuests a
// request without a token passes through anonymously; a bad token is always
// rejected.
func JWTAuth(secret string, allowGuests bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			if c.GetHeader("Authorization") != "" {
				dto.JsonError(c, http.StatusUnauthorized, "Invalid authorization header format")
				c.Abort()
				return
			}
			if !allowGuests {
				dto.JsonError(c, http.StatusUnauthorized, "Authorization header is required")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		claims, err := jwt.ValidateAccessToken(token, secret)
		if err != nil {
			dto.JsonError(c, http.StatusUnauthorized, "Failed to validate token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}
