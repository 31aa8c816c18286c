package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adhamhusein/mio-super-app/pkg/jwt"
	"github.com/adhamhusein/mio-super-app/pkg/redis"
	"github.com/adhamhusein/mio-super-app/pkg/response"
)

// JWTAuth extracts and verifies the access token from
// Authorization: Bearer <token>, rejects revoked tokens, and injects the
// dispatcher identity into the request context.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "not authenticated")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "token invalid or expired")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, "invalid token type")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, "token revoked")
				c.Abort()
				return
			}
			// A blacklist read error degrades open; the token itself verified.
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("fullname", claims.Fullname)
		c.Set("jti", claims.ID)
		c.Set("token_expires_at", claims.ExpiresAt.Time)

		c.Next()
	}
}
