package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/adhamhusein/mio-super-app/pkg/response"
)

// MustGetUserID safely extracts user_id from the Gin context. If the JWT
// middleware did not inject it, a 401 is written and ok is false; the caller
// should return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "not authenticated")
		return "", false
	}
	return s, true
}

// MustGetUsername extracts the authenticated username, used as the audit
// actor on corrections.
func MustGetUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get("username")
	if !exists {
		response.Unauthorized(c, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "not authenticated")
		return "", false
	}
	return s, true
}
