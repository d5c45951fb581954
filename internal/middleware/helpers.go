// internal/middleware/helpers.go
package middleware

import (
	"soko-service/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

// GetAccountID gets the authenticated account id from context.
func GetAccountID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("account_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetRole gets the authenticated role from context.
func GetRole(c *gin.Context) (auth.Role, bool) {
	v, exists := c.Get("role")
	if !exists {
		return "", false
	}
	role, ok := v.(auth.Role)
	return role, ok
}

// GetSessionID gets the current session id from context.
func GetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get("session_id")
	if !exists {
		return "", false
	}
	sid, ok := v.(string)
	return sid, ok
}

// MustGetAccountID gets the account id or panics; only for handlers behind
// Auth().
func MustGetAccountID(c *gin.Context) int64 {
	id, ok := GetAccountID(c)
	if !ok {
		panic("account_id not found in context")
	}
	return id
}
