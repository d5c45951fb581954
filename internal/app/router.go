// internal/app/router.go
package app

import (
	authHandler "soko-service/internal/handlers/auth"
	"soko-service/internal/middleware"
	"soko-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupRouter wires the fixed filter order: public flows first, then the
// session refresh filter guarding everything authenticated.
func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		response.Success(c, 200, "ok", gin.H{"version": "1.0.0"})
	})

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
		authPublic.POST("/code", h.AuthHandler.IssueCode)
		authPublic.POST("/code/verify", h.AuthHandler.VerifyCode)
		authPublic.POST("/password/temporary", h.AuthHandler.TemporaryPassword)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.GET("/me", h.AuthHandler.Me)
	}

	// ==================== Admin ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.AdminOnly()...)
	{
		admin.GET("/ping", func(c *gin.Context) {
			response.Success(c, 200, "pong", nil)
		})
	}
}
