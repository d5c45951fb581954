// internal/middleware/recovery_middleware.go
package middleware

import (
	"fmt"

	"soko-service/internal/pkg/autherr"
	"soko-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic into the taxonomy's internal error so
// the client still sees the uniform failure shape.
func RecoveryMiddleware(logger *zap.Logger, registry *autherr.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("error", r),
					zap.String("path", c.Request.URL.Path),
				)
				response.Fail(c, registry, autherr.Internal("internal.error",
					fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}
