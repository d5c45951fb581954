// internal/middleware/auth_middleware.go
package middleware

import (
	"fmt"
	"strings"

	"soko-service/internal/domain/auth"
	"soko-service/internal/pkg/autherr"
	"soko-service/internal/pkg/response"
	authService "soko-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthorizationHeader carries the session token both ways. The value format
// is "Bearer : <token>" — the separator is non-standard but is preserved
// exactly for compatibility with existing clients.
const AuthorizationHeader = "Authorization"

const bearerScheme = "Bearer"

type AuthMiddleware struct {
	authService *authService.AuthService
	registry    *autherr.Registry
	logger      *zap.Logger
}

func NewAuthMiddleware(svc *authService.AuthService, registry *autherr.Registry, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: svc,
		registry:    registry,
		logger:      logger,
	}
}

// Auth is the session refresh filter. It runs on every authenticated
// request: parse the inbound token, verify it (past the renewal threshold
// this hits the session store), and attach a freshly built token to the
// response before the handler writes anything.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := ExtractToken(c)
		if err != nil {
			response.Fail(c, m.registry, err)
			return
		}

		signed, sess, err := m.authService.Refresh(c.Request.Context(), raw)
		if err != nil {
			m.logger.Info("session refresh rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.Fail(c, m.registry, err)
			return
		}

		WriteToken(c, signed)

		c.Set("account_id", sess.Account.ID)
		c.Set("role", sess.Account.Role)
		c.Set("session_id", sess.Session.SessionID)

		c.Next()
	}
}

// RequireRole rejects authenticated requests whose role does not match.
// Must run after Auth().
func (m *AuthMiddleware) RequireRole(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := GetRole(c)
		if !ok || got != role {
			response.Fail(c, m.registry, autherr.Forbidden("forbidden.role"))
			return
		}
		c.Next()
	}
}

// AdminOnly combines Auth and the admin role guard.
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(auth.RoleAdmin),
	}
}

// ExtractToken reads the "Bearer : <token>" authorization value.
func ExtractToken(c *gin.Context) (string, error) {
	header := c.GetHeader(AuthorizationHeader)
	if header == "" {
		return "", autherr.BadRequest("authorization.missing")
	}

	parts := strings.Fields(header)
	if len(parts) != 3 || !strings.EqualFold(parts[0], bearerScheme) || parts[1] != ":" {
		return "", autherr.Untrustworthy("authorization.malformed",
			fmt.Errorf("malformed authorization header"))
	}

	return parts[2], nil
}

// WriteToken attaches a token to the response in the same wire format.
func WriteToken(c *gin.Context, token string) {
	c.Header(AuthorizationHeader, fmt.Sprintf("%s : %s", bearerScheme, token))
}
