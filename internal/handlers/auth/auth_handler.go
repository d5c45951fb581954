// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"soko-service/internal/domain/auth"
	"soko-service/internal/middleware"
	"soko-service/internal/pkg/autherr"
	"soko-service/internal/pkg/response"
	authUsecase "soko-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler hosts the flow-specific filters. Every failure path is the
// same: forward the typed error to the exception registry via
// response.Fail and write nothing else.
type AuthHandler struct {
	authService *authUsecase.AuthService
	registry    *autherr.Registry
	logger      *zap.Logger
}

func NewAuthHandler(svc *authUsecase.AuthService, registry *autherr.Registry, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: svc,
		registry:    registry,
		logger:      logger,
	}
}

// ========== Login ==========

// Login handles POST form login and returns the session token in the
// Authorization response header.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, h.registry, autherr.Wrap(autherr.KindBadRequestInput, "request.invalid", err))
		return
	}

	signed, sess, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.Info("login failed",
			zap.String("username", req.Username),
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		response.Fail(c, h.registry, err)
		return
	}

	middleware.WriteToken(c, signed)
	response.Success(c, http.StatusOK, "login successful", auth.MeResponse{
		AccountID: sess.Account.ID,
		Role:      string(sess.Account.Role),
		SessionID: sess.Session.SessionID,
	})
}

// ========== Logout ==========

// Logout removes the live session (requires auth).
func (h *AuthHandler) Logout(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	h.authService.Logout(c.Request.Context(), accountID)
	response.Success(c, http.StatusOK, "logout successful", nil)
}

// ========== One-time code ==========

// IssueCode verifies the destination and dispatches a one-time code; the
// code token is returned in the Authorization response header.
func (h *AuthHandler) IssueCode(c *gin.Context) {
	var req auth.CodeIssueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, h.registry, autherr.Wrap(autherr.KindBadRequestInput, "request.invalid", err))
		return
	}

	signed, err := h.authService.IssueCode(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		h.logger.Info("code issuance failed",
			zap.String("username", req.Username),
			zap.Error(err),
		)
		response.Fail(c, h.registry, err)
		return
	}

	middleware.WriteToken(c, signed)
	response.Success(c, http.StatusOK, "verification code sent", nil)
}

// VerifyCode checks the supplied code against the code token and returns
// the anonymous token in the Authorization response header.
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	raw, err := middleware.ExtractToken(c)
	if err != nil {
		response.Fail(c, h.registry, err)
		return
	}

	var req auth.CodeVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, h.registry, autherr.Wrap(autherr.KindBadRequestInput, "request.invalid", err))
		return
	}

	signed, err := h.authService.VerifyCode(c.Request.Context(), raw, req.Code, c.ClientIP())
	if err != nil {
		response.Fail(c, h.registry, err)
		return
	}

	middleware.WriteToken(c, signed)
	response.Success(c, http.StatusOK, "code verified", nil)
}

// ========== Temporary password ==========

// TemporaryPassword consumes the anonymous token and dispatches a freshly
// stored temporary credential out of band.
func (h *AuthHandler) TemporaryPassword(c *gin.Context) {
	raw, err := middleware.ExtractToken(c)
	if err != nil {
		response.Fail(c, h.registry, err)
		return
	}

	if err := h.authService.IssueTemporaryPassword(c.Request.Context(), raw, c.ClientIP()); err != nil {
		response.Fail(c, h.registry, err)
		return
	}

	response.Success(c, http.StatusOK, "temporary password sent", nil)
}

// ========== Me ==========

// Me echoes the authenticated identity (requires auth).
func (h *AuthHandler) Me(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	role, _ := middleware.GetRole(c)
	sessionID, _ := middleware.GetSessionID(c)

	response.Success(c, http.StatusOK, "ok", auth.MeResponse{
		AccountID: accountID,
		Role:      string(role),
		SessionID: sessionID,
	})
}
