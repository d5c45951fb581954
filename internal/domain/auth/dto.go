// internal/domain/auth/dto.go
package auth

// LoginRequest for user login (form encoded).
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// CodeIssueRequest identifies the account and notification destination for
// one-time-code issuance.
type CodeIssueRequest struct {
	Username    string `form:"username" binding:"required"`
	Destination string `form:"destination" binding:"required"`
	Locale      string `form:"locale"`
}

// CodeVerifyRequest carries the user-supplied code; the token from the
// issuance step rides in the Authorization header.
type CodeVerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

// MeResponse echoes the authenticated identity.
type MeResponse struct {
	AccountID int64  `json:"account_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id"`
}
