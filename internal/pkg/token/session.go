// internal/pkg/token/session.go
package token

import (
	"fmt"
	"time"

	"soko-service/internal/domain/auth"
	"soko-service/internal/pkg/autherr"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims is the claim set of the primary session token. It carries
// no exp claim: session expiry is enforced entirely by the session store's
// TTL, so a session can be revoked without first decoding a live token.
// iat is present so stale-but-unrevoked tokens remain inspectable.
type sessionClaims struct {
	AccountID int64  `json:"account_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// SessionCodec builds and parses the primary session token.
type SessionCodec struct {
	signer
}

func NewSessionCodec(cfg Config) (*SessionCodec, error) {
	s, err := newSigner(cfg)
	if err != nil {
		return nil, err
	}
	return &SessionCodec{signer: s}, nil
}

func (c *SessionCodec) Supports(k auth.Kind) bool { return k == auth.KindUserSession }

func (c *SessionCodec) Build(p auth.Payload) (string, error) {
	sess, ok := p.(auth.UserSession)
	if !ok {
		return "", wrongPayload("session", p)
	}

	if sess.Account.ID == 0 || sess.Session.SessionID == "" || !sess.Account.Role.Valid() {
		return "", autherr.BadRequest("request.invalid")
	}
	if !sess.Consistent() {
		return "", autherr.Internal("internal.error",
			fmt.Errorf("session payload account mismatch: %d != %d",
				sess.Account.ID, sess.Session.AccountID))
	}

	now := time.Now()
	claims := sessionClaims{
		AccountID: sess.Account.ID,
		Role:      string(sess.Account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   c.issuer,
			Subject:  fmt.Sprintf("%d", sess.Account.ID),
			ID:       sess.Session.SessionID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	return c.sign(claims)
}

func (c *SessionCodec) Parse(in ParseInput) (auth.Payload, error) {
	tok, err := jwt.ParseWithClaims(in.Token, &sessionClaims{}, c.keyfunc,
		jwt.WithIssuer(c.issuer))
	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := tok.Claims.(*sessionClaims)
	if !ok || !tok.Valid {
		return nil, autherr.Untrustworthy("token.untrustworthy", fmt.Errorf("invalid session claims"))
	}

	role := auth.Role(claims.Role)
	if claims.AccountID == 0 || claims.ID == "" || !role.Valid() {
		return nil, autherr.Untrustworthy("token.untrustworthy", fmt.Errorf("incomplete session claims"))
	}

	var issuedAt int64
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Unix()
	}

	return auth.UserSession{
		Account: auth.Account{ID: claims.AccountID, Role: role},
		Session: auth.SessionComponent{
			AccountID: claims.AccountID,
			SessionID: claims.ID,
		},
		IssuedAt: issuedAt,
	}, nil
}
