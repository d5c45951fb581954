// internal/pkg/token/code.go
package token

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"soko-service/internal/domain/auth"
	"soko-service/internal/pkg/autherr"

	"github.com/golang-jwt/jwt/v5"
)

type codeClaims struct {
	ClientIP string `json:"client_ip"`
	Code     string `json:"code"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// CodeCodec builds and parses the short-lived one-time-code token. Parse
// requires the decoded client IP to equal the request's remote address and
// the decoded code to equal the value the caller supplied.
type CodeCodec struct {
	signer
	ttl time.Duration
}

func NewCodeCodec(cfg Config) (*CodeCodec, error) {
	s, err := newSigner(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.CodeTTL <= 0 {
		return nil, fmt.Errorf("token: non-positive code ttl")
	}
	return &CodeCodec{signer: s, ttl: cfg.CodeTTL}, nil
}

func (c *CodeCodec) Supports(k auth.Kind) bool { return k == auth.KindAuthNumber }

func (c *CodeCodec) Build(p auth.Payload) (string, error) {
	num, ok := p.(auth.AuthNumber)
	if !ok {
		return "", wrongPayload("code", p)
	}

	if num.ClientIP == "" || num.Code == "" || num.Email == "" {
		return "", autherr.BadRequest("request.invalid")
	}

	now := time.Now()
	claims := codeClaims{
		ClientIP: num.ClientIP,
		Code:     num.Code,
		Email:    num.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return c.sign(claims)
}

func (c *CodeCodec) Parse(in ParseInput) (auth.Payload, error) {
	tok, err := jwt.ParseWithClaims(in.Token, &codeClaims{}, c.keyfunc,
		jwt.WithIssuer(c.issuer), jwt.WithExpirationRequired())
	if err != nil {
		// A lapsed one-time code gets its own class so the user sees
		// "time limit expired" instead of "please log in again".
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherr.CodeExpired(err)
		}
		return nil, mapParseError(err)
	}

	claims, ok := tok.Claims.(*codeClaims)
	if !ok || !tok.Valid {
		return nil, autherr.Untrustworthy("token.untrustworthy", fmt.Errorf("invalid code claims"))
	}

	if subtle.ConstantTimeCompare([]byte(claims.Code), []byte(in.Code)) != 1 {
		return nil, autherr.Untrustworthy("code.invalid", fmt.Errorf("code claim mismatch"))
	}
	if claims.ClientIP != in.ClientIP {
		return nil, autherr.Untrustworthy("token.claim_mismatch", fmt.Errorf("client ip claim mismatch"))
	}

	return auth.AuthNumber{
		ClientIP: claims.ClientIP,
		Code:     claims.Code,
		Email:    claims.Email,
		Token:    in.Token,
	}, nil
}
