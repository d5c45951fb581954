// internal/pkg/token/anonymous.go
package token

import (
	"fmt"
	"time"

	"soko-service/internal/domain/auth"
	"soko-service/internal/pkg/autherr"

	"github.com/golang-jwt/jwt/v5"
)

type anonymousClaims struct {
	ClientIP string `json:"client_ip"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// AnonymousCodec builds and parses the medium-TTL token that proves
// "code verified but not logged in".
type AnonymousCodec struct {
	signer
	ttl time.Duration
}

func NewAnonymousCodec(cfg Config) (*AnonymousCodec, error) {
	s, err := newSigner(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AnonTTL <= 0 {
		return nil, fmt.Errorf("token: non-positive anonymous ttl")
	}
	return &AnonymousCodec{signer: s, ttl: cfg.AnonTTL}, nil
}

func (c *AnonymousCodec) Supports(k auth.Kind) bool { return k == auth.KindAnonymousSession }

func (c *AnonymousCodec) Build(p auth.Payload) (string, error) {
	anon, ok := p.(auth.AnonymousSession)
	if !ok {
		return "", wrongPayload("anonymous", p)
	}

	if anon.ClientIP == "" || anon.Email == "" {
		return "", autherr.BadRequest("request.invalid")
	}

	now := time.Now()
	claims := anonymousClaims{
		ClientIP: anon.ClientIP,
		Email:    anon.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return c.sign(claims)
}

func (c *AnonymousCodec) Parse(in ParseInput) (auth.Payload, error) {
	tok, err := jwt.ParseWithClaims(in.Token, &anonymousClaims{}, c.keyfunc,
		jwt.WithIssuer(c.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := tok.Claims.(*anonymousClaims)
	if !ok || !tok.Valid {
		return nil, autherr.Untrustworthy("token.untrustworthy", fmt.Errorf("invalid anonymous claims"))
	}

	if claims.ClientIP != in.ClientIP {
		return nil, autherr.Untrustworthy("token.claim_mismatch", fmt.Errorf("client ip claim mismatch"))
	}

	return auth.AnonymousSession{
		ClientIP: claims.ClientIP,
		Email:    claims.Email,
		Token:    in.Token,
	}, nil
}
