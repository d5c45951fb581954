// internal/pkg/token/codec.go
package token

import (
	"errors"
	"fmt"
	"time"

	"soko-service/internal/domain/auth"
	"soko-service/internal/pkg/autherr"

	"github.com/golang-jwt/jwt/v5"
)

// Config carries the signing material and per-kind TTLs. The algorithm is
// resolved by name and restricted to the HMAC family.
type Config struct {
	Secret    string
	Algorithm string
	Issuer    string
	CodeTTL   time.Duration
	AnonTTL   time.Duration
}

// ParseInput bundles the raw token plus the request-side values a codec may
// check against the decoded claims.
type ParseInput struct {
	Token    string
	ClientIP string
	Code     string
}

// Codec builds a signed token from a payload and parses a token back into a
// payload, once per token kind.
type Codec interface {
	Supports(k auth.Kind) bool
	Build(p auth.Payload) (string, error)
	Parse(in ParseInput) (auth.Payload, error)
}

// signer is the shared signing/keyfunc core embedded by every codec.
type signer struct {
	method jwt.SigningMethod
	secret []byte
	issuer string
}

func newSigner(cfg Config) (signer, error) {
	if cfg.Secret == "" {
		return signer{}, fmt.Errorf("token: empty signing secret")
	}

	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return signer{}, fmt.Errorf("token: unknown signing algorithm %q", cfg.Algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return signer{}, fmt.Errorf("token: algorithm %q is not an HMAC method", cfg.Algorithm)
	}

	return signer{method: method, secret: []byte(cfg.Secret), issuer: cfg.Issuer}, nil
}

func (s signer) sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", autherr.Internal("internal.error", fmt.Errorf("sign token: %w", err))
	}
	return signed, nil
}

func (s signer) keyfunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return s.secret, nil
}

// mapParseError converts a decode-library failure class into its taxonomy
// kind so the raw jwt error never leaves this package.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return autherr.SessionExpired("session.expired", err)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return autherr.Untrustworthy("token.untrustworthy", err)
	default:
		return autherr.Internal("internal.error", err)
	}
}

func wrongPayload(codec string, p auth.Payload) error {
	return autherr.Internal("internal.error",
		fmt.Errorf("%s codec handed %s payload", codec, p.Kind()))
}
