// internal/pkg/token/resolver.go
package token

import (
	"fmt"

	"soko-service/internal/domain/auth"
	"soko-service/internal/pkg/autherr"
)

// Resolver selects the codec supporting a payload kind. A miss indicates a
// wiring bug, never a client-input problem, and must not be retried.
type Resolver struct {
	codecs []Codec
}

func NewResolver(codecs ...Codec) *Resolver {
	return &Resolver{codecs: codecs}
}

// Resolve returns the first codec that supports k.
func (r *Resolver) Resolve(k auth.Kind) (Codec, error) {
	for _, c := range r.codecs {
		if c.Supports(k) {
			return c, nil
		}
	}
	return nil, autherr.Internal("internal.error", fmt.Errorf("no codec supports kind %s", k))
}

// NewDefaultResolver wires the three production codecs from one config.
func NewDefaultResolver(cfg Config) (*Resolver, error) {
	sessionCodec, err := NewSessionCodec(cfg)
	if err != nil {
		return nil, err
	}
	codeCodec, err := NewCodeCodec(cfg)
	if err != nil {
		return nil, err
	}
	anonCodec, err := NewAnonymousCodec(cfg)
	if err != nil {
		return nil, err
	}
	return NewResolver(sessionCodec, codeCodec, anonCodec), nil
}
