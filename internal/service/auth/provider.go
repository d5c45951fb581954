// internal/service/auth/provider.go
package auth

import (
	"context"
	"fmt"

	"soko-service/internal/domain/auth"
	"soko-service/internal/pkg/autherr"
)

// CredentialStore is the narrow contract over the relational store; user
// CRUD and everything else about accounts stays outside the auth core.
type CredentialStore interface {
	FindCredentialByUsername(ctx context.Context, username string) (*auth.Credential, error)
	FindDestinationByUsername(ctx context.Context, username string) (string, error)
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
}

// Provider performs the business verification one flow requires and hands
// back the authenticated payload. Providers are selected by payload kind,
// mirroring the codec resolver.
type Provider interface {
	Supports(k auth.Kind) bool
	Authenticate(ctx context.Context, p auth.Payload) (auth.Payload, error)
}

// ProviderResolver selects the provider supporting a payload kind; a miss
// is a wiring bug, never client input.
type ProviderResolver struct {
	providers []Provider
}

func NewProviderResolver(providers ...Provider) *ProviderResolver {
	return &ProviderResolver{providers: providers}
}

func (r *ProviderResolver) Resolve(k auth.Kind) (Provider, error) {
	for _, p := range r.providers {
		if p.Supports(k) {
			return p, nil
		}
	}
	return nil, autherr.Internal("internal.error", fmt.Errorf("no provider supports kind %s", k))
}
