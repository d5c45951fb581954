// internal/service/auth/login_provider.go
package auth

import (
	"context"
	"errors"
	"fmt"

	"soko-service/internal/domain/auth"
	"soko-service/internal/pkg/autherr"
	"soko-service/internal/repository/postgres"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

// LoginProvider verifies username/password against the credential store.
// Unknown users and bad passwords surface identically so the response does
// not enumerate accounts.
type LoginProvider struct {
	repo CredentialStore
}

func NewLoginProvider(repo CredentialStore) *LoginProvider {
	return &LoginProvider{repo: repo}
}

func (p *LoginProvider) Supports(k auth.Kind) bool { return k == auth.KindLogin }

func (p *LoginProvider) Authenticate(ctx context.Context, payload auth.Payload) (auth.Payload, error) {
	creds, ok := payload.(auth.LoginCredentials)
	if !ok {
		return nil, autherr.Internal("internal.error",
			fmt.Errorf("login provider handed %s payload", payload.Kind()))
	}

	cred, err := p.repo.FindCredentialByUsername(ctx, creds.Username)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, autherr.InvalidCredentials("login.invalid")
	}
	if err != nil {
		return nil, autherr.Internal("internal.error", err)
	}

	// bcrypt performs a constant-time hash comparison internally.
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, autherr.InvalidCredentials("login.invalid")
	}

	return auth.UserSession{
		Account: cred.Account,
		Session: auth.SessionComponent{
			AccountID: cred.Account.ID,
			SessionID: ulid.Make().String(),
		},
	}, nil
}
