// internal/service/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"

	"soko-service/internal/domain/auth"
	"soko-service/internal/pkg/autherr"
	"soko-service/internal/pkg/session"
	"soko-service/internal/pkg/token"
	"soko-service/internal/repository/postgres"
	"soko-service/internal/service/notification"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	codeDigits         = 6
	tempPasswordLength = 12
)

// AuthService orchestrates the authentication flows: each public method is
// the body of one request filter. It resolves the provider and codec for
// the flow's payload kind, runs the verification, and builds the outbound
// token. All failures are typed; nothing is recovered locally.
type AuthService struct {
	providers *ProviderResolver
	codecs    *token.Resolver
	store     *session.Store
	writer    *session.Writer
	repo      CredentialStore
	notifier  notification.Sender
	logger    *zap.Logger
}

func NewAuthService(
	providers *ProviderResolver,
	codecs *token.Resolver,
	store *session.Store,
	writer *session.Writer,
	repo CredentialStore,
	notifier notification.Sender,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		providers: providers,
		codecs:    codecs,
		store:     store,
		writer:    writer,
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
	}
}

// ========== Login ==========

// Login verifies credentials, persists the freshly minted session component
// and returns the session token. The login persist is synchronous: the
// token must not reach the client before its session id is live.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (string, auth.UserSession, error) {
	provider, err := s.providers.Resolve(auth.KindLogin)
	if err != nil {
		return "", auth.UserSession{}, err
	}

	verified, err := provider.Authenticate(ctx, auth.LoginCredentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return "", auth.UserSession{}, err
	}

	sess, ok := verified.(auth.UserSession)
	if !ok {
		return "", auth.UserSession{}, autherr.Internal("internal.error",
			fmt.Errorf("login provider returned %s payload", verified.Kind()))
	}

	if err := s.store.Put(ctx, sess.Session); err != nil {
		return "", auth.UserSession{}, autherr.Internal("internal.error", err)
	}

	signed, err := s.buildToken(sess)
	if err != nil {
		return "", auth.UserSession{}, err
	}

	s.logger.Info("user logged in", zap.Int64("account_id", sess.Account.ID))
	return signed, sess, nil
}

// ========== Session refresh ==========

// Refresh parses an inbound session token, verifies it against the session
// store when past the renewal threshold, and returns the token to attach to
// the response.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (string, auth.UserSession, error) {
	codec, err := s.codecs.Resolve(auth.KindUserSession)
	if err != nil {
		return "", auth.UserSession{}, err
	}

	parsed, err := codec.Parse(token.ParseInput{Token: rawToken})
	if err != nil {
		return "", auth.UserSession{}, err
	}

	provider, err := s.providers.Resolve(auth.KindUserSession)
	if err != nil {
		return "", auth.UserSession{}, err
	}

	verified, err := provider.Authenticate(ctx, parsed)
	if err != nil {
		return "", auth.UserSession{}, err
	}

	sess, ok := verified.(auth.UserSession)
	if !ok {
		return "", auth.UserSession{}, autherr.Internal("internal.error",
			fmt.Errorf("session provider returned %s payload", verified.Kind()))
	}

	signed, err := s.buildToken(sess)
	if err != nil {
		return "", auth.UserSession{}, err
	}

	return signed, sess, nil
}

// ========== Logout ==========

// Logout removes the account's live session. A failed store delete is
// handed to the writer's retry queue rather than bubbling to the client.
func (s *AuthService) Logout(ctx context.Context, accountID int64) {
	if err := s.store.Delete(ctx, accountID); err != nil {
		s.logger.Warn("session delete failed, queueing retry",
			zap.Int64("account_id", accountID), zap.Error(err))
		s.writer.EnqueueDelete(accountID)
	}
}

// ========== One-time code ==========

// IssueCode verifies the destination for the account, dispatches a random
// numeric code out of band and returns the code token binding code, client
// IP and account together.
func (s *AuthService) IssueCode(ctx context.Context, req *auth.CodeIssueRequest, clientIP string) (string, error) {
	provider, err := s.providers.Resolve(auth.KindPhoneVerification)
	if err != nil {
		return "", err
	}

	verified, err := provider.Authenticate(ctx, auth.PhoneVerification{
		Username:    req.Username,
		Destination: req.Destination,
		Locale:      req.Locale,
	})
	if err != nil {
		return "", err
	}

	match, ok := verified.(auth.PhoneVerification)
	if !ok {
		return "", autherr.Internal("internal.error",
			fmt.Errorf("phone provider returned %s payload", verified.Kind()))
	}

	code, err := randomNumericCode(codeDigits)
	if err != nil {
		return "", autherr.Internal("internal.error", err)
	}

	if err := s.notifier.SendCode(ctx, match.Destination, code); err != nil {
		return "", autherr.Internal("internal.error", err)
	}

	codec, err := s.codecs.Resolve(auth.KindAuthNumber)
	if err != nil {
		return "", err
	}

	signed, err := codec.Build(auth.AuthNumber{
		ClientIP: clientIP,
		Code:     code,
		Email:    match.Username,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("one-time code issued", zap.String("username", match.Username))
	return signed, nil
}

// VerifyCode checks the supplied code and client IP against the code token
// and mints the anonymous token proving "verified but not logged in".
func (s *AuthService) VerifyCode(ctx context.Context, rawToken, code, clientIP string) (string, error) {
	codec, err := s.codecs.Resolve(auth.KindAuthNumber)
	if err != nil {
		return "", err
	}

	parsed, err := codec.Parse(token.ParseInput{
		Token:    rawToken,
		ClientIP: clientIP,
		Code:     code,
	})
	if err != nil {
		return "", err
	}

	num, ok := parsed.(auth.AuthNumber)
	if !ok {
		return "", autherr.Internal("internal.error",
			fmt.Errorf("code codec returned %s payload", parsed.Kind()))
	}

	anonCodec, err := s.codecs.Resolve(auth.KindAnonymousSession)
	if err != nil {
		return "", err
	}

	return anonCodec.Build(auth.AnonymousSession{
		ClientIP: num.ClientIP,
		Email:    num.Email,
	})
}

// ========== Temporary password ==========

// IssueTemporaryPassword consumes an anonymous token, stores a fresh hashed
// temporary credential and dispatches it out of band.
func (s *AuthService) IssueTemporaryPassword(ctx context.Context, rawToken, clientIP string) error {
	codec, err := s.codecs.Resolve(auth.KindAnonymousSession)
	if err != nil {
		return err
	}

	parsed, err := codec.Parse(token.ParseInput{
		Token:    rawToken,
		ClientIP: clientIP,
	})
	if err != nil {
		return err
	}

	anon, ok := parsed.(auth.AnonymousSession)
	if !ok {
		return autherr.Internal("internal.error",
			fmt.Errorf("anonymous codec returned %s payload", parsed.Kind()))
	}

	tempPassword, err := randomTempPassword(tempPasswordLength)
	if err != nil {
		return autherr.Internal("internal.error", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return autherr.Internal("internal.error", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, anon.Email, string(hash)); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return autherr.InvalidCredentials("login.invalid")
		}
		return autherr.Internal("internal.error", err)
	}

	if err := s.notifier.SendTemporaryCredential(ctx, anon.Email, tempPassword); err != nil {
		return autherr.Internal("internal.error", err)
	}

	s.logger.Info("temporary password issued", zap.String("username", anon.Email))
	return nil
}

func (s *AuthService) buildToken(sess auth.UserSession) (string, error) {
	codec, err := s.codecs.Resolve(auth.KindUserSession)
	if err != nil {
		return "", err
	}
	return codec.Build(sess)
}
