// internal/service/auth/session_provider.go
package auth

import (
	"context"
	"fmt"
	"time"

	"soko-service/internal/domain/auth"
	"soko-service/internal/pkg/autherr"
	"soko-service/internal/pkg/session"

	"github.com/oklog/ulid/v2"
)

// SessionProvider verifies a parsed session payload against the externally
// stored session component and rotates the session id past the renewal
// threshold. Tokens younger than the threshold pass through without a store
// read, which is what keeps the request-for-request refresh cheap right
// after login.
type SessionProvider struct {
	store      *session.Store
	writer     *session.Writer
	renewAfter time.Duration
}

func NewSessionProvider(store *session.Store, writer *session.Writer, renewAfter time.Duration) *SessionProvider {
	return &SessionProvider{store: store, writer: writer, renewAfter: renewAfter}
}

func (p *SessionProvider) Supports(k auth.Kind) bool { return k == auth.KindUserSession }

func (p *SessionProvider) Authenticate(ctx context.Context, payload auth.Payload) (auth.Payload, error) {
	sess, ok := payload.(auth.UserSession)
	if !ok {
		return nil, autherr.Internal("internal.error",
			fmt.Errorf("session provider handed %s payload", payload.Kind()))
	}
	if !sess.Consistent() {
		return nil, autherr.Untrustworthy("token.untrustworthy",
			fmt.Errorf("session payload account mismatch"))
	}

	if p.renewAfter > 0 && sess.IssuedAt > 0 {
		age := time.Since(time.Unix(sess.IssuedAt, 0))
		if age < p.renewAfter {
			return sess, nil
		}
	}

	stored, err := p.store.Get(ctx, sess.Account.ID)
	if err != nil {
		return nil, autherr.Internal("internal.error", err)
	}
	if stored == nil {
		// TTL lapsed or the session was revoked.
		return nil, autherr.SessionExpired("session.expired",
			fmt.Errorf("no live session for account %d", sess.Account.ID))
	}
	if stored.SessionID != sess.Session.SessionID {
		// The token carries a superseded session id: it was either copied
		// or the account logged in elsewhere.
		return nil, autherr.SessionExpired("session.replayed",
			fmt.Errorf("session id mismatch for account %d", sess.Account.ID))
	}

	// Rotate. Persistence is fire-and-forget so the response is not held
	// up by the store's write latency.
	rotated := auth.SessionComponent{
		AccountID: sess.Account.ID,
		SessionID: ulid.Make().String(),
	}
	p.writer.EnqueuePut(rotated)

	return auth.UserSession{
		Account: sess.Account,
		Session: rotated,
	}, nil
}
