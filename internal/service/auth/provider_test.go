package auth

import (
	"context"
	"testing"
	"time"

	"soko-service/internal/domain/auth"
	"soko-service/internal/pkg/autherr"
	"soko-service/internal/pkg/session"
	"soko-service/internal/repository/postgres"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// fakeRepo is an in-memory CredentialStore.
type fakeRepo struct {
	creds        map[string]*auth.Credential
	destinations map[string]string
	updated      map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		creds:        make(map[string]*auth.Credential),
		destinations: make(map[string]string),
		updated:      make(map[string]string),
	}
}

func (f *fakeRepo) addUser(t *testing.T, username, password string, account auth.Account) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	f.creds[username] = &auth.Credential{Account: account, PasswordHash: string(hash)}
}

func (f *fakeRepo) FindCredentialByUsername(_ context.Context, username string) (*auth.Credential, error) {
	c, ok := f.creds[username]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) FindDestinationByUsername(_ context.Context, username string) (string, error) {
	d, ok := f.destinations[username]
	if !ok {
		return "", postgres.ErrNotFound
	}
	return d, nil
}

func (f *fakeRepo) UpdatePasswordHash(_ context.Context, username, passwordHash string) error {
	if _, ok := f.creds[username]; !ok {
		return postgres.ErrNotFound
	}
	f.updated[username] = passwordHash
	return nil
}

func newTestSessionInfra(t *testing.T) (*session.Store, *session.Writer) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := session.NewStore(client, time.Hour)
	writer := session.NewWriter(store, 1, zap.NewNop())
	t.Cleanup(writer.Close)

	return store, writer
}

func TestLoginProvider(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.addUser(t, "a@b.com", "secret", auth.Account{ID: 1, Role: auth.RoleUser})
	provider := NewLoginProvider(repo)
	ctx := context.Background()

	t.Run("correct credentials yield a consistent session payload", func(t *testing.T) {
		out, err := provider.Authenticate(ctx, auth.LoginCredentials{Username: "a@b.com", Password: "secret"})
		require.NoError(t, err)

		sess, ok := out.(auth.UserSession)
		require.True(t, ok)
		require.Equal(t, int64(1), sess.Account.ID)
		require.True(t, sess.Consistent())
		require.NotEmpty(t, sess.Session.SessionID)
	})

	t.Run("fresh session id per login", func(t *testing.T) {
		first, err := provider.Authenticate(ctx, auth.LoginCredentials{Username: "a@b.com", Password: "secret"})
		require.NoError(t, err)
		second, err := provider.Authenticate(ctx, auth.LoginCredentials{Username: "a@b.com", Password: "secret"})
		require.NoError(t, err)
		require.NotEqual(t,
			first.(auth.UserSession).Session.SessionID,
			second.(auth.UserSession).Session.SessionID,
		)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, auth.LoginCredentials{Username: "a@b.com", Password: "wrong"})
		require.Error(t, err)
		require.Equal(t, autherr.KindInvalidCredentials, autherr.KindOf(err))
	})

	t.Run("unknown user reads the same as wrong password", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, auth.LoginCredentials{Username: "nobody", Password: "secret"})
		require.Error(t, err)
		require.Equal(t, autherr.KindInvalidCredentials, autherr.KindOf(err))
	})

	t.Run("supports only login", func(t *testing.T) {
		require.True(t, provider.Supports(auth.KindLogin))
		require.False(t, provider.Supports(auth.KindUserSession))
	})
}

func TestSessionProvider(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	sessionFor := func(id int64, sid string, issuedAt int64) auth.UserSession {
		return auth.UserSession{
			Account:  auth.Account{ID: id, Role: auth.RoleUser},
			Session:  auth.SessionComponent{AccountID: id, SessionID: sid},
			IssuedAt: issuedAt,
		}
	}

	t.Run("matching session id rotates", func(t *testing.T) {
		store, writer := newTestSessionInfra(t)
		provider := NewSessionProvider(store, writer, 0)

		require.NoError(t, store.Put(ctx, auth.SessionComponent{AccountID: 1, SessionID: "S0"}))

		out, err := provider.Authenticate(ctx, sessionFor(1, "S0", time.Now().Unix()))
		require.NoError(t, err)

		refreshed := out.(auth.UserSession)
		require.NotEqual(t, "S0", refreshed.Session.SessionID)
		require.True(t, refreshed.Consistent())

		// rotation persists off the request path
		require.Eventually(t, func() bool {
			got, err := store.Get(ctx, 1)
			return err == nil && got != nil && got.SessionID == refreshed.Session.SessionID
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("superseded session id is a replay", func(t *testing.T) {
		store, writer := newTestSessionInfra(t)
		provider := NewSessionProvider(store, writer, 0)

		require.NoError(t, store.Put(ctx, auth.SessionComponent{AccountID: 1, SessionID: "S1"}))

		_, err := provider.Authenticate(ctx, sessionFor(1, "S0", time.Now().Unix()))
		require.Error(t, err)
		require.Equal(t, autherr.KindSessionExpired, autherr.KindOf(err))
	})

	t.Run("missing stored session is expired", func(t *testing.T) {
		store, writer := newTestSessionInfra(t)
		provider := NewSessionProvider(store, writer, 0)

		_, err := provider.Authenticate(ctx, sessionFor(2, "S0", time.Now().Unix()))
		require.Error(t, err)
		require.Equal(t, autherr.KindSessionExpired, autherr.KindOf(err))
	})

	t.Run("young token skips the store entirely", func(t *testing.T) {
		store, writer := newTestSessionInfra(t)
		provider := NewSessionProvider(store, writer, time.Hour)

		// Nothing stored: a store read would reject, the threshold skip
		// passes the payload through untouched.
		out, err := provider.Authenticate(ctx, sessionFor(3, "S0", time.Now().Unix()))
		require.NoError(t, err)
		require.Equal(t, "S0", out.(auth.UserSession).Session.SessionID)
	})

	t.Run("old token past the threshold is verified", func(t *testing.T) {
		store, writer := newTestSessionInfra(t)
		provider := NewSessionProvider(store, writer, time.Minute)

		old := time.Now().Add(-2 * time.Minute).Unix()
		_, err := provider.Authenticate(ctx, sessionFor(4, "S0", old))
		require.Error(t, err)
		require.Equal(t, autherr.KindSessionExpired, autherr.KindOf(err))
	})

	t.Run("inconsistent payload is untrustworthy", func(t *testing.T) {
		store, writer := newTestSessionInfra(t)
		provider := NewSessionProvider(store, writer, 0)

		_, err := provider.Authenticate(ctx, auth.UserSession{
			Account: auth.Account{ID: 1, Role: auth.RoleUser},
			Session: auth.SessionComponent{AccountID: 2, SessionID: "S0"},
		})
		require.Error(t, err)
		require.Equal(t, autherr.KindTokenUntrustworthy, autherr.KindOf(err))
	})
}

func TestPhoneMatchProvider(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.destinations["a@b.com"] = "010-1234-5678"
	provider := NewPhoneMatchProvider(repo)
	ctx := context.Background()

	verification := func(dest, locale string) auth.PhoneVerification {
		return auth.PhoneVerification{Username: "a@b.com", Destination: dest, Locale: locale}
	}

	t.Run("matching destination", func(t *testing.T) {
		out, err := provider.Authenticate(ctx, verification("01012345678", "ko"))
		require.NoError(t, err)
		require.Equal(t, "01012345678", out.(auth.PhoneVerification).Destination)
	})

	t.Run("international form folds to national", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, verification("+82 10-1234-5678", "ko"))
		require.NoError(t, err)
	})

	t.Run("mismatched destination", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, verification("010-9999-0000", "ko"))
		require.Error(t, err)
		require.Equal(t, autherr.KindInvalidCredentials, autherr.KindOf(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, auth.PhoneVerification{
			Username: "nobody", Destination: "01012345678", Locale: "ko",
		})
		require.Error(t, err)
		require.Equal(t, autherr.KindInvalidCredentials, autherr.KindOf(err))
	})

	t.Run("unsupported locale", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, verification("01012345678", "xx"))
		require.Error(t, err)
		require.Equal(t, autherr.KindBadRequestInput, autherr.KindOf(err))
	})

	t.Run("unparsable destination", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, verification("not-a-number", "ko"))
		require.Error(t, err)
		require.Equal(t, autherr.KindBadRequestInput, autherr.KindOf(err))
	})
}

func TestProviderResolver(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	store, writer := newTestSessionInfra(t)

	resolver := NewProviderResolver(
		NewLoginProvider(repo),
		NewSessionProvider(store, writer, 0),
		NewPhoneMatchProvider(repo),
	)

	for _, k := range []auth.Kind{auth.KindLogin, auth.KindUserSession, auth.KindPhoneVerification} {
		p, err := resolver.Resolve(k)
		require.NoError(t, err)
		require.True(t, p.Supports(k))
	}

	_, err := resolver.Resolve(auth.KindAuthNumber)
	require.Error(t, err)
	require.Equal(t, autherr.KindInternal, autherr.KindOf(err))
}
