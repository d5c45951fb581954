package autherr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(DefaultCatalog(), DefaultHandlers()...)
	require.NoError(t, err)
	return reg
}

func TestKindTree(t *testing.T) {
	t.Parallel()

	require.True(t, KindCodeExpired.IsOrDescends(KindSessionExpired))
	require.True(t, KindCodeExpired.IsOrDescends(KindTokenUntrustworthy))
	require.True(t, KindCodeExpired.IsOrDescends(KindAuth))
	require.False(t, KindSessionExpired.IsOrDescends(KindCodeExpired))
	require.False(t, KindForbidden.IsOrDescends(KindInvalidCredentials))

	for _, k := range Kinds() {
		require.True(t, k.IsOrDescends(KindAuth), "kind %s must descend from the root", k.Name())
	}
}

// Any two handlers claiming the same error must sit on one ancestor chain,
// otherwise most-specific selection would be ambiguous.
func TestHandlerComparabilityProperty(t *testing.T) {
	t.Parallel()

	handlers := DefaultHandlers()
	for _, k := range Kinds() {
		var matching []*Kind
		for _, h := range handlers {
			if k.IsOrDescends(h.Declared) {
				matching = append(matching, h.Declared)
			}
		}
		require.NotEmpty(t, matching, "kind %s has no handler", k.Name())

		for i := 0; i < len(matching); i++ {
			for j := i + 1; j < len(matching); j++ {
				a, b := matching[i], matching[j]
				oneWay := a.IsOrDescends(b)
				otherWay := b.IsOrDescends(a)
				require.True(t, oneWay != otherWay,
					"handlers %s and %s are not comparable for kind %s",
					a.Name(), b.Name(), k.Name())
			}
		}
	}
}

func TestRegistryValidation(t *testing.T) {
	t.Parallel()

	t.Run("root must be handled", func(t *testing.T) {
		_, err := NewRegistry(DefaultCatalog(),
			Handler{Declared: KindBadRequestInput, Status: http.StatusBadRequest},
		)
		require.Error(t, err)
	})

	t.Run("duplicate declarations rejected", func(t *testing.T) {
		_, err := NewRegistry(DefaultCatalog(),
			Handler{Declared: KindAuth, Status: http.StatusInternalServerError},
			Handler{Declared: KindAuth, Status: http.StatusBadGateway},
		)
		require.Error(t, err)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		rogue := &Kind{name: "rogue"}
		_, err := NewRegistry(DefaultCatalog(),
			Handler{Declared: KindAuth, Status: http.StatusInternalServerError},
			Handler{Declared: rogue, Status: http.StatusTeapot},
		)
		require.Error(t, err)
	})
}

func TestResolveStatusMapping(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"bad request", BadRequest("request.invalid"), http.StatusBadRequest},
		{"invalid credentials", InvalidCredentials("login.invalid"), http.StatusUnauthorized},
		{"untrustworthy token", Untrustworthy("token.untrustworthy", errors.New("sig")), http.StatusUnauthorized},
		{"session expired", SessionExpired("session.expired", errors.New("ttl")), http.StatusUnauthorized},
		{"code expired", CodeExpired(errors.New("ttl")), http.StatusUnauthorized},
		{"forbidden", Forbidden("forbidden.role"), http.StatusForbidden},
		{"internal", Internal("internal.error", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := reg.Resolve(tc.err, "en")
			require.Equal(t, tc.status, resp.Status)
			require.NotEmpty(t, resp.Message)
		})
	}
}

func TestResolveMessages(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)

	t.Run("session expiry and code expiry read differently", func(t *testing.T) {
		sessionMsg := reg.Resolve(SessionExpired("session.expired", nil), "en").Message
		codeMsg := reg.Resolve(CodeExpired(nil), "en").Message
		require.NotEqual(t, sessionMsg, codeMsg)
	})

	t.Run("locale selects the catalog", func(t *testing.T) {
		en := reg.Resolve(InvalidCredentials("login.invalid"), "en").Message
		ko := reg.Resolve(InvalidCredentials("login.invalid"), "ko-KR,ko;q=0.9").Message
		require.NotEqual(t, en, ko)
	})

	t.Run("unknown locale falls back to english", func(t *testing.T) {
		en := reg.Resolve(InvalidCredentials("login.invalid"), "en").Message
		fr := reg.Resolve(InvalidCredentials("login.invalid"), "fr").Message
		require.Equal(t, en, fr)
	})
}

func TestInternalDetailsSuppressed(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)

	cause := errors.New("pgx: connection refused on 10.0.0.3")
	resp := reg.Resolve(Internal("internal.error", cause), "en")

	require.Equal(t, http.StatusInternalServerError, resp.Status)
	require.Nil(t, resp.Details)
	require.NotContains(t, resp.Message, "pgx")
	require.NotContains(t, resp.Message, "10.0.0.3")
}

func TestClassifyWrapsForeignErrors(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)

	t.Run("raw error becomes internal", func(t *testing.T) {
		resp := reg.Resolve(errors.New("redis: broken pipe"), "en")
		require.Equal(t, http.StatusInternalServerError, resp.Status)
		require.NotContains(t, resp.Message, "redis")
	})

	t.Run("wrapped taxonomy error keeps its kind", func(t *testing.T) {
		err := InvalidCredentials("login.invalid")
		wrapped := errors.Join(errors.New("outer"), err)
		require.Equal(t, KindInvalidCredentials, KindOf(wrapped))
	})

	t.Run("details survive resolution for client kinds", func(t *testing.T) {
		err := BadRequest("destination.format").WithDetail("destination", "abc")
		resp := reg.Resolve(err, "en")
		require.Equal(t, "abc", resp.Details["destination"])
	})
}
