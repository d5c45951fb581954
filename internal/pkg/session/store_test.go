package session

import (
	"context"
	"testing"
	"time"

	"soko-service/internal/domain/auth"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, ttl), mr
}

func TestStorePutGet(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	sc := auth.SessionComponent{AccountID: 42, SessionID: "S0"}
	require.NoError(t, store.Put(ctx, sc))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, sc, *got)
}

func TestStoreGetMissReturnsNil(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Hour)

	got, err := store.Get(context.Background(), 99)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestStoreLastWriteWins(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, auth.SessionComponent{AccountID: 42, SessionID: "S0"}))
	require.NoError(t, store.Put(ctx, auth.SessionComponent{AccountID: 42, SessionID: "S1"}))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "S1", got.SessionID)
}

func TestStoreTTLExpiry(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, auth.SessionComponent{AccountID: 42, SessionID: "S0"}))

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, got, "long-idle session must vanish via TTL alone")
}

func TestStoreDeleteIdempotent(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, auth.SessionComponent{AccountID: 42, SessionID: "S0"}))
	require.NoError(t, store.Delete(ctx, 42))
	require.NoError(t, store.Delete(ctx, 42))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestWriterPersistsAsync(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Hour)
	writer := NewWriter(store, 2, zap.NewNop())
	t.Cleanup(writer.Close)

	writer.EnqueuePut(auth.SessionComponent{AccountID: 7, SessionID: "rotated"})

	require.Eventually(t, func() bool {
		got, err := store.Get(context.Background(), 7)
		return err == nil && got != nil && got.SessionID == "rotated"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWriterDelete(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Hour)
	writer := NewWriter(store, 1, zap.NewNop())
	t.Cleanup(writer.Close)

	require.NoError(t, store.Put(context.Background(), auth.SessionComponent{AccountID: 7, SessionID: "S0"}))
	writer.EnqueueDelete(7)

	require.Eventually(t, func() bool {
		got, err := store.Get(context.Background(), 7)
		return err == nil && got == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWriterDeleteRetryIsTickerPaced(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewStore(client, time.Hour)
	core, logs := observer.New(zap.WarnLevel)
	writer := NewWriter(store, 1, zap.New(core))

	// store goes dark before the delete lands
	mr.Close()
	writer.EnqueueDelete(7)

	failures := func() int {
		return logs.FilterMessageSnippet("failed to delete session").Len()
	}
	require.Eventually(t, func() bool {
		return failures() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// the failed delete waits for the retry ticker instead of spinning
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, 1, failures())

	writer.Close()
}

func TestWriterEnqueueAfterClose(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Hour)
	writer := NewWriter(store, 1, zap.NewNop())
	writer.Close()

	ctx := context.Background()

	// late arrivals fall back to synchronous writes
	require.NotPanics(t, func() {
		writer.EnqueuePut(auth.SessionComponent{AccountID: 7, SessionID: "S1"})
	})
	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "S1", got.SessionID)

	require.NotPanics(t, func() { writer.EnqueueDelete(7) })
	got, err = store.Get(ctx, 7)
	require.NoError(t, err)
	require.Nil(t, got)

	require.NotPanics(t, writer.Close)
}
