// internal/pkg/session/store.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"soko-service/internal/domain/auth"

	"github.com/redis/go-redis/v9"
)

// Store is the narrow adapter over the external key-value store holding the
// per-account session component. The store's TTL is the sole expiry
// mechanism for sessions: nothing here ever scans for stale entries, and
// every Put replaces the previous value, which is what enforces
// single-live-session-per-account without locking.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Get returns the stored session component for an account, or nil when the
// account has no live session (never written, deleted, or TTL-expired).
func (s *Store) Get(ctx context.Context, accountID int64) (*auth.SessionComponent, error) {
	data, err := s.client.Get(ctx, s.key(accountID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session store get: %w", err)
	}

	var sc auth.SessionComponent
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("unmarshal session component: %w", err)
	}

	return &sc, nil
}

// Put stores the session component with the configured TTL, replacing any
// previous value for the account (last write wins).
func (s *Store) Put(ctx context.Context, sc auth.SessionComponent) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal session component: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sc.AccountID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store put: %w", err)
	}

	return nil
}

// Delete removes the account's session component. Deleting an absent key is
// not an error.
func (s *Store) Delete(ctx context.Context, accountID int64) error {
	if err := s.client.Del(ctx, s.key(accountID)).Err(); err != nil {
		return fmt.Errorf("session store delete: %w", err)
	}
	return nil
}

func (s *Store) key(accountID int64) string {
	return fmt.Sprintf("session:%d", accountID)
}
