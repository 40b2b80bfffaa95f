package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidRefreshToken covers unknown sessions and mismatched refresh tokens.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

const refreshTokenBytes = 32

// AccessSessionChecker is the read-only view middleware uses to confirm an
// access token's session has not been revoked.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Store is the subset of the redis client the session manager needs.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// Manager tracks live sessions in redis, keyed by access token id. A session
// holds the refresh token that may rotate it; deleting the key revokes both
// the refresh token and the access token it was issued with.
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager wires the manager to its backing store.
func NewManager(store Store, refreshTTL time.Duration) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if refreshTTL <= 0 {
		return nil, fmt.Errorf("refresh ttl must be positive")
	}
	return &Manager{store: store, ttl: refreshTTL}, nil
}

// NewAccessID returns a fresh session identifier for use as a token jti.
func (m *Manager) NewAccessID() string {
	return uuid.NewString()
}

// Generate creates a session for the access id and returns its refresh token.
func (m *Manager) Generate(ctx context.Context, accessID string) (string, error) {
	if accessID == "" {
		return "", fmt.Errorf("access id is required")
	}
	refresh, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	key := m.store.AccessSessionKey(accessID)
	if err := m.store.Set(ctx, key, refresh, m.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return refresh, nil
}

// Rotate atomically replaces the session: the old access id is revoked and a
// session is created under the new one. The presented refresh token must match
// the stored value.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, refreshToken, newAccessID string) (string, error) {
	if err := m.verify(ctx, oldAccessID, refreshToken); err != nil {
		return "", err
	}
	if err := m.Revoke(ctx, oldAccessID); err != nil {
		return "", err
	}
	return m.Generate(ctx, newAccessID)
}

// Revoke deletes the session for the access id. Revoking an absent session is
// not an error.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if accessID == "" {
		return nil
	}
	if err := m.store.Del(ctx, m.store.AccessSessionKey(accessID)); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// HasSession reports whether the access id still maps to a live session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if accessID == "" {
		return false, nil
	}
	_, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("load session: %w", err)
	}
	return true, nil
}

func (m *Manager) verify(ctx context.Context, accessID, refreshToken string) error {
	if accessID == "" || refreshToken == "" {
		return ErrInvalidRefreshToken
	}
	stored, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidRefreshToken
		}
		return fmt.Errorf("load session: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return ErrInvalidRefreshToken
	}
	return nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
