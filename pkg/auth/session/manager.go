package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/identity"
	redisclient "github.com/PHRJr/BuritisProject/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when the session expired, was destroyed or never existed.
var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager stores session records in Redis keyed by an opaque id.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
	now   func() time.Time
}

// Resolver exposes the read-only surface needed by middleware.
type Resolver interface {
	Get(ctx context.Context, sessionID string) (identity.Identity, error)
}

type record struct {
	identity.Identity
	CreatedAt time.Time `json:"created_at"`
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.TTL,
		now:   time.Now,
	}, nil
}

// TTL returns the lifetime of new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create persists a new session for id and returns its opaque identifier.
func (m *Manager) Create(ctx context.Context, id identity.Identity) (string, error) {
	if err := id.Validate(); err != nil {
		return "", fmt.Errorf("invalid identity: %w", err)
	}

	payload, err := json.Marshal(record{Identity: id, CreatedAt: m.now().UTC()})
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}

	sessionID := NewSessionID()
	if err := m.store.Set(ctx, m.keyer.SessionKey(sessionID), string(payload), m.ttl); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return sessionID, nil
}

// Get loads the identity bound to sessionID.
func (m *Manager) Get(ctx context.Context, sessionID string) (identity.Identity, error) {
	if strings.TrimSpace(sessionID) == "" {
		return identity.Identity{}, ErrSessionNotFound
	}

	raw, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return identity.Identity{}, ErrSessionNotFound
		}
		return identity.Identity{}, err
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return identity.Identity{}, fmt.Errorf("decoding session: %w", err)
	}
	if err := rec.Identity.Validate(); err != nil {
		return identity.Identity{}, ErrSessionNotFound
	}
	return rec.Identity, nil
}

// Destroy deletes the session. Destroying an unknown id is not an error.
func (m *Manager) Destroy(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}

// NewSessionID produces the identifier used as the cookie jti and Redis key.
func NewSessionID() string {
	return uuid.NewString()
}
