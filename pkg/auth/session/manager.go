package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/config"
	redisclient "github.com/xcelerate-fit/xcelerate-backend/pkg/redis"
)

const refreshTokenBytes = 32

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrSessionNotFound     = errors.New("session not found")

	errAccessIDRequired = errors.New("access id is required")
)

// store is the slice of the redis client sessions live in. Keys are built by the
// client so they share its prefix.
type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker is what the auth middleware needs to reject access tokens
// whose session was revoked.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Record is stored under an access id (the access token jti). Only a digest of
// the refresh token is kept.
type Record struct {
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (r *Record) matches(token string) bool {
	want := []byte(r.TokenHash)
	got := []byte(digest(token))
	return subtle.ConstantTimeCompare(want, got) == 1
}

// Manager issues, rotates and revokes refresh sessions.
type Manager struct {
	store store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	refresh, access := cfg.RefreshTokenTTL(), cfg.AccessTokenTTL()
	switch {
	case refresh <= 0:
		return nil, errors.New("refresh token ttl must be positive")
	case refresh <= access:
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", refresh, access)
	}
	return &Manager{store: client, ttl: refresh, now: time.Now}, nil
}

// NewAccessID returns a fresh jti for an access token.
func NewAccessID() string {
	return uuid.NewString()
}

// Generate opens a session for userID keyed by accessID and returns the refresh
// token the client must present to rotate it.
func (m *Manager) Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error) {
	if blank(accessID) {
		return "", errAccessIDRequired
	}
	if userID == uuid.Nil {
		return "", errors.New("user id is required")
	}
	return m.open(ctx, accessID, userID)
}

// Rotate exchanges a refresh token for a new access id and refresh token. The old
// session is deleted only after the new one is stored.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, refreshToken string) (string, string, error) {
	if blank(oldAccessID) || blank(refreshToken) {
		return "", "", ErrInvalidRefreshToken
	}
	record, err := m.Lookup(ctx, oldAccessID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return "", "", ErrInvalidRefreshToken
	case err != nil:
		return "", "", err
	case !record.matches(refreshToken):
		return "", "", ErrInvalidRefreshToken
	}

	accessID := NewAccessID()
	token, err := m.open(ctx, accessID, record.UserID)
	if err != nil {
		return "", "", err
	}
	if err := m.store.Del(ctx, m.store.AccessSessionKey(oldAccessID)); err != nil {
		return "", "", err
	}
	return accessID, token, nil
}

func (m *Manager) Lookup(ctx context.Context, accessID string) (*Record, error) {
	if blank(accessID) {
		return nil, errAccessIDRequired
	}
	raw, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID))
	if errors.Is(err, redislib.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	record := new(Record)
	if err := json.Unmarshal([]byte(raw), record); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return record, nil
}

// Revoke ends the session. Revoking a missing session is not an error.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if blank(accessID) {
		return errAccessIDRequired
	}
	return m.store.Del(ctx, m.store.AccessSessionKey(accessID))
}

func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	_, err := m.Lookup(ctx, accessID)
	if errors.Is(err, ErrSessionNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *Manager) open(ctx context.Context, accessID string, userID uuid.UUID) (string, error) {
	token, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	now := m.now().UTC()
	payload, err := json.Marshal(Record{
		UserID:    userID,
		TokenHash: digest(token),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	})
	if err != nil {
		return "", err
	}
	if err := m.store.Set(ctx, m.store.AccessSessionKey(accessID), string(payload), m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
