package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store is the Redis-backed session store shared by the HTTP handlers and
// the chat gateway. Create/Revoke are used by the HTTP side; Resolve is the
// read-only path the gateway authenticates against.
type Store struct {
	redis  *redis.Client
	secret string
	ttl    time.Duration
}

func NewStore(redisClient *redis.Client, secret string, ttl time.Duration) *Store {
	return &Store{
		redis:  redisClient,
		secret: secret,
		ttl:    ttl,
	}
}

// Create registers a new session for userID and returns the credential the
// client presents on subsequent requests.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	sid := uuid.New().String()
	if err := s.redis.Set(ctx, keyPrefix+sid, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return signToken(s.secret, sid)
}

// Resolve maps a credential to the user identity that owns the session.
// It never mutates the store. Callers bound the call with a context
// deadline; deadline overrun surfaces as ErrStoreUnavailable.
func (s *Store) Resolve(ctx context.Context, credential string) (string, error) {
	if credential == "" {
		return "", ErrInvalidSession
	}
	sid, err := parseToken(s.secret, credential)
	if err != nil {
		return "", err
	}

	userID, err := s.redis.Get(ctx, keyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrExpiredSession
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return userID, nil
}

// Revoke deletes the session behind a credential and returns the user it
// belonged to, so the caller can evict that user's live connections.
// Revoking an unknown or already-expired session is not an error.
func (s *Store) Revoke(ctx context.Context, credential string) (string, error) {
	sid, err := parseToken(s.secret, credential)
	if err != nil {
		return "", err
	}

	key := keyPrefix + sid
	userID, err := s.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return userID, nil
}
