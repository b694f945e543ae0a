package session

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// Sessions silently expire after this long without a logout.
	tokenTTL = 7 * 24 * time.Hour

	keyPrefix = "session_"
)

// Store keeps session tokens in redis, keyed by token with the user id as
// value. Token validation is a single lookup.
type Store struct {
	inner *redis.Client
}

func NewStore() *Store {
	return &Store{
		inner: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
			Password: os.Getenv("REDIS_PASSWD"),
			DB:       0, // use default DB
		})}
}

func TokenKey(token string) string {
	return keyPrefix + token
}

// Issue creates a fresh token for the user and stores it with a TTL.
func (s *Store) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()
	if err := s.inner.Set(ctx, TokenKey(token), userID, tokenTTL).Err(); err != nil {
		return "", errors.Wrap(err, "store session token")
	}
	return token, nil
}

// Resolve returns the user id a token belongs to, or "" when the token is
// unknown or expired.
func (s *Store) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.inner.Get(ctx, TokenKey(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "resolve session token")
	}
	return userID, nil
}

// Revoke invalidates a token. Revoking an unknown token is not an error.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if err := s.inner.Del(ctx, TokenKey(token)).Err(); err != nil {
		return errors.Wrap(err, "revoke session token")
	}
	return nil
}
