// Package auth implements Google OAuth login and Redis-backed sessions.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when a token is unknown or expired.
var ErrNoSession = errors.New("no such session")

// Session identifies a logged-in user.
type Session struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps sessions in Redis, one key per token, expiring with the TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore connects to Redis and verifies connectivity.
func NewStore(addr, password string, ttl time.Duration) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &Store{client: client, ttl: ttl}, nil
}

func sessionKey(token string) string { return "session:" + token }

// Create stores a new session and returns its opaque token.
func (s *Store) Create(ctx context.Context, sess Session) (string, error) {
	sess.CreatedAt = time.Now().UTC()
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, sessionKey(token), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get resolves a token. Unknown and expired tokens both return ErrNoSession.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Delete logs the token out.
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

func subscriberKey(email string) string { return "subscriber:" + email }

// Subscribed reports whether the user holds an active subscription. The flag
// is written by the billing system; this service only reads it.
func (s *Store) Subscribed(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Exists(ctx, subscriberKey(email)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetSubscribed flips the subscription flag, mainly for manual grants and
// tests.
func (s *Store) SetSubscribed(ctx context.Context, email string, active bool) error {
	if active {
		return s.client.Set(ctx, subscriberKey(email), "1", 0).Err()
	}
	return s.client.Del(ctx, subscriberKey(email)).Err()
}

// Client exposes the underlying connection so other components, like the
// rate limiter, can share it.
func (s *Store) Client() *redis.Client { return s.client }

// Close releases the Redis client.
func (s *Store) Close() error { return s.client.Close() }
