// Package redis provides Redis-based adapters for the uchiverify system.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainverify "github.com/uchiverify/uchiverify/internal/domain/verify"
	"github.com/uchiverify/uchiverify/internal/ports"
)

// SessionStore persists in-flight verification sessions keyed by their
// anti-forgery state token. Consume is backed by GETDEL, so a state can
// be redeemed at most once even under concurrent callbacks.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a Redis-based session store. Sessions expire
// after ttl; abandoned verification attempts clean themselves up.
func NewSessionStore(client redis.UniversalClient, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SessionStore{
		client: client,
		prefix: "verify:session:",
		ttl:    ttl,
	}
}

func (s *SessionStore) Create(ctx context.Context, sess domainverify.Session) error {
	if sess.State == "" {
		return errors.New("session state cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// NX refuses to overwrite: state tokens are unique per attempt and
	// never reused.
	ok, err := s.client.SetNX(ctx, s.prefix+sess.State, data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return errors.New("session state already exists")
	}
	return nil
}

func (s *SessionStore) Consume(ctx context.Context, state string) (domainverify.Session, error) {
	if state == "" {
		return domainverify.Session{}, ErrNotFound
	}

	data, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainverify.Session{}, ErrNotFound
		}
		return domainverify.Session{}, fmt.Errorf("redis getdel: %w", err)
	}

	var sess domainverify.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainverify.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}
	return sess, nil
}

// ErrNotFound is returned when no session exists for a state token,
// whether it never existed, expired, or was already consumed. Callers
// must not distinguish those cases in user-facing responses.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
