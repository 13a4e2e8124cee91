package verify

// Package verify contains simple hand-written test doubles for the
// verification ports. These are lightweight and suitable for unit and
// workflow tests without codegen.

import (
	"context"
	"errors"
	"sync"

	domainverify "github.com/uchiverify/uchiverify/internal/domain/verify"
	"github.com/uchiverify/uchiverify/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
	_ ports.IdentityProvider = (*StubIdentityProvider)(nil)
)

// MemorySessionStore is an in-memory session store with the same
// write-once, consume-once contract as the Redis implementation.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainverify.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainverify.Session),
	}
}

func (m *MemorySessionStore) Create(_ context.Context, sess domainverify.Session) error {
	if sess.State == "" {
		return errors.New("session state cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[sess.State]; exists {
		return errors.New("session state already exists")
	}
	m.sessions[sess.State] = sess
	return nil
}

func (m *MemorySessionStore) Consume(_ context.Context, state string) (domainverify.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[state]
	if !ok {
		return domainverify.Session{}, ErrNotFound
	}
	delete(m.sessions, state)
	return sess, nil
}

// Len reports how many sessions are still pending.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ErrNotFound is returned by fakes when an entity is not present.
var ErrNotFound error = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

// StubIdentityProvider simulates an identity provider with function
// fields for per-test overrides and deterministic defaults otherwise.
type StubIdentityProvider struct {
	AuthCodeURLFunc  func(state string) string
	ExchangeCodeFunc func(ctx context.Context, code string) (string, error)
	FetchProfileFunc func(ctx context.Context, accessToken string) (domainverify.Profile, error)

	DefaultProfile domainverify.Profile

	// Call counters for asserting short-circuit behavior.
	ExchangeCalls int
	ProfileCalls  int
}

// NewStubIdentityProvider creates a StubIdentityProvider with sensible defaults.
func NewStubIdentityProvider() *StubIdentityProvider {
	return &StubIdentityProvider{
		DefaultProfile: domainverify.Profile{
			Subject: "00u-stub-1",
			Email:   "student@uchicago.edu",
			Name:    "Stub Student",
		},
	}
}

func (s *StubIdentityProvider) AuthCodeURL(state string) string {
	if s.AuthCodeURLFunc != nil {
		return s.AuthCodeURLFunc(state)
	}
	return "https://stub-idp.example.com/authorize?state=" + state
}

func (s *StubIdentityProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	s.ExchangeCalls++
	if s.ExchangeCodeFunc != nil {
		return s.ExchangeCodeFunc(ctx, code)
	}
	return "stub-access-token", nil
}

func (s *StubIdentityProvider) FetchProfile(ctx context.Context, accessToken string) (domainverify.Profile, error) {
	s.ProfileCalls++
	if s.FetchProfileFunc != nil {
		return s.FetchProfileFunc(ctx, accessToken)
	}
	return s.DefaultProfile, nil
}
