// Package ports defines interfaces (hexagonal ports) for the
// verification flow. Implementations live in internal/adapters;
// orchestration in internal/service.
package ports

import (
	"context"

	domainverify "github.com/uchiverify/uchiverify/internal/domain/verify"
)

// IdentityProvider is the OIDC relying-party surface of the flow. The
// three methods map to the three provider endpoints: authorization
// (browser redirect), token exchange (server POST), userinfo (GET with
// bearer token).
type IdentityProvider interface {
	// AuthCodeURL builds the provider authorization URL carrying the
	// given anti-forgery state. No network call is made.
	AuthCodeURL(state string) string

	// ExchangeCode trades the authorization code for an access token.
	// Codes are single-use by provider contract; failures are not retried.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// FetchProfile retrieves the verified profile using the access token.
	FetchProfile(ctx context.Context, accessToken string) (domainverify.Profile, error)
}

// SessionStore persists in-flight verification sessions keyed by their
// state token. Each key is written once and consumed once.
type SessionStore interface {
	Create(ctx context.Context, sess domainverify.Session) error

	// Consume atomically reads and invalidates the session for the
	// given state. A second Consume for the same state must fail.
	Consume(ctx context.Context, state string) (domainverify.Session, error)
}

// GrantTarget identifies the member a role is attached to.
type GrantTarget struct {
	GuildID string
	UserID  string
	RoleID  string
}

// RoleAPI is the administrative surface of the chat platform used for
// the role-grant side effect.
type RoleAPI interface {
	ListRoles(ctx context.Context, guildID string) ([]domainverify.Role, error)
	CreateRole(ctx context.Context, guildID, name string) (domainverify.Role, error)
	AddMemberRole(ctx context.Context, target GrantTarget) error
}
