// Package verify contains domain-level types for the affiliation
// verification flow. It is pure and free of framework/adapter concerns.
package verify

import (
	"strings"
	"time"
)

// Session is the ephemeral record binding an in-flight verification
// attempt to the guild and user that started it. It is keyed by the
// opaque anti-forgery State token, written once at /auth/start and
// consumed exactly once at /auth/callback.
type Session struct {
	State     string    `json:"state"`
	GuildID   string    `json:"guild_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the transient identity returned by the provider's
// userinfo endpoint. It is never stored.
type Profile struct {
	Subject string
	Email   string
	Name    string
	Groups  []string
}

// EmailDomain returns the lower-cased domain part of the profile email,
// or "" when no email is present.
func (p Profile) EmailDomain() string {
	at := strings.LastIndex(p.Email, "@")
	if at < 0 || at == len(p.Email)-1 {
		return ""
	}
	return strings.ToLower(p.Email[at+1:])
}

// Role is a named permission label within a guild, the visible marker
// of successful verification.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Verification is the durable audit record written after a completed
// verification. Only the email domain is kept, never the address.
type Verification struct {
	ID          string    `json:"id"`
	GuildID     string    `json:"guild_id"`
	UserID      string    `json:"user_id"`
	EmailDomain string    `json:"email_domain"`
	RoleGranted bool      `json:"role_granted"`
	VerifiedAt  time.Time `json:"verified_at"`
}

// EmailPolicy is the explicit authorization predicate applied to the
// verified email. An empty AllowedDomain accepts any non-empty email.
type EmailPolicy struct {
	AllowedDomain string
}

// Allows reports whether the email satisfies the policy.
func (p EmailPolicy) Allows(email string) bool {
	if email == "" {
		return false
	}
	if p.AllowedDomain == "" {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	allowed := strings.ToLower(p.AllowedDomain)
	return domain == allowed || strings.HasSuffix(domain, "."+allowed)
}
