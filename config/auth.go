package config

import (
	"errors"
	"strings"
	"time"
)

// OktaConfig contains the OIDC relying-party configuration for the
// university identity provider. The client secret is held server-side
// only; it is never exposed to the browser.
type OktaConfig struct {
	// Issuer is the OIDC issuer URL, e.g. "https://uchicago.okta.com".
	// Discovery (/.well-known/openid-configuration) is fetched from it
	// at startup.
	Issuer string `env:"ISSUER"`

	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`

	// RedirectURL must exactly match the redirect URI registered with
	// the identity provider.
	RedirectURL string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/auth/callback"`

	Scope string `env:"SCOPE" envDefault:"openid email profile groups"`

	// AllowedEmailDomain optionally restricts verification to emails
	// with this domain suffix (e.g. "uchicago.edu"). Empty allows any
	// email the provider vouches for.
	AllowedEmailDomain string `env:"ALLOWED_EMAIL_DOMAIN"`

	// SessionTTL bounds how long a started verification attempt stays
	// valid before the callback must arrive.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"10m"`

	// Timeout applies to each outbound call to the identity provider.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize normalises Okta configuration values.
func (c *OktaConfig) Sanitize() {
	c.Issuer = strings.TrimRight(strings.TrimSpace(c.Issuer), "/")
	c.AllowedEmailDomain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.AllowedEmailDomain)), "@")
	if c.SessionTTL <= 0 {
		c.SessionTTL = 10 * time.Minute
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// Validate reports whether the relying-party configuration is complete.
// A missing client secret is a startup failure, not a runtime error.
func (c *OktaConfig) Validate() error {
	if c.Issuer == "" {
		return errors.New("OKTA_ISSUER is required")
	}
	if c.ClientID == "" {
		return errors.New("OKTA_CLIENT_ID is required")
	}
	if c.ClientSecret == "" {
		return errors.New("OKTA_CLIENT_SECRET is required")
	}
	if c.RedirectURL == "" {
		return errors.New("OKTA_REDIRECT_URL is required")
	}
	return nil
}
