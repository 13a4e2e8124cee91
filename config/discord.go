package config

import (
	"strings"
	"time"
)

// DiscordConfig contains the bot credential used for role management.
// This credential is distinct from the OIDC client credential.
type DiscordConfig struct {
	// BotToken authenticates role operations against the Discord REST
	// API. When empty, role granting is skipped entirely (logged as a
	// warning at startup, never surfaced to users).
	BotToken string `env:"BOT_TOKEN"`

	// APIBase allows tests and proxies to redirect REST calls.
	APIBase string `env:"API_BASE" envDefault:"https://discord.com/api/v10"`

	// VerifiedRoleName is the role ensured and attached on successful
	// verification. Matching is exact and case-sensitive.
	VerifiedRoleName string `env:"VERIFIED_ROLE_NAME" envDefault:"UChicago Verified"`

	// Timeout applies to each outbound Discord API call.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize normalises Discord configuration values.
func (c *DiscordConfig) Sanitize() {
	c.BotToken = strings.TrimSpace(c.BotToken)
	c.APIBase = strings.TrimRight(strings.TrimSpace(c.APIBase), "/")
	if c.VerifiedRoleName == "" {
		c.VerifiedRoleName = "UChicago Verified"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// RoleGrantEnabled reports whether the bot credential is present.
func (c *DiscordConfig) RoleGrantEnabled() bool {
	return c.BotToken != ""
}
