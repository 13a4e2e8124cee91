package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Okta OIDC relying-party configuration
//   - discord.go: Discord bot credential and role-grant configuration
//   - database.go: Database and Redis configuration
//   - http.go: HTTP server configuration
//   - campus.go: Quarter countdown and event feed configuration
//   - observability.go: Metrics and notification configuration
type AppConfig struct {
	// IsDev controls development mode behavior (relaxed cookies, verbose logs).
	IsDev bool `env:"DEV" envDefault:"false"`

	// Okta OIDC relying-party configuration
	Okta OktaConfig `envPrefix:"OKTA_"`

	// Discord bot configuration
	Discord DiscordConfig `envPrefix:"DISCORD_"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Campus feature configuration (quarter countdown, event feeds)
	Campus CampusConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Okta.Sanitize()
	c.Discord.Sanitize()
	c.HTTP.Sanitize()
	c.Campus.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and APP_ENV environment variables.
// APP_ENV is checked as a fallback for deployments that only set one of them.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
