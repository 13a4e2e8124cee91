package config

import "strings"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g.
	// "https://vps.example.edu/uchiverify"). Used when building the
	// verification links handed to the bot layer.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// AdminPassword protects the /admin dashboard via HTTP basic auth.
	// Empty disables the dashboard.
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.BaseURL = strings.TrimRight(strings.TrimSpace(h.BaseURL), "/")
	h.AdminPassword = strings.TrimSpace(h.AdminPassword)
}

// AdminEnabled reports whether the admin dashboard is reachable.
func (h *HTTPConfig) AdminEnabled() bool {
	return h.AdminPassword != ""
}
