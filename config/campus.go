package config

import (
	"strings"
	"time"
)

// CampusConfig groups configuration for the campus novelty features:
// the quarter countdown and the three-source event aggregator.
type CampusConfig struct {
	// Timezone is the IANA zone the countdown and event times render in.
	Timezone string `env:"CAMPUS_TIMEZONE" envDefault:"America/Chicago"`

	// ImageBaseURL is the prefix for daily countdown images; the day
	// number plus ".png" is appended. Empty omits the image.
	ImageBaseURL string `env:"CAMPUS_IMAGE_BASE_URL"`

	Quarter QuarterConfig `envPrefix:"QUARTER_"`
	Feeds   FeedsConfig   `envPrefix:"FEEDS_"`
}

// QuarterConfig describes the current academic quarter. Dates are
// YYYY-MM-DD, interpreted at midnight in CampusConfig.Timezone.
type QuarterConfig struct {
	Name  string `env:"NAME"  envDefault:"Autumn quarter"`
	Start string `env:"START" envDefault:"2025-09-29"`
	End   string `env:"END"   envDefault:"2025-12-13"`
}

// FeedsConfig points at the three campus event sources.
type FeedsConfig struct {
	BlueprintURL string `env:"BLUEPRINT_URL" envDefault:"https://blueprint.uchicago.edu/api/discovery/event/search"`
	CalendarURL  string `env:"CALENDAR_URL"  envDefault:"https://events.uchicago.edu/live/json/events"`
	ICSURL       string `env:"ICS_URL"       envDefault:"https://welcometohydepark.com/events/list/?ical=1"`

	// CacheTTL is how long aggregated feed results are reused before
	// the upstream sources are asked again.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Timeout applies to each outbound feed request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize normalises campus configuration values.
func (c *CampusConfig) Sanitize() {
	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.Timezone == "" {
		c.Timezone = "America/Chicago"
	}
	c.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.ImageBaseURL), "/")
	if c.Feeds.CacheTTL <= 0 {
		c.Feeds.CacheTTL = 5 * time.Minute
	}
	if c.Feeds.Timeout <= 0 {
		c.Feeds.Timeout = 10 * time.Second
	}
}
