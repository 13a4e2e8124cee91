package bootstrap

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uchiverify/uchiverify/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildEventSources(t *testing.T) {
	t.Run("all three feeds", func(t *testing.T) {
		sources, err := buildEventSources(config.FeedsConfig{
			BlueprintURL: "https://blueprint.example.edu/api/discovery/event/search",
			CalendarURL:  "https://events.example.edu/live/json/events",
			ICSURL:       "https://neighborhood.example.com/events/?ical=1",
			Timeout:      5 * time.Second,
		}, time.UTC)

		require.NoError(t, err)
		require.Len(t, sources, 3)
	})

	t.Run("unset feeds are skipped", func(t *testing.T) {
		sources, err := buildEventSources(config.FeedsConfig{
			CalendarURL: "https://events.example.edu/live/json/events",
		}, time.UTC)

		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "UChicago Events", sources[0].Name())
	})

	t.Run("no feeds configured", func(t *testing.T) {
		sources, err := buildEventSources(config.FeedsConfig{}, time.UTC)
		require.NoError(t, err)
		assert.Empty(t, sources)
	})
}

func TestBuildCampusServices(t *testing.T) {
	valid := config.CampusConfig{
		Timezone: "America/Chicago",
		Quarter: config.QuarterConfig{
			Name:  "Autumn quarter",
			Start: "2025-09-29",
			End:   "2025-12-13",
		},
	}

	t.Run("valid configuration", func(t *testing.T) {
		quarter, events, err := buildCampusServices(valid, nil, testLogger())
		require.NoError(t, err)
		require.NotNil(t, quarter)
		require.NotNil(t, events)
		assert.Equal(t, "Autumn quarter", quarter.Status().Quarter)
	})

	t.Run("bad timezone", func(t *testing.T) {
		cfg := valid
		cfg.Timezone = "Mars/Olympus_Mons"
		_, _, err := buildCampusServices(cfg, nil, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timezone")
	})

	t.Run("bad quarter date", func(t *testing.T) {
		cfg := valid
		cfg.Quarter.End = "December 13"
		_, _, err := buildCampusServices(cfg, nil, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quarter end date")
	})
}

func TestBuildTriviaService(t *testing.T) {
	trivia, err := buildTriviaService()
	require.NoError(t, err)

	article, err := trivia.RandomArticle()
	require.NoError(t, err)
	assert.NotEmpty(t, article.Title)

	item, err := trivia.RandomScavItem()
	require.NoError(t, err)
	assert.NotEmpty(t, item.Number)
}

func TestBuildObservability(t *testing.T) {
	t.Run("everything disabled", func(t *testing.T) {
		out := buildObservability(testLogger(), config.ObservabilityConfig{})
		assert.Nil(t, out.Metrics)
		assert.Nil(t, out.Notifier)
	})

	t.Run("metrics enabled", func(t *testing.T) {
		cfg := config.ObservabilityConfig{
			Metrics: config.ObservabilityMetricsConfig{
				Enabled:       true,
				StatsdAddress: "127.0.0.1:8125",
			},
		}
		out := buildObservability(testLogger(), cfg)
		require.NotNil(t, out.Metrics)
		assert.True(t, out.Metrics.Enabled())
		require.NoError(t, out.Metrics.Close())
	})

	t.Run("slack notifier enabled", func(t *testing.T) {
		cfg := config.ObservabilityConfig{
			Notifications: config.ObservabilityNotificationsConfig{
				Enabled: true,
				Slack: config.SlackNotificationConfig{
					Enabled:    true,
					WebhookURL: "https://hooks.slack.com/services/T000/B000/XXX",
				},
			},
		}
		out := buildObservability(testLogger(), cfg)
		assert.NotNil(t, out.Notifier)
	})
}
