package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uchiverify/uchiverify"
	"github.com/uchiverify/uchiverify/config"
	"github.com/uchiverify/uchiverify/internal/adapters/discord"
	"github.com/uchiverify/uchiverify/internal/adapters/feeds"
	"github.com/uchiverify/uchiverify/internal/adapters/oidc"
	redisad "github.com/uchiverify/uchiverify/internal/adapters/redis"
	"github.com/uchiverify/uchiverify/internal/data"
	domainverify "github.com/uchiverify/uchiverify/internal/domain/verify"
	"github.com/uchiverify/uchiverify/internal/observability/notify"
	"github.com/uchiverify/uchiverify/internal/observability/notify/pagerduty"
	"github.com/uchiverify/uchiverify/internal/observability/notify/slack"
	"github.com/uchiverify/uchiverify/internal/observability/statsd"
	"github.com/uchiverify/uchiverify/internal/service"
)

// ServiceContainer holds every constructed service plus the adapters
// the HTTP layer needs directly.
type ServiceContainer struct {
	Verify  *service.VerifyService
	Stats   *service.StatsService
	Trivia  *service.TriviaService
	Quarter *service.QuarterService
	Events  *service.EventsService

	// Discord is nil when no bot credential is configured; the admin
	// dashboard degrades its guild section in that case.
	Discord *discord.Client

	Verifications *data.VerificationRepo

	Observability ObservabilityContainer
}

// ObservabilityContainer groups the metric and notification sinks.
type ObservabilityContainer struct {
	Metrics  *statsd.Client
	Notifier notify.Sink
}

// ServiceDeps carries the shared resources services are built from.
type ServiceDeps struct {
	Config *config.AppConfig
	DB     *sql.DB
	Redis  redis.UniversalClient
	Logger *slog.Logger
}

// NewServices builds the full service container. Construction reaches
// the identity provider once for OIDC discovery, so it needs a context.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	observability := buildObservability(logger, cfg.Observability)

	statsRepo := data.NewStatsRepo(deps.DB)
	stats := service.NewStatsService(service.StatsServiceOptions{
		Repo:   statsRepo,
		Logger: logger,
	})

	verifications := data.NewVerificationRepo(deps.DB)

	verify, discordClient, err := buildVerifyService(ctx, verifyDeps{
		cfg:           cfg,
		redis:         deps.Redis,
		audit:         verifications,
		observability: observability,
		logger:        logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	trivia, err := buildTriviaService()
	if err != nil {
		return ServiceContainer{}, err
	}

	quarter, events, err := buildCampusServices(cfg.Campus, deps.Redis, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		Verify:        verify,
		Stats:         stats,
		Trivia:        trivia,
		Quarter:       quarter,
		Events:        events,
		Discord:       discordClient,
		Verifications: verifications,
		Observability: observability,
	}, nil
}

func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	out := ObservabilityContainer{}

	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  "uchiverify",
			Logger:  logger,
		})
		if err != nil {
			logger.Warn("statsd client unavailable, metrics disabled", "error", err)
		} else {
			out.Metrics = client
		}
	}

	var sinks notify.Multi

	if cfg.Notifications.Slack.Enabled {
		client, err := slack.NewClient(slack.Config{
			WebhookURL: cfg.Notifications.Slack.WebhookURL,
			Channel:    cfg.Notifications.Slack.Channel,
			Username:   cfg.Notifications.Slack.Username,
			Timeout:    cfg.Notifications.Timeout,
		})
		if err != nil {
			logger.Warn("slack notifier unavailable", "error", err)
		} else {
			sinks = append(sinks, client)
		}
	}

	if cfg.Notifications.PagerDuty.Enabled {
		client, err := pagerduty.NewClient(pagerduty.Config{
			RoutingKey: cfg.Notifications.PagerDuty.RoutingKey,
			Source:     cfg.Notifications.PagerDuty.Source,
			Timeout:    cfg.Notifications.Timeout,
			RetryLimit: cfg.Notifications.PagerDuty.RetryLimit,
		})
		if err != nil {
			logger.Warn("pagerduty notifier unavailable", "error", err)
		} else {
			sinks = append(sinks, client)
		}
	}

	if len(sinks) > 0 {
		out.Notifier = sinks
	}

	return out
}

type verifyDeps struct {
	cfg           *config.AppConfig
	redis         redis.UniversalClient
	audit         service.VerificationRecorder
	observability ObservabilityContainer
	logger        *slog.Logger
}

// buildVerifyService assembles the verification flow. A missing OIDC
// configuration fails startup; a missing bot credential only disables
// the role side effect.
func buildVerifyService(ctx context.Context, deps verifyDeps) (*service.VerifyService, *discord.Client, error) {
	okta := deps.cfg.Okta
	if err := okta.Validate(); err != nil {
		return nil, nil, fmt.Errorf("okta configuration: %w", err)
	}

	provider, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
		Issuer:       okta.Issuer,
		ClientID:     okta.ClientID,
		ClientSecret: okta.ClientSecret,
		RedirectURL:  okta.RedirectURL,
		Scope:        okta.Scope,
		HTTPClient:   &http.Client{Timeout: okta.Timeout},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("oidc provider: %w", err)
	}

	var (
		discordClient *discord.Client
		granter       service.RoleGranter
	)
	if deps.cfg.Discord.RoleGrantEnabled() {
		discordClient, err = discord.NewClient(discord.Config{
			BotToken: deps.cfg.Discord.BotToken,
			APIBase:  deps.cfg.Discord.APIBase,
			Timeout:  deps.cfg.Discord.Timeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("discord client: %w", err)
		}
		granter = service.NewRoleGrantService(service.RoleGrantServiceOptions{
			API:      discordClient,
			RoleName: deps.cfg.Discord.VerifiedRoleName,
			Logger:   deps.logger,
		})
	} else {
		deps.logger.Warn("no discord bot token configured, role granting disabled")
	}

	var metrics statsd.Sink
	if deps.observability.Metrics != nil {
		metrics = deps.observability.Metrics
	}

	verify := service.NewVerifyService(service.VerifyServiceOptions{
		Provider: provider,
		Sessions: redisad.NewSessionStore(deps.redis, okta.SessionTTL),
		Granter:  granter,
		Policy:   domainverify.EmailPolicy{AllowedDomain: okta.AllowedEmailDomain},
		Metrics:  metrics,
		Notifier: deps.observability.Notifier,
		Audit:    deps.audit,
		Logger:   deps.logger,
	})

	return verify, discordClient, nil
}

func buildTriviaService() (*service.TriviaService, error) {
	datasets, err := fs.Sub(uchiverify.DataFS, "data")
	if err != nil {
		return nil, fmt.Errorf("embedded datasets: %w", err)
	}
	trivia, err := service.NewTriviaService(service.TriviaServiceOptions{
		FS:          datasets,
		ArticlePath: "shadydealer.csv",
		ScavPath:    "scav.csv",
	})
	if err != nil {
		return nil, fmt.Errorf("trivia datasets: %w", err)
	}
	return trivia, nil
}

const quarterDateLayout = "2006-01-02"

func buildCampusServices(cfg config.CampusConfig, redisClient redis.UniversalClient, logger *slog.Logger) (*service.QuarterService, *service.EventsService, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("campus timezone %q: %w", cfg.Timezone, err)
	}

	start, err := time.ParseInLocation(quarterDateLayout, cfg.Quarter.Start, loc)
	if err != nil {
		return nil, nil, fmt.Errorf("quarter start date: %w", err)
	}
	end, err := time.ParseInLocation(quarterDateLayout, cfg.Quarter.End, loc)
	if err != nil {
		return nil, nil, fmt.Errorf("quarter end date: %w", err)
	}

	quarter := service.NewQuarterService(service.QuarterServiceOptions{
		Name:         cfg.Quarter.Name,
		Start:        start,
		End:          end,
		Location:     loc,
		ImageBaseURL: cfg.ImageBaseURL,
	})

	sources, err := buildEventSources(cfg.Feeds, loc)
	if err != nil {
		return nil, nil, err
	}

	events := service.NewEventsService(service.EventsServiceOptions{
		Sources:  sources,
		Cache:    redisad.NewFeedCache(redisClient),
		CacheTTL: cfg.Feeds.CacheTTL,
		Logger:   logger,
	})

	return quarter, events, nil
}

func buildEventSources(cfg config.FeedsConfig, loc *time.Location) ([]service.EventSource, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	sources := make([]service.EventSource, 0, 3)

	if cfg.BlueprintURL != "" {
		src, err := feeds.NewBlueprintSource(feeds.BlueprintConfig{
			SearchURL: cfg.BlueprintURL,
			Location:  loc,
			Client:    client,
		})
		if err != nil {
			return nil, fmt.Errorf("blueprint source: %w", err)
		}
		sources = append(sources, src)
	}

	if cfg.CalendarURL != "" {
		src, err := feeds.NewCalendarSource(feeds.CalendarConfig{
			URL:      cfg.CalendarURL,
			Location: loc,
			Client:   client,
		})
		if err != nil {
			return nil, fmt.Errorf("calendar source: %w", err)
		}
		sources = append(sources, src)
	}

	if cfg.ICSURL != "" {
		src, err := feeds.NewICSSource(feeds.ICSConfig{
			URL:      cfg.ICSURL,
			Location: loc,
			Client:   client,
		})
		if err != nil {
			return nil, fmt.Errorf("ics source: %w", err)
		}
		sources = append(sources, src)
	}

	return sources, nil
}
