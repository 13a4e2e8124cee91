package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/uchiverify/uchiverify/internal/adapters/discord"
	"github.com/uchiverify/uchiverify/internal/service"
)

// GuildLister lists the guilds the bot account belongs to.
type GuildLister interface {
	ListGuilds(ctx context.Context) ([]discord.Guild, error)
}

// VerificationCounter exposes the audit totals shown on the dashboard.
type VerificationCounter interface {
	Count(ctx context.Context) (int64, error)
	CountFailedGrants(ctx context.Context) (int64, error)
}

// AdminHandlers serves the password-protected operator dashboard.
type AdminHandlers struct {
	Guilds        GuildLister
	Stats         *service.StatsService
	Verifications VerificationCounter
	Renderer      *TemplateRenderer
	Logger        *slog.Logger
}

func (h *AdminHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// adminPageData feeds the dashboard template. Sections backed by an
// unavailable dependency degrade to empty rather than failing the page.
type adminPageData struct {
	Guilds        []discord.Guild
	GuildsErr     bool
	Commands      []service.CommandCount
	Verifications int64
	FailedGrants  int64
}

// Dashboard handles GET /admin.
func (h *AdminHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := adminPageData{}

	if h.Guilds != nil {
		guilds, err := h.Guilds.ListGuilds(ctx)
		if err != nil {
			h.logger().Error("guild list failed", "error", err)
			data.GuildsErr = true
		} else {
			data.Guilds = guilds
		}
	} else {
		data.GuildsErr = true
	}

	if counts, err := h.Stats.Snapshot(ctx); err != nil {
		h.logger().Error("stats snapshot failed", "error", err)
	} else {
		data.Commands = counts
	}

	if h.Verifications != nil {
		if total, err := h.Verifications.Count(ctx); err != nil {
			h.logger().Error("verification count failed", "error", err)
		} else {
			data.Verifications = total
		}
		if failed, err := h.Verifications.CountFailedGrants(ctx); err != nil {
			h.logger().Error("failed grant count failed", "error", err)
		} else {
			data.FailedGrants = failed
		}
	}

	h.Renderer.Render(w, http.StatusOK, "admin.tmpl", data)
}
