// Package discord implements the chat-platform role API against the
// Discord REST interface using a bot credential.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/uchiverify/uchiverify/internal/domain/verify"
	"github.com/uchiverify/uchiverify/internal/ports"
)

const defaultAPIBase = "https://discord.com/api/v10"

// Config captures the subset of Discord REST behaviour we need.
type Config struct {
	BotToken string
	APIBase  string
	Timeout  time.Duration
	Client   *http.Client
}

// Client talks to the Discord REST API with a bot token. It implements
// ports.RoleAPI plus the guild listing used by the admin view.
type Client struct {
	botToken string
	apiBase  string
	client   *http.Client
}

var _ ports.RoleAPI = (*Client)(nil)

// APIError reports a non-success Discord response with enough context
// to diagnose permission and rate-limit problems from logs.
type APIError struct {
	Status int
	Method string
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Guild is the subset of the Discord guild object shown on the admin page.
type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewClient builds a Discord REST client. Callers should pass a
// validated config; an empty bot token is rejected here as a last line
// of defense.
func NewClient(cfg Config) (*Client, error) {
	token := strings.TrimSpace(cfg.BotToken)
	if token == "" {
		return nil, errors.New("discord bot token is required")
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if base == "" {
		base = defaultAPIBase
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid discord api base: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		botToken: token,
		apiBase:  base,
		client:   hc,
	}, nil
}

// ListRoles returns every role defined in the guild.
func (c *Client) ListRoles(ctx context.Context, guildID string) ([]verify.Role, error) {
	var roles []verify.Role
	path := fmt.Sprintf("/guilds/%s/roles", url.PathEscape(guildID))
	if err := c.do(ctx, http.MethodGet, path, nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// CreateRole creates a non-mentionable role with the given name and
// returns it with the provider-assigned id.
func (c *Client) CreateRole(ctx context.Context, guildID, name string) (verify.Role, error) {
	payload := map[string]any{
		"name":        name,
		"mentionable": false,
	}
	var role verify.Role
	path := fmt.Sprintf("/guilds/%s/roles", url.PathEscape(guildID))
	if err := c.do(ctx, http.MethodPost, path, payload, &role); err != nil {
		return verify.Role{}, err
	}
	return role, nil
}

// AddMemberRole attaches the role to the member. Re-attaching an
// already-held role succeeds on the Discord side, which keeps the
// grant idempotent without any state on ours.
func (c *Client) AddMemberRole(ctx context.Context, target ports.GrantTarget) error {
	path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s",
		url.PathEscape(target.GuildID), url.PathEscape(target.UserID), url.PathEscape(target.RoleID))
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// ListGuilds returns the guilds the bot account is a member of.
func (c *Client) ListGuilds(ctx context.Context) ([]Guild, error) {
	var guilds []Guild
	if err := c.do(ctx, http.MethodGet, "/users/@me/guilds", nil, &guilds); err != nil {
		return nil, err
	}
	return guilds, nil
}

// do performs one request against the API base. No automatic retries:
// the grant path is best-effort and callers surface failures through
// their own channels.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode discord payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return fmt.Errorf("create discord request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("read discord response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
			Body:   strings.TrimSpace(string(data)),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode discord response: %w", err)
		}
	}
	return nil
}
