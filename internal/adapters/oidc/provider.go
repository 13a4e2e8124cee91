// Package oidc implements the relying-party side of the authorization-code
// flow against the university identity provider.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainverify "github.com/uchiverify/uchiverify/internal/domain/verify"
	"github.com/uchiverify/uchiverify/internal/ports"
	"golang.org/x/oauth2"
)

// Provider implements ports.IdentityProvider using go-oidc and oauth2.
type Provider struct {
	config       *oauth2.Config
	httpClient   *http.Client
	oidcProvider *gooidc.Provider
}

var _ ports.IdentityProvider = (*Provider)(nil)

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	Issuer       string // e.g. "https://uchicago.okta.com"
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string       // space-separated, e.g. "openid email profile groups"
	HTTPClient   *http.Client // Optional, defaults to a 10s-timeout client
}

// NewProvider creates a new OIDC provider. The discovery document is
// fetched once from the issuer, so construction requires the provider
// to be reachable.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("issuer is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	issuer := strings.TrimSuffix(cfg.Issuer, "/")
	op, err := gooidc.NewProvider(gooidc.ClientContext(ctx, httpClient), issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
		httpClient:   httpClient,
		oidcProvider: op,
	}, nil
}

// AuthCodeURL builds the authorization URL with response_type=code and
// the caller-supplied anti-forgery state. No network call is made; the
// browser performs the redirect.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeCode performs the server-to-server code/token exchange. A
// 200 response whose body lacks access_token is an error (oauth2
// reports it as such), so callers never proceed with an empty token.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", errors.New("authorization code is required")
	}

	token, err := p.config.Exchange(gooidc.ClientContext(ctx, p.httpClient), code)
	if err != nil {
		return "", fmt.Errorf("exchange code for token: %w", err)
	}
	if token.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}
	return token.AccessToken, nil
}

// userinfoClaims is the subset of userinfo claims this flow reads.
type userinfoClaims struct {
	Subject string   `json:"sub"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Groups  []string `json:"groups"`
}

// FetchProfile retrieves the verified profile from the userinfo
// endpoint bearing the access token.
func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (domainverify.Profile, error) {
	if accessToken == "" {
		return domainverify.Profile{}, errors.New("access token is required")
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	ui, err := p.oidcProvider.UserInfo(gooidc.ClientContext(ctx, p.httpClient), src)
	if err != nil {
		return domainverify.Profile{}, fmt.Errorf("fetch user info: %w", err)
	}

	var claims userinfoClaims
	if claimsErr := ui.Claims(&claims); claimsErr != nil {
		return domainverify.Profile{}, fmt.Errorf("decode user info: %w", claimsErr)
	}

	return domainverify.Profile{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Groups:  claims.Groups,
	}, nil
}
