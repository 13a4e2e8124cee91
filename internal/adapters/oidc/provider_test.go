package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIdP is a minimal identity provider: discovery, token, userinfo.
type fakeIdP struct {
	server *httptest.Server

	tokenStatus   int
	tokenBody     map[string]any
	userinfoBody  map[string]any
	tokenCalls    atomic.Int64
	userinfoCalls atomic.Int64
	lastAuthz     atomic.Value // Authorization header seen by userinfo
}

func newFakeIdP(t *testing.T) *fakeIdP {
	t.Helper()

	idp := &fakeIdP{
		tokenStatus:  http.StatusOK,
		tokenBody:    map[string]any{"access_token": "abc", "token_type": "Bearer"},
		userinfoBody: map[string]any{"sub": "u1", "email": "x@uchicago.edu"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 idp.server.URL,
			"authorization_endpoint": idp.server.URL + "/authorize",
			"token_endpoint":         idp.server.URL + "/token",
			"userinfo_endpoint":      idp.server.URL + "/userinfo",
			"jwks_uri":               idp.server.URL + "/keys",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		idp.tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(idp.tokenStatus)
		_ = json.NewEncoder(w).Encode(idp.tokenBody)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		idp.userinfoCalls.Add(1)
		idp.lastAuthz.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(idp.userinfoBody)
	})

	idp.server = httptest.NewServer(mux)
	t.Cleanup(idp.server.Close)
	return idp
}

func (f *fakeIdP) provider(t *testing.T) *Provider {
	t.Helper()

	p, err := NewProvider(context.Background(), ProviderConfig{
		Issuer:       f.server.URL,
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid email profile groups",
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ProviderConfig
		errMsg string
	}{
		{
			name:   "missing issuer",
			cfg:    ProviderConfig{ClientID: "c", ClientSecret: "s", RedirectURL: "http://localhost/cb"},
			errMsg: "issuer is required",
		},
		{
			name:   "missing client ID",
			cfg:    ProviderConfig{Issuer: "http://idp", ClientSecret: "s", RedirectURL: "http://localhost/cb"},
			errMsg: "client ID is required",
		},
		{
			name:   "missing client secret",
			cfg:    ProviderConfig{Issuer: "http://idp", ClientID: "c", RedirectURL: "http://localhost/cb"},
			errMsg: "client secret is required",
		},
		{
			name:   "missing redirect URL",
			cfg:    ProviderConfig{Issuer: "http://idp", ClientID: "c", ClientSecret: "s"},
			errMsg: "redirect URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_AuthCodeURL(t *testing.T) {
	idp := newFakeIdP(t)
	p := idp.provider(t)

	u := p.AuthCodeURL("deadbeefdeadbeefdeadbeefdeadbeef")

	assert.Contains(t, u, idp.server.URL+"/authorize")
	assert.Contains(t, u, "client_id=test-client")
	assert.Contains(t, u, "state=deadbeefdeadbeefdeadbeefdeadbeef")
	assert.Contains(t, u, "response_type=code")
	assert.Contains(t, u, "scope=openid+email+profile+groups")
}

func TestProvider_ExchangeCode_Success(t *testing.T) {
	idp := newFakeIdP(t)
	p := idp.provider(t)

	token, err := p.ExchangeCode(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
	assert.Equal(t, int64(1), idp.tokenCalls.Load())
}

func TestProvider_ExchangeCode_MissingAccessToken(t *testing.T) {
	idp := newFakeIdP(t)
	// 200 OK with a body lacking access_token must fail the exchange.
	idp.tokenBody = map[string]any{"token_type": "Bearer"}
	p := idp.provider(t)

	_, err := p.ExchangeCode(context.Background(), "good-code")
	require.Error(t, err)
	assert.Equal(t, int64(0), idp.userinfoCalls.Load())
}

func TestProvider_ExchangeCode_UpstreamError(t *testing.T) {
	idp := newFakeIdP(t)
	idp.tokenStatus = http.StatusBadRequest
	idp.tokenBody = map[string]any{"error": "invalid_grant"}
	p := idp.provider(t)

	_, err := p.ExchangeCode(context.Background(), "used-code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange code for token")
}

func TestProvider_ExchangeCode_EmptyCode(t *testing.T) {
	idp := newFakeIdP(t)
	p := idp.provider(t)

	_, err := p.ExchangeCode(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, int64(0), idp.tokenCalls.Load())
}

func TestProvider_FetchProfile(t *testing.T) {
	idp := newFakeIdP(t)
	idp.userinfoBody = map[string]any{
		"sub":    "00u123",
		"email":  "maroon@uchicago.edu",
		"name":   "Phil the Phoenix",
		"groups": []string{"Everyone", "Students"},
	}
	p := idp.provider(t)

	profile, err := p.FetchProfile(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "maroon@uchicago.edu", profile.Email)
	assert.Equal(t, "00u123", profile.Subject)
	assert.Equal(t, []string{"Everyone", "Students"}, profile.Groups)
	assert.Equal(t, "Bearer abc", idp.lastAuthz.Load())
}

func TestProvider_FetchProfile_EmptyToken(t *testing.T) {
	idp := newFakeIdP(t)
	p := idp.provider(t)

	_, err := p.FetchProfile(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, int64(0), idp.userinfoCalls.Load())
}
