package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainverify "github.com/uchiverify/uchiverify/internal/domain/verify"
	verifymocks "github.com/uchiverify/uchiverify/internal/mocks/verify"
	"github.com/uchiverify/uchiverify/internal/service"
)

type verifyFixture struct {
	handlers *VerifyHandlers
	provider *verifymocks.StubIdentityProvider
	sessions *verifymocks.MemorySessionStore
	stats    *memStatsRepo
}

func newVerifyFixture(t *testing.T) *verifyFixture {
	t.Helper()

	provider := verifymocks.NewStubIdentityProvider()
	sessions := verifymocks.NewMemorySessionStore()
	stats := newMemStatsRepo()

	svc := service.NewVerifyService(service.VerifyServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Policy:   domainverify.EmailPolicy{AllowedDomain: "uchicago.edu"},
		Logger:   testLogger(),
	})

	return &verifyFixture{
		handlers: &VerifyHandlers{
			Verify:   svc,
			Stats:    testStats(stats),
			Renderer: testRenderer(t),
			Logger:   testLogger(),
		},
		provider: provider,
		sessions: sessions,
		stats:    stats,
	}
}

// startVerification drives /auth/start and returns the state embedded
// in the redirect.
func (f *verifyFixture) startVerification(t *testing.T) string {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/auth/start?guild_id=123456789&user_id=987654321", nil)
	f.handlers.Start(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestVerifyStart(t *testing.T) {
	t.Run("redirects to the provider", func(t *testing.T) {
		f := newVerifyFixture(t)

		state := f.startVerification(t)
		assert.Len(t, state, 32)
		assert.Equal(t, 1, f.sessions.Len())
	})

	t.Run("rejects missing or malformed ids", func(t *testing.T) {
		f := newVerifyFixture(t)

		for _, query := range []string{
			"",
			"guild_id=123456789",
			"user_id=987654321",
			"guild_id=abc&user_id=987654321",
			"guild_id=123456789&user_id=not-a-snowflake",
		} {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/auth/start?"+query, nil)
			f.handlers.Start(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", query)
			assert.Contains(t, rec.Body.String(), "validation", "query %q", query)
		}
		assert.Zero(t, f.sessions.Len())
	})
}

func TestVerifyCallback(t *testing.T) {
	t.Run("success page", func(t *testing.T) {
		f := newVerifyFixture(t)
		state := f.startVerification(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/auth/callback?state="+state+"&code=auth-code-1", nil)
		f.handlers.Callback(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "You're verified!")
		assert.Contains(t, body, "Stub Student")
		assert.Contains(t, body, "student@uchicago.edu")
		assert.Equal(t, int64(1), f.stats.count("verify"))
	})

	t.Run("unknown state renders the restart page with status 200", func(t *testing.T) {
		f := newVerifyFixture(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/auth/callback?state=deadbeefdeadbeefdeadbeefdeadbeef&code=auth-code-1", nil)
		f.handlers.Callback(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Verification failed")
		assert.Contains(t, rec.Body.String(), "restart verification from Discord")
		assert.Zero(t, f.provider.ExchangeCalls)
		assert.Zero(t, f.stats.count("verify"))
	})

	t.Run("provider error short-circuits", func(t *testing.T) {
		f := newVerifyFixture(t)
		state := f.startVerification(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/auth/callback?state="+state+"&error=access_denied", nil)
		f.handlers.Callback(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "access_denied")
		assert.Contains(t, rec.Body.String(), "sign-in service reported an error")
		assert.Zero(t, f.provider.ExchangeCalls)
	})

	t.Run("ineligible email", func(t *testing.T) {
		f := newVerifyFixture(t)
		f.provider.DefaultProfile.Email = "someone@gmail.com"
		state := f.startVerification(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/auth/callback?state="+state+"&code=auth-code-1", nil)
		f.handlers.Callback(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "not eligible")
		assert.Zero(t, f.stats.count("verify"))
	})

	t.Run("profile fetch failure", func(t *testing.T) {
		f := newVerifyFixture(t)
		f.provider.FetchProfileFunc = func(context.Context, string) (domainverify.Profile, error) {
			return domainverify.Profile{}, errors.New("userinfo: 502")
		}
		state := f.startVerification(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/auth/callback?state="+state+"&code=auth-code-1", nil)
		f.handlers.Callback(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "profile")
	})
}
