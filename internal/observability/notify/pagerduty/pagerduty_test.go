package pagerduty

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uchiverify/uchiverify/internal/observability/notify"
)

func testPayload() notify.GrantFailurePayload {
	return notify.GrantFailurePayload{
		GuildID:    "123456789",
		UserID:     "987654321",
		Step:       "assign_role",
		Error:      "discord PUT /guilds/123456789/members/987654321/roles/99: status 403: missing permissions",
		Severity:   notify.SeverityWarning,
		OccurredAt: time.Date(2025, 10, 9, 15, 30, 0, 0, time.UTC),
	}
}

func TestSendGrantFailure(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := NewClient(Config{RoutingKey: "rk-1", Endpoint: srv.URL})
	require.NoError(t, err)

	require.NoError(t, client.SendGrantFailure(context.Background(), testPayload()))

	assert.Equal(t, "rk-1", got["routing_key"])
	assert.Equal(t, "trigger", got["event_action"])
	assert.Equal(t, "role-grant:123456789:987654321", got["dedup_key"])

	payload, ok := got["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "warning", payload["severity"])
	assert.Equal(t, "uchiverify", payload["source"])
	assert.Equal(t, "2025-10-09T15:30:00Z", payload["timestamp"])
	assert.Contains(t, payload["summary"], "assign_role")

	details, ok := payload["custom_details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "987654321", details["user_id"])
}

func TestSendGrantFailureRetries(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := NewClient(Config{RoutingKey: "rk-1", Endpoint: srv.URL, RetryLimit: 2})
	require.NoError(t, err)

	require.NoError(t, client.SendGrantFailure(context.Background(), testPayload()))
	assert.Equal(t, int64(2), hits.Load())
}

func TestSendGrantFailureUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"invalid event"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{RoutingKey: "rk-1", Endpoint: srv.URL})
	require.NoError(t, err)

	err = client.SendGrantFailure(context.Background(), testPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "invalid event")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}
