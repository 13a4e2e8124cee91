package statsd

import (
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// udpSink binds a local UDP socket and captures one datagram.
func udpSink(t *testing.T) (addr string, recv func() string) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn.LocalAddr().String(), func() string {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		buf := make([]byte, 1024)
		n, _, err := conn.ReadFrom(buf)
		require.NoError(t, err)
		return string(buf[:n])
	}
}

func TestClientEmitsLines(t *testing.T) {
	addr, recv := udpSink(t)

	client, err := NewClient(Config{
		Address: addr,
		Prefix:  "uchiverify.",
		Tags:    map[string]string{"env": "test"},
		Logger:  slog.Default(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.True(t, client.Enabled())

	client.Count("verify.start", 1, nil)
	assert.Equal(t, "uchiverify.verify.start:1|c|#env:test", recv())

	client.Count("verify.grant.failure", 1, map[string]string{"step": "assign_role"})
	assert.Equal(t, "uchiverify.verify.grant.failure:1|c|#env:test,step:assign_role", recv())

	client.Gauge("sessions.pending", 3, nil)
	assert.Equal(t, "uchiverify.sessions.pending:3|g|#env:test", recv())

	client.Timing("http.request", 250*time.Millisecond, nil)
	assert.Equal(t, "uchiverify.http.request:250|ms|#env:test", recv())
}

func TestClientDisabledWithoutAddress(t *testing.T) {
	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	// Emission on a disabled client must be a no-op, not a panic.
	client.Count("verify.start", 1, nil)
	client.Timing("http.request", time.Second, nil)
	require.NoError(t, client.Close())
}

func TestClientCloseStopsEmission(t *testing.T) {
	addr, _ := udpSink(t)

	client, err := NewClient(Config{Address: addr})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	assert.False(t, client.Enabled())
	client.Count("verify.start", 1, nil)
	require.NoError(t, client.Close())
}

func TestFormatTags(t *testing.T) {
	t.Run("sorted and merged", func(t *testing.T) {
		got := formatTags(
			map[string]string{"env": "prod", " service ": " verify "},
			map[string]string{"step": " assign_role ", "env": "stage", "": "dropped"},
		)
		assert.Equal(t, "|#env:stage,service:verify,step:assign_role", got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, formatTags(nil, nil))
		assert.Empty(t, formatTags(map[string]string{"": "x"}, nil))
	})
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	assert.False(t, client.Enabled())
	client.Count("verify.start", 1, nil)
	require.NoError(t, client.Close())
}
