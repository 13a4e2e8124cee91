package httpx

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uchiverify/uchiverify"
	"github.com/uchiverify/uchiverify/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	sub, err := fs.Sub(uchiverify.TemplateFS, "web/templates")
	require.NoError(t, err)
	r, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: sub,
		Logger:     testLogger(),
	})
	require.NoError(t, err)
	return r
}

// memStatsRepo is an in-memory service.StatsRepository for handler tests.
type memStatsRepo struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newMemStatsRepo() *memStatsRepo {
	return &memStatsRepo{counts: make(map[string]int64)}
}

func (m *memStatsRepo) Increment(_ context.Context, command string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.counts[command]++
	return nil
}

func (m *memStatsRepo) Snapshot(_ context.Context) ([]service.CommandCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]service.CommandCount, 0, len(m.counts))
	for cmd, n := range m.counts {
		out = append(out, service.CommandCount{Command: cmd, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Command < out[j].Command
	})
	return out, nil
}

func (m *memStatsRepo) count(command string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[command]
}

func testStats(repo service.StatsRepository) *service.StatsService {
	return service.NewStatsService(service.StatsServiceOptions{
		Repo:   repo,
		Logger: testLogger(),
	})
}
