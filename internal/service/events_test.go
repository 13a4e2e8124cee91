package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uchiverify/uchiverify/internal/domain/campus"
)

type stubSource struct {
	name   string
	events []campus.Event
	err    error
	calls  atomic.Int64
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(context.Context) ([]campus.Event, error) {
	s.calls.Add(1)
	return s.events, s.err
}

type memCache struct {
	values map[string][]byte
	sets   int
}

func newMemCache() *memCache { return &memCache{values: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	return c.values[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.values[key] = value
	c.sets++
	return nil
}

var eventsNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func eventAt(title string, start time.Time) campus.Event {
	return campus.Event{Title: title, Start: start, Source: "test"}
}

func TestEventsService_Random_MergesSources(t *testing.T) {
	soon := eventsNow.Add(2 * time.Hour)
	svc := NewEventsService(EventsServiceOptions{
		Sources: []EventSource{
			&stubSource{name: "a", events: []campus.Event{eventAt("Trivia Night", soon)}},
			&stubSource{name: "b", events: []campus.Event{eventAt("Study Break", soon)}},
		},
		Now:  func() time.Time { return eventsNow },
		Pick: func(n int) int { return n - 1 },
	})

	ev, err := svc.Random(context.Background(), 0)
	require.NoError(t, err)
	assert.NotEmpty(t, ev.Title)
}

func TestEventsService_Random_ToleratesFailingSource(t *testing.T) {
	soon := eventsNow.Add(2 * time.Hour)
	svc := NewEventsService(EventsServiceOptions{
		Sources: []EventSource{
			&stubSource{name: "broken", err: errors.New("upstream 502")},
			&stubSource{name: "ok", events: []campus.Event{eventAt("Trivia Night", soon)}},
		},
		Now:  func() time.Time { return eventsNow },
		Pick: func(int) int { return 0 },
	})

	ev, err := svc.Random(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Trivia Night", ev.Title)
}

func TestEventsService_Random_CutoffFilter(t *testing.T) {
	svc := NewEventsService(EventsServiceOptions{
		Sources: []EventSource{
			&stubSource{name: "a", events: []campus.Event{
				eventAt("Tomorrow", eventsNow.Add(20*time.Hour)),
				eventAt("Next Month", eventsNow.Add(30*24*time.Hour)),
			}},
		},
		Now:  func() time.Time { return eventsNow },
		Pick: func(n int) int { require.Equal(t, 1, n); return 0 },
	})

	ev, err := svc.Random(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Tomorrow", ev.Title)
}

func TestEventsService_Random_NoEvents(t *testing.T) {
	svc := NewEventsService(EventsServiceOptions{
		Sources: []EventSource{
			&stubSource{name: "a", events: []campus.Event{
				eventAt("Next Month", eventsNow.Add(30*24*time.Hour)),
			}},
		},
		Now: func() time.Time { return eventsNow },
	})

	_, err := svc.Random(context.Background(), 1)
	require.ErrorIs(t, err, ErrNoEvents)

	empty := NewEventsService(EventsServiceOptions{Now: func() time.Time { return eventsNow }})
	_, err = empty.Random(context.Background(), 0)
	require.ErrorIs(t, err, ErrNoEvents)
}

func TestEventsService_Random_UsesCache(t *testing.T) {
	soon := eventsNow.Add(2 * time.Hour)
	src := &stubSource{name: "a", events: []campus.Event{eventAt("Trivia Night", soon)}}
	cache := newMemCache()
	svc := NewEventsService(EventsServiceOptions{
		Sources: []EventSource{src},
		Cache:   cache,
		Now:     func() time.Time { return eventsNow },
		Pick:    func(int) int { return 0 },
	})

	_, err := svc.Random(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), src.calls.Load())
	assert.Equal(t, 1, cache.sets)

	// Second request is served from the cache without refetching.
	_, err = svc.Random(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), src.calls.Load())
}

func TestEventsService_Random_CorruptCacheRefetches(t *testing.T) {
	soon := eventsNow.Add(2 * time.Hour)
	src := &stubSource{name: "a", events: []campus.Event{eventAt("Trivia Night", soon)}}
	cache := newMemCache()
	cache.values[eventsCacheKey] = []byte("{not json")

	svc := NewEventsService(EventsServiceOptions{
		Sources: []EventSource{src},
		Cache:   cache,
		Now:     func() time.Time { return eventsNow },
		Pick:    func(int) int { return 0 },
	})

	ev, err := svc.Random(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Trivia Night", ev.Title)
	assert.Equal(t, int64(1), src.calls.Load())

	var cached []campus.Event
	require.NoError(t, json.Unmarshal(cache.values[eventsCacheKey], &cached))
	require.Len(t, cached, 1)
}
