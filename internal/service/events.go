package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/uchiverify/uchiverify/internal/domain/campus"
)

// ErrNoEvents is returned when no source produced an event inside the
// requested window.
var ErrNoEvents = errors.New("no events available")

// EventSource is one upstream feed of campus events.
type EventSource interface {
	Name() string
	Fetch(ctx context.Context) ([]campus.Event, error)
}

// EventCache stores aggregated feed results between requests. A Get
// miss is (nil, nil).
type EventCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const eventsCacheKey = "events"

// EventsServiceOptions groups dependencies for EventsService.
type EventsServiceOptions struct {
	Sources  []EventSource
	Cache    EventCache
	CacheTTL time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
	// Pick overrides the random index choice (tests only).
	Pick func(n int) int
}

// EventsService aggregates the campus event feeds and serves one
// random upcoming event. Sources are queried concurrently and a
// failing source only costs its own results.
type EventsService struct {
	sources  []EventSource
	cache    EventCache
	cacheTTL time.Duration
	log      *slog.Logger
	now      func() time.Time
	pick     func(n int) int
}

// NewEventsService constructs a new EventsService.
func NewEventsService(opts EventsServiceOptions) *EventsService {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	pick := opts.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return &EventsService{
		sources:  opts.Sources,
		cache:    opts.Cache,
		cacheTTL: ttl,
		log:      opts.Logger,
		now:      now,
		pick:     pick,
	}
}

func (s *EventsService) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return slog.Default()
}

// Random returns one random event. When days is positive only events
// starting within that many days are considered.
func (s *EventsService) Random(ctx context.Context, days int) (campus.Event, error) {
	events, err := s.allEvents(ctx)
	if err != nil {
		return campus.Event{}, err
	}

	if days > 0 {
		cutoff := s.now().Add(time.Duration(days) * 24 * time.Hour)
		filtered := events[:0]
		for _, ev := range events {
			if !ev.Start.After(cutoff) {
				filtered = append(filtered, ev)
			}
		}
		events = filtered
	}

	if len(events) == 0 {
		return campus.Event{}, ErrNoEvents
	}
	return events[s.pick(len(events))], nil
}

// allEvents returns the cached aggregate, refreshing it from the
// sources on a miss.
func (s *EventsService) allEvents(ctx context.Context) ([]campus.Event, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, eventsCacheKey)
		if err != nil {
			s.logger().Warn("event cache read failed", "error", err)
		} else if data != nil {
			var events []campus.Event
			if err := json.Unmarshal(data, &events); err == nil {
				return events, nil
			}
			s.logger().Warn("event cache entry corrupt, refetching")
		}
	}

	events := s.fetchAll(ctx)

	if s.cache != nil && len(events) > 0 {
		data, err := json.Marshal(events)
		if err == nil {
			if err := s.cache.Set(ctx, eventsCacheKey, data, s.cacheTTL); err != nil {
				s.logger().Warn("event cache write failed", "error", err)
			}
		}
	}
	return events, nil
}

// fetchAll fans out to every source. Per-source failures are logged
// and tolerated; only the surviving results are merged.
func (s *EventsService) fetchAll(ctx context.Context) []campus.Event {
	var (
		mu     sync.Mutex
		merged []campus.Event
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range s.sources {
		g.Go(func() error {
			events, err := src.Fetch(gctx)
			if err != nil {
				s.logger().Warn("event source failed", "source", src.Name(), "error", err)
				return nil
			}
			mu.Lock()
			merged = append(merged, events...)
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; Wait only observes ctx cancellation.
	_ = g.Wait()
	return merged
}
