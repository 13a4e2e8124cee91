package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/uchiverify/uchiverify/internal/domain/campus"
)

// CalendarConfig configures the university calendar source.
type CalendarConfig struct {
	URL      string
	Location *time.Location
	Client   *http.Client
}

// CalendarSource reads the university events calendar JSON feed.
type CalendarSource struct {
	url    string
	loc    *time.Location
	client *http.Client
}

// calendarEntry is the upstream row shape. Timestamps arrive as naive
// UTC strings, not RFC 3339.
type calendarEntry struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	DateUTC  string `json:"date_utc"`
	IsOnline int    `json:"is_online"`
}

const calendarTimeLayout = "2006-01-02 15:04:05"

// NewCalendarSource validates the config and returns the source.
func NewCalendarSource(cfg CalendarConfig) (*CalendarSource, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, errors.New("calendar url is required")
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &CalendarSource{url: u, loc: loc, client: hc}, nil
}

// Name identifies the source in logs and event footers.
func (s *CalendarSource) Name() string { return "UChicago Events" }

// Fetch returns the calendar entries converted to the campus timezone.
// The upstream description field only repeats the URL, so it is not
// carried over.
func (s *CalendarSource) Fetch(ctx context.Context) ([]campus.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("calendar: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar: send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Data []calendarEntry `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("calendar: decode response: %w", err)
	}

	events := make([]campus.Event, 0, len(payload.Data))
	for _, entry := range payload.Data {
		if entry.Title == "" || entry.DateUTC == "" {
			continue
		}
		start, err := time.ParseInLocation(calendarTimeLayout, entry.DateUTC, time.UTC)
		if err != nil {
			continue
		}

		location := "In-Person"
		if entry.IsOnline == 1 {
			location = "Online"
		}

		events = append(events, campus.Event{
			Title:    entry.Title,
			URL:      entry.URL,
			Start:    start.In(s.loc),
			Location: location,
			Source:   s.Name(),
		})
	}
	return events, nil
}
