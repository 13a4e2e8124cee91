package feeds

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/uchiverify/uchiverify/internal/domain/campus"
)

// ICSConfig configures the neighborhood iCalendar source.
type ICSConfig struct {
	URL string
	// FallbackURL is used as the event link when a VEVENT has no URL line.
	FallbackURL string
	Location    *time.Location
	Client      *http.Client
	Now         func() time.Time
}

// ICSSource reads an iCalendar feed. The upstream calendar exports only
// a handful of properties per VEVENT, so a line parser is enough; there
// is no recurrence expansion.
type ICSSource struct {
	url         string
	fallbackURL string
	loc         *time.Location
	client      *http.Client
	now         func() time.Time
}

// NewICSSource validates the config and returns the source.
func NewICSSource(cfg ICSConfig) (*ICSSource, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, errors.New("ics url is required")
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &ICSSource{
		url:         u,
		fallbackURL: strings.TrimSpace(cfg.FallbackURL),
		loc:         loc,
		client:      hc,
		now:         now,
	}, nil
}

// Name identifies the source in logs and event footers.
func (s *ICSSource) Name() string { return "Hyde Park" }

// Fetch downloads and parses the feed, dropping events that already
// started. Individual malformed VEVENTs are skipped, not fatal.
func (s *ICSSource) Fetch(ctx context.Context) ([]campus.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("ics: create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ics: send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ics: unexpected status %d", resp.StatusCode)
	}

	return s.parse(resp.Body)
}

func (s *ICSSource) parse(r io.Reader) ([]campus.Event, error) {
	var (
		events  []campus.Event
		fields  map[string]string
		inEvent bool
	)
	now := s.now()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case line == "BEGIN:VEVENT":
			inEvent = true
			fields = make(map[string]string)
		case line == "END:VEVENT":
			if inEvent {
				if ev, ok := s.buildEvent(fields, now); ok {
					events = append(events, ev)
				}
			}
			inEvent = false
		case inEvent:
			name, value, ok := splitICSLine(line)
			if ok {
				// First occurrence wins, matching the upstream export.
				if _, seen := fields[name]; !seen {
					fields[name] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ics: read feed: %w", err)
	}
	return events, nil
}

// splitICSLine separates a content line into property name and value,
// dropping any parameters ("DTSTART;TZID=...:value").
func splitICSLine(line string) (name, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	name = line[:idx]
	if semi := strings.Index(name, ";"); semi >= 0 {
		name = name[:semi]
	}
	return strings.ToUpper(name), strings.TrimSpace(line[idx+1:]), true
}

func (s *ICSSource) buildEvent(fields map[string]string, now time.Time) (campus.Event, bool) {
	summary := fields["SUMMARY"]
	dtstart := fields["DTSTART"]
	if summary == "" || dtstart == "" {
		return campus.Event{}, false
	}

	start, err := parseICSTime(dtstart, s.loc)
	if err != nil {
		return campus.Event{}, false
	}
	if start.Before(now) {
		return campus.Event{}, false
	}

	eventURL := fields["URL"]
	if eventURL == "" {
		eventURL = s.fallbackURL
	}
	location := fields["LOCATION"]
	if location == "" {
		location = "TBA"
	}

	return campus.Event{
		Title:       unescapeICS(summary),
		URL:         eventURL,
		Start:       start,
		Location:    unescapeICS(location),
		Description: Truncate(unescapeICS(fields["DESCRIPTION"]), descriptionLimit),
		Source:      s.Name(),
	}, true
}

// parseICSTime handles the two DTSTART shapes the feed emits: a full
// timestamp (with or without a trailing Z) and a bare date.
func parseICSTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSuffix(value, "Z")
	if strings.Contains(value, "T") {
		return time.ParseInLocation("20060102T150405", value, loc)
	}
	return time.ParseInLocation("20060102", value, loc)
}

// unescapeICS undoes RFC 5545 text escaping.
func unescapeICS(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	replacer := strings.NewReplacer(`\n`, " ", `\N`, " ", `\,`, ",", `\;`, ";", `\\`, `\`)
	return replacer.Replace(s)
}
