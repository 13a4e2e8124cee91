// Package feeds implements the campus event feed sources aggregated by
// the events service. Each source normalizes its upstream format into
// campus.Event; transient upstream failures are the caller's problem.
package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/uchiverify/uchiverify/internal/domain/campus"
)

const descriptionLimit = 150

// BlueprintConfig configures the RSO event discovery source.
type BlueprintConfig struct {
	// SearchURL is the discovery search endpoint without query string.
	SearchURL string
	// EventLinkBase is prepended to an event id to form its public URL.
	EventLinkBase string
	Location      *time.Location
	Client        *http.Client
	Now           func() time.Time
}

// BlueprintSource reads approved RSO events from a Blueprint-style
// discovery API.
type BlueprintSource struct {
	searchURL     string
	eventLinkBase string
	loc           *time.Location
	client        *http.Client
	now           func() time.Time
}

// NewBlueprintSource validates the config and returns the source.
func NewBlueprintSource(cfg BlueprintConfig) (*BlueprintSource, error) {
	searchURL := strings.TrimSpace(cfg.SearchURL)
	if searchURL == "" {
		return nil, errors.New("blueprint search url is required")
	}

	linkBase := strings.TrimSpace(cfg.EventLinkBase)
	if linkBase == "" {
		u, err := url.Parse(searchURL)
		if err != nil {
			return nil, fmt.Errorf("invalid blueprint search url: %w", err)
		}
		linkBase = u.Scheme + "://" + u.Host + "/event/"
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

	return &BlueprintSource{
		searchURL:     searchURL,
		eventLinkBase: strings.TrimRight(linkBase, "/") + "/",
		loc:           loc,
		client:        hc,
		now:           now,
	}, nil
}

// Name identifies the source in logs and event footers.
func (s *BlueprintSource) Name() string { return "Blueprint" }

// Fetch queries upcoming approved events. The response shape is loose
// upstream, so fields are extracted with JMESPath rather than a rigid
// struct.
func (s *BlueprintSource) Fetch(ctx context.Context) ([]campus.Event, error) {
	q := url.Values{}
	q.Set("endsAfter", s.now().In(s.loc).Format(time.RFC3339))
	q.Set("orderByField", "endsOn")
	q.Set("orderByDirection", "ascending")
	q.Set("status", "Approved")
	q.Set("take", "25")
	q.Set("query", "")

	doc, err := fetchJSON(ctx, s.client, s.searchURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("blueprint: %w", err)
	}

	raw, err := jmespath.Search("value", doc)
	if err != nil {
		return nil, fmt.Errorf("blueprint: extract value: %w", err)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, errors.New("blueprint: response has no event list")
	}

	events := make([]campus.Event, 0, len(items))
	for _, item := range items {
		name, _ := jmespathString(item, "name")
		id, _ := jmespathString(item, "id")
		startsOn, _ := jmespathString(item, "startsOn")
		if name == "" || startsOn == "" {
			continue
		}

		start, err := time.Parse(time.RFC3339, startsOn)
		if err != nil {
			continue
		}

		desc, _ := jmespathString(item, "description")
		location, _ := jmespathString(item, "location")
		if location == "" {
			location = "TBA"
		}

		events = append(events, campus.Event{
			Title:       name,
			URL:         s.eventLinkBase + id,
			Start:       start.In(s.loc),
			Location:    location,
			Description: Truncate(StripHTML(desc), descriptionLimit),
			Source:      s.Name(),
		})
	}
	return events, nil
}

// jmespathString pulls a scalar out of a decoded JSON value as a
// string. Numeric ids are stringified so the URL join works either way.
func jmespathString(doc any, expr string) (string, error) {
	v, err := jmespath.Search(expr, doc)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(t), nil
	}
}

// fetchJSON GETs a URL and decodes the body into loose JSON values.
func fetchJSON(ctx context.Context, client *http.Client, rawURL string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return doc, nil
}
