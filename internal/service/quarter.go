package service

import (
	"fmt"
	"strings"
	"time"
)

// QuarterServiceOptions groups dependencies for QuarterService.
type QuarterServiceOptions struct {
	Name         string
	Start        time.Time
	End          time.Time
	Location     *time.Location
	ImageBaseURL string
	Now          func() time.Time
}

// QuarterStatus is the countdown snapshot for the current quarter.
type QuarterStatus struct {
	Quarter   string `json:"quarter"`
	DayNumber int    `json:"day_number"`
	Days      int    `json:"days_remaining"`
	Hours     int    `json:"hours_remaining"`
	Minutes   int    `json:"minutes_remaining"`
	Seconds   int    `json:"seconds_remaining"`
	ImageURL  string `json:"image_url,omitempty"`
}

// QuarterService computes the day-of-quarter counter and the time
// remaining until the quarter ends, in the campus timezone.
type QuarterService struct {
	name         string
	start        time.Time
	end          time.Time
	loc          *time.Location
	imageBaseURL string
	now          func() time.Time
}

// NewQuarterService constructs a new QuarterService. Start and end are
// interpreted as midnights in the given location.
func NewQuarterService(opts QuarterServiceOptions) *QuarterService {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &QuarterService{
		name:         opts.Name,
		start:        midnight(opts.Start, loc),
		end:          midnight(opts.End, loc),
		loc:          loc,
		imageBaseURL: strings.TrimRight(opts.ImageBaseURL, "/"),
		now:          now,
	}
}

// Status returns the current countdown snapshot.
func (s *QuarterService) Status() QuarterStatus {
	now := s.now().In(s.loc)

	remaining := s.end.Sub(now)
	days := int(remaining / (24 * time.Hour))
	rem := remaining % (24 * time.Hour)
	if rem < 0 {
		rem = 0
	}

	status := QuarterStatus{
		Quarter:   s.name,
		DayNumber: int(now.Sub(s.start) / (24 * time.Hour)),
		Days:      days,
		Hours:     int(rem / time.Hour),
		Minutes:   int(rem % time.Hour / time.Minute),
		Seconds:   int(rem % time.Minute / time.Second),
	}
	if s.imageBaseURL != "" {
		status.ImageURL = fmt.Sprintf("%s/%d.png", s.imageBaseURL, status.DayNumber)
	}
	return status
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
