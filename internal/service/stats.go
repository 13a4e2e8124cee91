package service

import (
	"context"
	"log/slog"
)

// CommandCount is one row of the usage counters.
type CommandCount struct {
	Command string `json:"command"`
	Count   int64  `json:"count"`
}

// StatsRepository persists anonymous per-command usage counters.
type StatsRepository interface {
	Increment(ctx context.Context, command string) error
	Snapshot(ctx context.Context) ([]CommandCount, error)
}

// StatsServiceOptions groups dependencies for StatsService.
type StatsServiceOptions struct {
	Repo   StatsRepository
	Logger *slog.Logger
}

// StatsService tracks anonymous command usage. Tracking is best
// effort so a counter write never fails the command it counts.
type StatsService struct {
	repo StatsRepository
	log  *slog.Logger
}

// NewStatsService constructs a new StatsService.
func NewStatsService(opts StatsServiceOptions) *StatsService {
	return &StatsService{repo: opts.Repo, log: opts.Logger}
}

func (s *StatsService) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return slog.Default()
}

// Track increments the counter for a command. Errors are logged, never
// returned.
func (s *StatsService) Track(ctx context.Context, command string) {
	if s == nil || s.repo == nil || command == "" {
		return
	}
	if err := s.repo.Increment(ctx, command); err != nil {
		s.logger().Error("command stat write failed", "command", command, "error", err)
	}
}

// Snapshot returns all counters ordered by count descending.
func (s *StatsService) Snapshot(ctx context.Context) ([]CommandCount, error) {
	return s.repo.Snapshot(ctx)
}
