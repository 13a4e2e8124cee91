package notify

import (
	"context"
	"errors"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityWarning = "warning"
)

// GrantFailurePayload captures the canonical data we emit when a role
// grant fails behind an already-reported verification success.
type GrantFailurePayload struct {
	GuildID    string
	UserID     string
	Step       string
	Error      string
	Severity   string
	OccurredAt time.Time
}

// Sink describes a destination capable of consuming grant failure notifications.
type Sink interface {
	SendGrantFailure(ctx context.Context, payload GrantFailurePayload) error
}

// Multi fans each notification out to every sink. Every sink is
// attempted even when an earlier one fails; failures are joined.
type Multi []Sink

// SendGrantFailure implements the Sink interface.
func (m Multi) SendGrantFailure(ctx context.Context, payload GrantFailurePayload) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.SendGrantFailure(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload GrantFailurePayload) error

// SendGrantFailure implements the Sink interface.
func (f SinkFunc) SendGrantFailure(ctx context.Context, payload GrantFailurePayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
