// Package service orchestrates the verification flow and the campus
// novelty features over the port interfaces.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainverify "github.com/uchiverify/uchiverify/internal/domain/verify"
	apperrors "github.com/uchiverify/uchiverify/internal/errors"
	"github.com/uchiverify/uchiverify/internal/observability/notify"
	"github.com/uchiverify/uchiverify/internal/observability/statsd"
	"github.com/uchiverify/uchiverify/internal/ports"
)

// VerificationRecorder persists the audit trail of completed
// verifications. Implementations must tolerate repeated records for
// the same member.
type VerificationRecorder interface {
	Record(ctx context.Context, rec domainverify.Verification) error
}

// VerifyServiceOptions groups dependencies for VerifyService. Granter,
// Metrics, Notifier and Audit are optional; a nil Granter disables the
// role side effect entirely.
type VerifyServiceOptions struct {
	Provider ports.IdentityProvider
	Sessions ports.SessionStore
	Granter  RoleGranter
	Policy   domainverify.EmailPolicy
	Metrics  statsd.Sink
	Notifier notify.Sink
	Audit    VerificationRecorder
	Logger   *slog.Logger
	Now      func() time.Time
}

// VerifyService orchestrates the browser half of the verification
// flow: it opens sessions for /auth/start and runs the ordered
// callback checks ending in the role grant.
type VerifyService struct {
	provider ports.IdentityProvider
	sessions ports.SessionStore
	granter  RoleGranter
	policy   domainverify.EmailPolicy
	metrics  statsd.Sink
	notifier notify.Sink
	audit    VerificationRecorder
	log      *slog.Logger
	now      func() time.Time
}

// NewVerifyService constructs a new VerifyService.
func NewVerifyService(opts VerifyServiceOptions) *VerifyService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &VerifyService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		granter:  opts.Granter,
		policy:   opts.Policy,
		metrics:  opts.Metrics,
		notifier: opts.Notifier,
		audit:    opts.Audit,
		log:      opts.Logger,
		now:      now,
	}
}

func (s *VerifyService) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return slog.Default()
}

// Begin opens a verification session for the given guild member and
// returns the provider authorization URL to redirect the browser to.
func (s *VerifyService) Begin(ctx context.Context, guildID, userID string) (string, error) {
	if !isSnowflake(guildID) {
		return "", apperrors.ValidationField("guild_id", "guild_id must be a numeric id")
	}
	if !isSnowflake(userID) {
		return "", apperrors.ValidationField("user_id", "user_id must be a numeric id")
	}

	state, err := newStateToken()
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "generate state token")
	}

	sess := domainverify.Session{
		State:     state,
		GuildID:   guildID,
		UserID:    userID,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "create verification session")
	}

	s.count("verify.start", nil)
	return s.provider.AuthCodeURL(state), nil
}

// CompleteInput carries the callback query parameters.
type CompleteInput struct {
	State string
	Code  string
	// ProviderError is the OAuth "error" query parameter, set when the
	// provider redirected back with a failure instead of a code.
	ProviderError string
}

// CompleteResult reports the outcome of a successful verification.
type CompleteResult struct {
	Session     domainverify.Session
	Profile     domainverify.Profile
	RoleGranted bool
}

// Complete runs the callback checks in order: provider error, session
// consumption, code exchange, profile fetch, email claim, domain
// policy, then the best-effort role grant. Any check failing aborts
// the flow before the provider is contacted further.
func (s *VerifyService) Complete(ctx context.Context, in CompleteInput) (*CompleteResult, error) {
	if in.ProviderError != "" {
		s.count("verify.failure", map[string]string{"reason": "provider_error"})
		return nil, apperrors.Wrap(errors.New(in.ProviderError),
			apperrors.ErrCodeProviderDenied, "provider reported an authorization error")
	}

	// One code for a missing, unknown, or already-consumed state so the
	// response cannot distinguish the cases.
	if in.State == "" {
		s.count("verify.failure", map[string]string{"reason": "csrf"})
		return nil, &apperrors.AppError{Code: apperrors.ErrCodeCSRF, Message: "state parameter is missing"}
	}
	sess, err := s.sessions.Consume(ctx, in.State)
	if err != nil {
		s.count("verify.failure", map[string]string{"reason": "csrf"})
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCSRF, "verification session is invalid or expired")
	}

	if in.Code == "" {
		s.count("verify.failure", map[string]string{"reason": "missing_code"})
		return nil, apperrors.ValidationField("code", "authorization code is missing")
	}

	accessToken, err := s.provider.ExchangeCode(ctx, in.Code)
	if err != nil {
		s.count("verify.failure", map[string]string{"reason": "exchange"})
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUpstreamAuth, "exchange authorization code")
	}

	profile, err := s.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		s.count("verify.failure", map[string]string{"reason": "profile"})
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUpstreamProfile, "fetch user profile")
	}

	if profile.Email == "" {
		s.count("verify.failure", map[string]string{"reason": "missing_email"})
		return nil, &apperrors.AppError{
			Code:    apperrors.ErrCodeMissingClaim,
			Message: "profile does not include an email claim",
			Field:   "email",
		}
	}

	if !s.policy.Allows(profile.Email) {
		s.count("verify.failure", map[string]string{"reason": "email_domain"})
		return nil, &apperrors.AppError{
			Code:    apperrors.ErrCodeEmailNotEligible,
			Message: "email address is not eligible for verification",
		}
	}

	result := &CompleteResult{Session: sess, Profile: profile}
	result.RoleGranted = s.grantRole(ctx, sess)

	s.count("verify.success", nil)
	s.recordAudit(ctx, sess, profile, result.RoleGranted)
	return result, nil
}

// grantRole runs the role side effect. Failures are swallowed: the
// member already saw their identity confirmed, so the grant is
// surfaced to operators instead of the browser.
func (s *VerifyService) grantRole(ctx context.Context, sess domainverify.Session) bool {
	if s.granter == nil {
		s.logger().Warn("role grant skipped, granter not configured",
			"guild_id", sess.GuildID, "user_id", sess.UserID)
		return false
	}

	err := s.granter.Grant(ctx, sess.GuildID, sess.UserID)
	if err == nil {
		return true
	}

	step := "grant"
	var grantErr *GrantError
	if errors.As(err, &grantErr) {
		step = grantErr.Step
	}

	s.logger().Error("role grant failed after verified sign-in",
		"guild_id", sess.GuildID,
		"user_id", sess.UserID,
		"step", step,
		"error", err)
	s.count("verify.grant.failure", map[string]string{"step": step})

	if s.notifier != nil {
		payload := notify.GrantFailurePayload{
			GuildID:    sess.GuildID,
			UserID:     sess.UserID,
			Step:       step,
			Error:      err.Error(),
			Severity:   notify.SeverityWarning,
			OccurredAt: s.now(),
		}
		if notifyErr := s.notifier.SendGrantFailure(ctx, payload); notifyErr != nil {
			s.logger().Error("grant failure notification failed", "error", notifyErr)
		}
	}
	return false
}

func (s *VerifyService) recordAudit(ctx context.Context, sess domainverify.Session, profile domainverify.Profile, granted bool) {
	if s.audit == nil {
		return
	}
	rec := domainverify.Verification{
		ID:          uuid.NewString(),
		GuildID:     sess.GuildID,
		UserID:      sess.UserID,
		EmailDomain: profile.EmailDomain(),
		RoleGranted: granted,
		VerifiedAt:  s.now(),
	}
	if err := s.audit.Record(ctx, rec); err != nil {
		s.logger().Error("verification audit write failed", "error", err)
	}
}

func (s *VerifyService) count(name string, tags map[string]string) {
	if s.metrics != nil {
		s.metrics.Count(name, 1, tags)
	}
}

// newStateToken returns 16 bytes of crypto randomness hex-encoded,
// giving a 32-character opaque token.
func newStateToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// isSnowflake reports whether s looks like a platform snowflake id:
// all digits, non-empty, bounded length.
func isSnowflake(s string) bool {
	if len(s) == 0 || len(s) > 20 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
