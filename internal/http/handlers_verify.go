package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/uchiverify/uchiverify/internal/errors"
	"github.com/uchiverify/uchiverify/internal/service"
)

// VerifyHandlers serves the browser half of the verification flow.
type VerifyHandlers struct {
	Verify   *service.VerifyService
	Stats    *service.StatsService
	Renderer *TemplateRenderer
	Logger   *slog.Logger
}

func (h *VerifyHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Start handles GET /auth/start. It opens a verification session and
// redirects the browser to the identity provider.
func (h *VerifyHandlers) Start(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	authURL, err := h.Verify.Begin(r.Context(), q.Get("guild_id"), q.Get("user_id"))
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeValidation) {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err})
			return
		}
		h.logger().Error("start verification failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: err})
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// verifyPageData feeds the success and failure templates.
type verifyPageData struct {
	Name        string
	Email       string
	RoleGranted bool
	Message     string
}

// Callback handles GET /auth/callback, the provider redirect target.
// Failure pages render with status 200; the page content carries the
// outcome.
func (h *VerifyHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.Verify.Complete(r.Context(), service.CompleteInput{
		State:         q.Get("state"),
		Code:          q.Get("code"),
		ProviderError: q.Get("error"),
	})
	if err != nil {
		h.logger().Warn("verification failed",
			"code", string(apperrors.CodeOf(err)),
			"error", err)
		h.Renderer.Render(w, http.StatusOK, "verify_failure.tmpl", verifyPageData{
			Message: failureMessage(err),
		})
		return
	}

	h.Stats.Track(r.Context(), "verify")
	h.Renderer.Render(w, http.StatusOK, "verify_success.tmpl", verifyPageData{
		Name:        result.Profile.Name,
		Email:       result.Profile.Email,
		RoleGranted: result.RoleGranted,
	})
}

// failureMessage maps an error to the user-facing page text. Session
// problems get one generic message regardless of cause.
func failureMessage(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeCSRF:
		return "Your verification session is invalid or has expired. Please restart verification from Discord."
	case apperrors.ErrCodeValidation:
		return "The verification link is incomplete. Please restart verification from Discord."
	case apperrors.ErrCodeProviderDenied:
		return fmt.Sprintf("The university sign-in service reported an error (%s). Please restart verification from Discord.",
			providerErrorValue(err))
	case apperrors.ErrCodeUpstreamAuth:
		return "Could not retrieve an authentication token from the university sign-in service. Please try again."
	case apperrors.ErrCodeUpstreamProfile:
		return "Could not retrieve your profile from the university sign-in service. Please try again."
	case apperrors.ErrCodeMissingClaim:
		return "Your university account did not provide an email address, so verification cannot continue."
	case apperrors.ErrCodeEmailNotEligible:
		return "This account's email address is not eligible for verification on this server."
	default:
		return "Something went wrong during verification. Please try again."
	}
}

// providerErrorValue extracts the provider's OAuth error value (e.g.
// "access_denied") from the wrapped cause.
func providerErrorValue(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Cause != nil {
		return appErr.Cause.Error()
	}
	return "unknown"
}
