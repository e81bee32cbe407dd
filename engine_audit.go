package shopauth

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginSuccess           = "login_success"
	auditEventLoginFailure           = "login_failure"
	auditEventLogout                 = "logout"
	auditEventRegisterSuccess        = "register_success"
	auditEventRegisterFailure        = "register_failure"
	auditEventRateLimitTriggered     = "rate_limit_triggered"
	auditEventCSRFRejected           = "csrf_rejected"
	auditEventSessionExpired         = "session_expired"
	auditEventFingerprintMismatch    = "fingerprint_mismatch"
	auditEventMFAEnrollmentStarted   = "mfa_enrollment_started"
	auditEventMFAEnabled             = "mfa_enabled"
	auditEventMFAFailure             = "mfa_failure"
	auditEventMFADisabled            = "mfa_disabled"
	auditEventProfileUpdated         = "profile_updated"
	auditEventPasswordChangeRejected = "password_change_rejected"
	auditEventAccountDeleted         = "account_deleted"
)

// AuditErrorCode is the stable error vocabulary written to audit events.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrCSRF               AuditErrorCode = "csrf_invalid"
	auditErrSessionExpired     AuditErrorCode = "session_expired"
	auditErrUserNotFound       AuditErrorCode = "user_not_found"
	auditErrValidation         AuditErrorCode = "validation"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrPassword           AuditErrorCode = "password_rejected"
	auditErrMFAInvalid         AuditErrorCode = "mfa_invalid"
	auditErrMFANotConfigured   AuditErrorCode = "mfa_not_configured"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}
	if rid := requestIDFromContext(ctx); rid != "" {
		if metadata == nil {
			metadata = make(map[string]string, 1)
		}
		metadata["request_id"] = rid
	}

	event := AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: eventType,
		UserID:    userID,
		IP:        ClientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) emitRateLimit(ctx context.Context, scope RateLimitScope, key string) {
	e.metricInc(MetricRateLimitHit)
	e.emitAudit(ctx, auditEventRateLimitTriggered, false, "", ErrRateLimited, func() map[string]string {
		return map[string]string{
			"scope": string(scope),
			"key":   key,
		}
	})
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrCSRFInvalid):
		return auditErrCSRF
	case errors.Is(err, ErrSessionExpired):
		return auditErrSessionExpired
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrPasswordTooLong):
		return auditErrValidation
	case errors.Is(err, ErrEmailInUse):
		return auditErrDuplicate
	case errors.Is(err, ErrNoPasswordSet), errors.Is(err, ErrCurrentPasswordIncorrect):
		return auditErrPassword
	case errors.Is(err, ErrMFAInvalidCode):
		return auditErrMFAInvalid
	case errors.Is(err, ErrMFANoSecret):
		return auditErrMFANotConfigured
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}

func auditDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
