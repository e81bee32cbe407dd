package shopauth

import (
	"context"
	"errors"
	"strings"

	"github.com/naazbookdepot/shopauth/password"
)

// Authorize verifies email and password against the user store.
//
// Every failure, including a store error, is reported as
// ErrInvalidCredentials so callers cannot tell an unknown email from a wrong
// password. Unknown emails still pay for one hash verification.
func (e *Engine) Authorize(ctx context.Context, email, password string) (*Identity, error) {
	if e == nil || e.users == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}
	start := e.now()
	defer func() {
		e.metricObserve(MetricAuthorizeLatency, e.now().Sub(start))
	}()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, e.loginFailed(ctx, "", "missing_field")
	}
	if e.passwordTooLong(password) {
		return nil, e.loginFailed(ctx, "", "password_too_long")
	}

	user, err := e.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			e.log.Error(ctx, "user lookup failed during authorize", "err", err)
		}
		_, _ = e.hasher.Verify(password, e.dummyHash)
		return nil, e.loginFailed(ctx, "", "unknown_user")
	}
	if user.PasswordHash == "" {
		_, _ = e.hasher.Verify(password, e.dummyHash)
		return nil, e.loginFailed(ctx, user.ID, "no_password")
	}

	ok, err := e.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		e.log.Error(ctx, "stored password hash unusable", "user_id", user.ID, "err", err)
		return nil, e.loginFailed(ctx, user.ID, "bad_hash")
	}
	if !ok {
		return nil, e.loginFailed(ctx, user.ID, "mismatch")
	}

	if e.config.Password.UpgradeOnLogin && e.hasher.NeedsRehash(user.PasswordHash) {
		e.rehash(ctx, user.ID, password)
	}

	identity := &Identity{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		MFAEnabled: user.MFAEnabled,
		LastLogin:  e.now().UTC(),
	}
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.ID, nil, func() map[string]string {
		return map[string]string{"latency": auditDuration(e.now().Sub(start))}
	})
	return identity, nil
}

// Login runs Authorize and issues a session token for the result.
func (e *Engine) Login(ctx context.Context, email, password string) (*Identity, *IssuedSession, error) {
	identity, err := e.Authorize(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	session, err := e.IssueSession(ctx, identity)
	if err != nil {
		return nil, nil, err
	}
	return identity, session, nil
}

func (e *Engine) loginFailed(ctx context.Context, userID, reason string) error {
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, userID, ErrInvalidCredentials, func() map[string]string {
		return map[string]string{"reason": reason}
	})
	return ErrInvalidCredentials
}

// rehash replaces a legacy or weak hash after a successful login. Failure
// only costs the upgrade.
func (e *Engine) rehash(ctx context.Context, userID, password string) {
	hash, err := e.hasher.Hash(password)
	if err != nil {
		e.log.Warn(ctx, "password rehash failed", "user_id", userID, "err", err)
		return
	}
	if _, err := e.users.UpdateUser(ctx, userID, UserChanges{PasswordHash: &hash}); err != nil {
		e.log.Warn(ctx, "password rehash not stored", "user_id", userID, "err", err)
		return
	}
	e.metricInc(MetricPasswordRehashed)
}

// passwordTooLong reports whether pw would be refused by the hasher for its
// length alone.
func (e *Engine) passwordTooLong(pw string) bool {
	limit := e.config.Password.MaxBytes
	if limit <= 0 {
		limit = password.DefaultMaxPasswordBytes
	}
	return len(pw) > limit
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
