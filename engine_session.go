package shopauth

import (
	"context"
	"errors"

	"github.com/naazbookdepot/shopauth/jwt"
)

// IssueSession mints a session token for identity. The fingerprint claim is
// the SHA-256 of the user agent attached to ctx, if any.
func (e *Engine) IssueSession(ctx context.Context, identity *Identity) (*IssuedSession, error) {
	if e == nil || e.sessions == nil {
		return nil, ErrEngineNotReady
	}
	if identity == nil || identity.ID == "" {
		return nil, ErrUnauthorized
	}

	token, claims, err := e.sessions.Issue(jwt.Subject{
		ID:         identity.ID,
		Email:      identity.Email,
		Name:       identity.Name,
		Role:       string(identity.Role),
		MFAEnabled: identity.MFAEnabled,
		LastLogin:  identity.LastLogin,
	}, UserAgentFromContext(ctx), e.now())
	if err != nil {
		return nil, err
	}

	view, _ := Present(claims)
	e.metricInc(MetricSessionIssued)
	return &IssuedSession{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		View:      view,
	}, nil
}

// Present turns refreshed claims into the view returned to clients. Claims
// carrying the SessionExpired marker never produce a view.
func Present(claims *jwt.SessionClaims) (SessionView, error) {
	if claims == nil {
		return SessionView{}, ErrUnauthorized
	}
	if claims.Expired() {
		return SessionView{}, ErrSessionExpired
	}
	return SessionView{
		ID:          claims.UserID,
		Email:       claims.Email,
		Name:        claims.Name,
		Role:        Role(claims.Role),
		LastLogin:   claims.LastLogin,
		Fingerprint: claims.Fingerprint,
		MFAEnabled:  claims.MFAEnabled,
	}, nil
}

// Authenticate runs the token pipeline: Parse, Refresh, Present. Identity
// claims are reloaded from the UserStore, so the view and any reissued token
// carry the current role and MFA state. When the token is valid and older
// than Session.UpdateAge it is re-signed and returned in Reissued so the
// caller can replace the cookie.
//
// A fingerprint that differs from the current user agent is counted and
// audited but does not reject the session.
func (e *Engine) Authenticate(ctx context.Context, token string) (*AuthenticatedSession, error) {
	if e == nil || e.sessions == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := e.sessions.Parse(token)
	if err != nil {
		e.metricInc(MetricSessionInvalid)
		return nil, ErrTokenInvalid
	}

	now := e.now()
	refreshed := e.sessions.Refresh(claims, now)

	if _, err := Present(refreshed); err != nil {
		if errors.Is(err, ErrSessionExpired) {
			e.metricInc(MetricSessionExpired)
			e.emitAudit(ctx, auditEventSessionExpired, false, refreshed.UserID, ErrSessionExpired, nil)
		}
		return nil, err
	}

	if err := e.syncClaims(ctx, refreshed); err != nil {
		return nil, err
	}
	view, err := Present(refreshed)
	if err != nil {
		return nil, err
	}

	if ua := UserAgentFromContext(ctx); refreshed.Fingerprint != "" && ua != "" &&
		jwt.Fingerprint(ua) != refreshed.Fingerprint {
		e.metricInc(MetricFingerprintMismatch)
		e.emitAudit(ctx, auditEventFingerprintMismatch, false, refreshed.UserID, nil, nil)
	}

	out := &AuthenticatedSession{View: view}
	if e.sessions.NeedsReissue(refreshed, now) {
		newToken, newClaims, err := e.sessions.Reissue(refreshed, now)
		if err != nil {
			e.log.Warn(ctx, "session reissue failed", "user_id", refreshed.UserID, "err", err)
			return out, nil
		}
		e.metricInc(MetricSessionReissued)
		out.Reissued = &IssuedSession{
			Token:     newToken,
			ExpiresAt: newClaims.ExpiresAt.Time,
			View:      view,
		}
	}
	return out, nil
}

// syncClaims overwrites the mutable claims with the stored user row so role
// and MFA changes show up without a new login. A deleted user yields
// ErrUserNotFound.
func (e *Engine) syncClaims(ctx context.Context, claims *jwt.SessionClaims) error {
	user, err := e.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricSessionInvalid)
			return ErrUserNotFound
		}
		e.log.Error(ctx, "session user lookup failed", "user_id", claims.UserID, "err", err)
		return storeError(err)
	}
	claims.Email = user.Email
	claims.Name = user.Name
	claims.Role = string(user.Role)
	claims.MFAEnabled = user.MFAEnabled
	return nil
}

// Logout records the sign-out. Tokens are stateless, so clearing the cookie
// is what ends the session.
func (e *Engine) Logout(ctx context.Context, userID string) {
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, userID, nil, nil)
}
