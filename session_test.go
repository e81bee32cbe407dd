package shopauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/naazbookdepot/shopauth/jwt"
)

func issueFor(t *testing.T, env *testEnv, ctx context.Context) *IssuedSession {
	t.Helper()
	env.users.put(UserRecord{ID: "u1", Email: "a@example.com", Name: "A", Role: RoleUser})
	session, err := env.engine.IssueSession(ctx, &Identity{
		ID:        "u1",
		Email:     "a@example.com",
		Name:      "A",
		Role:      RoleUser,
		LastLogin: env.clock.Now(),
	})
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	return session
}

func TestIssueSessionClaims(t *testing.T) {
	env := newTestEnv(t)
	session := issueFor(t, env, WithUserAgent(context.Background(), "agent/1.0"))

	if want := env.clock.Now().Add(30 * 24 * time.Hour); !session.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, session.ExpiresAt)
	}
	if session.View.Fingerprint != jwt.Fingerprint("agent/1.0") {
		t.Fatalf("unexpected fingerprint %q", session.View.Fingerprint)
	}
	if session.View.LastLogin != env.clock.Now().Format(time.RFC3339) {
		t.Fatalf("unexpected lastLogin %q", session.View.LastLogin)
	}
}

func TestIssueSessionWithoutUserAgentOmitsFingerprint(t *testing.T) {
	env := newTestEnv(t)
	session := issueFor(t, env, context.Background())
	if session.View.Fingerprint != "" {
		t.Fatalf("expected no fingerprint, got %q", session.View.Fingerprint)
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	env := newTestEnv(t)
	session := issueFor(t, env, context.Background())

	env.clock.Advance(time.Hour)
	got, err := env.engine.Authenticate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.View.ID != "u1" || got.View.Role != RoleUser {
		t.Fatalf("unexpected view: %+v", got.View)
	}
	if got.Reissued != nil {
		t.Fatal("did not expect reissue before UpdateAge")
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	session := issueFor(t, env, context.Background())

	env.clock.Advance(30 * 24 * time.Hour)
	_, err := env.engine.Authenticate(context.Background(), session.Token)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if got := env.engine.MetricsSnapshot().Counters[MetricSessionExpired]; got != 1 {
		t.Fatalf("expected session expired metric 1, got %d", got)
	}
	if !hasEvent(env.events(), auditEventSessionExpired) {
		t.Fatal("expected session_expired audit event")
	}
}

func TestAuthenticateReissuesAfterUpdateAge(t *testing.T) {
	env := newTestEnv(t)
	session := issueFor(t, env, context.Background())

	env.clock.Advance(25 * time.Hour)
	got, err := env.engine.Authenticate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.Reissued == nil {
		t.Fatal("expected a reissued token after UpdateAge")
	}
	if want := env.clock.Now().Add(30 * 24 * time.Hour); !got.Reissued.ExpiresAt.Equal(want) {
		t.Fatalf("expected slid expiry %v, got %v", want, got.Reissued.ExpiresAt)
	}

	// The original token would now be dead; the reissued one is not.
	env.clock.Advance(29*24*time.Hour + time.Hour)
	if _, err := env.engine.Authenticate(context.Background(), session.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected original token expired, got %v", err)
	}
	if _, err := env.engine.Authenticate(context.Background(), got.Reissued.Token); err != nil {
		t.Fatalf("expected reissued token valid, got %v", err)
	}
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.engine.Authenticate(context.Background(), "not.a.jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := env.engine.Authenticate(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty token, got %v", err)
	}
	if got := env.engine.MetricsSnapshot().Counters[MetricSessionInvalid]; got != 1 {
		t.Fatalf("expected one invalid session metric, got %d", got)
	}
}

func TestAuthenticateFingerprintMismatchIsNotRejected(t *testing.T) {
	env := newTestEnv(t)
	session := issueFor(t, env, WithUserAgent(context.Background(), "agent/1.0"))

	got, err := env.engine.Authenticate(WithUserAgent(context.Background(), "agent/2.0"), session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.View.ID != "u1" {
		t.Fatalf("unexpected view: %+v", got.View)
	}
	if n := env.engine.MetricsSnapshot().Counters[MetricFingerprintMismatch]; n != 1 {
		t.Fatalf("expected fingerprint mismatch metric 1, got %d", n)
	}
	if !hasEvent(env.events(), auditEventFingerprintMismatch) {
		t.Fatal("expected fingerprint_mismatch audit event")
	}
}

func TestPresentRefusesExpiredClaims(t *testing.T) {
	claims := &jwt.SessionClaims{UserID: "u1", Error: jwt.ErrorSessionExpired}
	if _, err := Present(claims); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, err := Present(nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for nil claims, got %v", err)
	}

	view, err := Present(&jwt.SessionClaims{UserID: "u1", Role: "ADMIN", MFAEnabled: true})
	if err != nil {
		t.Fatalf("Present: %v", err)
	}
	if view.Role != RoleAdmin || !view.MFAEnabled {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestLogoutAudits(t *testing.T) {
	env := newTestEnv(t)
	env.engine.Logout(context.Background(), "u1")
	if got := env.engine.MetricsSnapshot().Counters[MetricLogout]; got != 1 {
		t.Fatalf("expected logout metric 1, got %d", got)
	}
	if !hasEvent(env.events(), auditEventLogout) {
		t.Fatal("expected logout audit event")
	}
}

func TestAuthenticateReflectsStoredUser(t *testing.T) {
	env := newTestEnv(t)
	session := issueFor(t, env, context.Background())
	if session.View.MFAEnabled {
		t.Fatal("expected MFA off at issue")
	}

	u := env.users.get("u1")
	u.MFAEnabled = true
	u.Role = RoleAdmin
	env.users.put(u)

	got, err := env.engine.Authenticate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !got.View.MFAEnabled || got.View.Role != RoleAdmin {
		t.Fatalf("expected stored MFA and role in view, got %+v", got.View)
	}

	env.clock.Advance(25 * time.Hour)
	got, err = env.engine.Authenticate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.Reissued == nil {
		t.Fatal("expected reissue after UpdateAge")
	}
	claims, err := env.engine.sessions.Parse(got.Reissued.Token)
	if err != nil {
		t.Fatalf("Parse reissued: %v", err)
	}
	if !claims.MFAEnabled || claims.Role != string(RoleAdmin) {
		t.Fatalf("expected reissued claims to carry stored state, got %+v", claims)
	}
}

func TestAuthenticateDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	session := issueFor(t, env, context.Background())

	if err := env.users.DeleteUser(context.Background(), "u1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := env.engine.Authenticate(context.Background(), session.Token); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthenticateStoreOutageFailsClosed(t *testing.T) {
	env := newTestEnv(t)
	session := issueFor(t, env, context.Background())

	env.users.mu.Lock()
	env.users.lookupErr = errors.New("connection refused")
	env.users.mu.Unlock()

	if _, err := env.engine.Authenticate(context.Background(), session.Token); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
