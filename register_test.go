package shopauth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegisterCreatesUser(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.engine.Register(context.Background(), " Aisha ", "Aisha@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "aisha@example.com" || user.Name != "Aisha" || user.Role != RoleUser {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !strings.HasPrefix(user.PasswordHash, "$argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", user.PasswordHash)
	}

	if _, err := env.engine.Authorize(context.Background(), "aisha@example.com", "s3cret"); err != nil {
		t.Fatalf("Authorize after register: %v", err)
	}
}

func TestRegisterTwiceIsRejected(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.engine.Register(context.Background(), "A", "a@example.com", "pw"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := env.engine.Register(context.Background(), "A again", "A@example.com", "pw2")
	if !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}

	snap := env.engine.MetricsSnapshot()
	if snap.Counters[MetricRegisterSuccess] != 1 || snap.Counters[MetricRegisterDuplicate] != 1 {
		t.Fatalf("unexpected register metrics: %+v", snap.Counters)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	for _, in := range [][3]string{
		{"", "a@example.com", "pw"},
		{"A", "  ", "pw"},
		{"A", "a@example.com", ""},
	} {
		if _, err := env.engine.Register(context.Background(), in[0], in[1], in[2]); !errors.Is(err, ErrValidation) {
			t.Fatalf("Register(%q, %q, %q): expected ErrValidation, got %v", in[0], in[1], in[2], err)
		}
	}
	if !hasEvent(env.events(), auditEventRegisterFailure) {
		t.Fatal("expected register_failure audit event")
	}
}

func TestRegisterPasswordTooLong(t *testing.T) {
	env := newTestEnv(t)
	limit := testConfig().Password.MaxBytes

	_, err := env.engine.Register(context.Background(), "A", "a@example.com", strings.Repeat("p", limit+1))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Fatal("an overlong password must not read as a missing field")
	}
	if _, err := env.engine.Register(context.Background(), "A", "a@example.com", strings.Repeat("p", limit)); err != nil {
		t.Fatalf("Register at the limit: %v", err)
	}
}

func TestRegisterStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.users.lookupErr = errors.New("db down")

	_, err := env.engine.Register(context.Background(), "A", "a@example.com", "pw")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
