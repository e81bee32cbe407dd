package shopauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Register creates a USER account. Name, email and password are all
// required. The email is stored lowercased.
func (e *Engine) Register(ctx context.Context, name, email, password string) (UserRecord, error) {
	if e == nil || e.users == nil || e.hasher == nil {
		return UserRecord{}, ErrEngineNotReady
	}

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", ErrValidation, func() map[string]string {
			return map[string]string{"reason": "missing_field"}
		})
		return UserRecord{}, ErrValidation
	}
	if e.passwordTooLong(password) {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", ErrPasswordTooLong, func() map[string]string {
			return map[string]string{"reason": "password_too_long"}
		})
		return UserRecord{}, ErrPasswordTooLong
	}

	_, err := e.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return UserRecord{}, e.registerDuplicate(ctx)
	case !errors.Is(err, ErrUserNotFound):
		e.log.Error(ctx, "user lookup failed during register", "err", err)
		return UserRecord{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	hash, err := e.hasher.Hash(password)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", ErrValidation, func() map[string]string {
			return map[string]string{"reason": "password_rejected"}
		})
		return UserRecord{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := e.users.CreateUser(ctx, CreateUserInput{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         RoleUser,
	})
	if err != nil {
		// Two concurrent registrations both pass the lookup; the unique
		// index decides.
		if errors.Is(err, ErrEmailInUse) {
			return UserRecord{}, e.registerDuplicate(ctx)
		}
		e.log.Error(ctx, "create user failed", "err", err)
		return UserRecord{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, user.ID, nil, nil)
	return user, nil
}

func (e *Engine) registerDuplicate(ctx context.Context) error {
	e.metricInc(MetricRegisterDuplicate)
	e.emitAudit(ctx, auditEventRegisterFailure, false, "", ErrEmailInUse, nil)
	return ErrEmailInUse
}
