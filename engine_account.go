package shopauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UpdateProfile applies a profile change for userID and returns the stored
// row.
//
// Name and Email are written when non-empty. The password changes only when
// both CurrentPassword and NewPassword are set, and CurrentPassword must
// match. A request that would change nothing returns ErrNoUpdates.
func (e *Engine) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (UserRecord, error) {
	if e == nil || e.users == nil || e.hasher == nil {
		return UserRecord{}, ErrEngineNotReady
	}
	if userID == "" {
		return UserRecord{}, ErrUnauthorized
	}

	var changes UserChanges
	if name := strings.TrimSpace(update.Name); name != "" {
		changes.Name = &name
	}
	if email := normalizeEmail(update.Email); email != "" {
		changes.Email = &email
	}

	if update.CurrentPassword != "" && update.NewPassword != "" {
		if e.passwordTooLong(update.NewPassword) {
			return UserRecord{}, ErrPasswordTooLong
		}
		user, err := e.users.GetUserByID(ctx, userID)
		if err != nil {
			return UserRecord{}, storeError(err)
		}
		if user.PasswordHash == "" {
			return UserRecord{}, e.passwordChangeRejected(ctx, userID, ErrNoPasswordSet)
		}
		ok, err := e.hasher.Verify(update.CurrentPassword, user.PasswordHash)
		if err != nil || !ok {
			return UserRecord{}, e.passwordChangeRejected(ctx, userID, ErrCurrentPasswordIncorrect)
		}
		hash, err := e.hasher.Hash(update.NewPassword)
		if err != nil {
			return UserRecord{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		changes.PasswordHash = &hash
	}

	if changes.Empty() {
		return UserRecord{}, ErrNoUpdates
	}

	user, err := e.users.UpdateUser(ctx, userID, changes)
	if err != nil {
		if errors.Is(err, ErrEmailInUse) {
			e.emitAudit(ctx, auditEventProfileUpdated, false, userID, ErrEmailInUse, nil)
			return UserRecord{}, ErrEmailInUse
		}
		err = storeError(err)
		e.log.Error(ctx, "update profile failed", "user_id", userID, "err", err)
		e.emitAudit(ctx, auditEventProfileUpdated, false, userID, err, nil)
		return UserRecord{}, err
	}

	e.metricInc(MetricProfileUpdated)
	e.emitAudit(ctx, auditEventProfileUpdated, true, userID, nil, func() map[string]string {
		return map[string]string{
			"name":     boolString(changes.Name != nil),
			"email":    boolString(changes.Email != nil),
			"password": boolString(changes.PasswordHash != nil),
		}
	})
	return user, nil
}

// DeleteAccount removes the user and everything it owns.
func (e *Engine) DeleteAccount(ctx context.Context, userID string) error {
	if e == nil || e.users == nil {
		return ErrEngineNotReady
	}
	if userID == "" {
		return ErrUnauthorized
	}
	if err := e.users.DeleteUser(ctx, userID); err != nil {
		err = storeError(err)
		if !errors.Is(err, ErrUserNotFound) {
			e.log.Error(ctx, "delete account failed", "user_id", userID, "err", err)
		}
		e.emitAudit(ctx, auditEventAccountDeleted, false, userID, err, nil)
		return err
	}
	e.metricInc(MetricAccountDeleted)
	e.emitAudit(ctx, auditEventAccountDeleted, true, userID, nil, nil)
	return nil
}

func (e *Engine) passwordChangeRejected(ctx context.Context, userID string, err error) error {
	e.metricInc(MetricPasswordChangeInvalidOld)
	e.emitAudit(ctx, auditEventPasswordChangeRejected, false, userID, err, nil)
	return err
}

// storeError keeps ErrUserNotFound visible and folds every other store
// failure into ErrStoreUnavailable.
func storeError(err error) error {
	if errors.Is(err, ErrUserNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
