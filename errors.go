package shopauth

import "errors"

var (
	// ErrInvalidCredentials is returned by Authorize for every failed login,
	// whatever the cause.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized means the request carries no usable session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionExpired is returned by Present for tokens marked expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrTokenInvalid means the session token failed signature checks.
	ErrTokenInvalid = errors.New("invalid session token")
	// ErrRateLimited is returned when a rate-limit policy denies the call.
	ErrRateLimited = errors.New("too many requests")
	// ErrCSRFInvalid means the CSRF header and cookie did not match.
	ErrCSRFInvalid = errors.New("invalid csrf token")

	// ErrValidation is returned for missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrPasswordTooLong is returned when a new password exceeds the
	// configured byte limit.
	ErrPasswordTooLong = errors.New("password too long")
	// ErrEmailInUse is returned when an email already belongs to a user.
	ErrEmailInUse = errors.New("email already in use")
	// ErrUserNotFound is returned by UserStore lookups that miss.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoPasswordSet is returned when changing the password of an account
	// without one.
	ErrNoPasswordSet = errors.New("no password set")
	// ErrCurrentPasswordIncorrect is returned when the current password
	// given for a password change does not match.
	ErrCurrentPasswordIncorrect = errors.New("current password incorrect")
	// ErrNoUpdates is returned when a profile update changes nothing.
	ErrNoUpdates = errors.New("no updates provided")

	// ErrMFANoSecret is returned when verifying before enrollment began.
	ErrMFANoSecret = errors.New("no mfa secret found")
	// ErrMFAInvalidCode is returned for a wrong or stale TOTP code.
	ErrMFAInvalidCode = errors.New("invalid code")

	// ErrStoreUnavailable wraps user store failures on non-login paths.
	ErrStoreUnavailable = errors.New("user store unavailable")
	// ErrEngineNotReady is returned by methods called on a nil or partially
	// built Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
