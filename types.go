package shopauth

import (
	"context"
	"time"
)

// Role is the coarse authorization level stored on a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserRecord is the account row as seen by the engine.
type UserRecord struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	MFASecret    string
	MFAEnabled   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserInput carries the fields persisted on registration.
type CreateUserInput struct {
	Email        string
	Name         string
	PasswordHash string
	Role         Role
}

// UserChanges lists the columns a profile update writes. Nil fields are
// left untouched.
type UserChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// Empty reports whether no column would change.
func (c UserChanges) Empty() bool {
	return c.Name == nil && c.Email == nil && c.PasswordHash == nil
}

// UserStore is the persistence contract the engine needs. Implementations
// return ErrUserNotFound for lookups that miss and ErrEmailInUse for
// unique-email violations.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
	GetUserByID(ctx context.Context, userID string) (UserRecord, error)
	CreateUser(ctx context.Context, input CreateUserInput) (UserRecord, error)
	UpdateUser(ctx context.Context, userID string, changes UserChanges) (UserRecord, error)
	SetMFA(ctx context.Context, userID string, secret string, enabled bool) error
	// DeleteUser removes the user and every row that references it in a
	// single transaction.
	DeleteUser(ctx context.Context, userID string) error
}

// Identity is the result of a successful Authorize.
type Identity struct {
	ID         string
	Email      string
	Name       string
	Role       Role
	MFAEnabled bool
	LastLogin  time.Time
}

// SessionView is what callers of the session endpoint see.
type SessionView struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	Role        Role   `json:"role"`
	LastLogin   string `json:"lastLogin"`
	Fingerprint string `json:"fingerprint,omitempty"`
	MFAEnabled  bool   `json:"mfaEnabled"`
}

// IssuedSession is a signed token plus the values needed to set its cookie.
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
	View      SessionView
}

// AuthenticatedSession is the result of Engine.Authenticate. Reissued is
// non-nil when the token was old enough to be re-signed.
type AuthenticatedSession struct {
	View     SessionView
	Reissued *IssuedSession
}

// ProfileUpdate is a profile change request. Empty strings mean "keep".
// The password only changes when both CurrentPassword and NewPassword are
// set.
type ProfileUpdate struct {
	Name            string
	Email           string
	CurrentPassword string
	NewPassword     string
}

// TOTPSetup is returned by BeginMFAEnrollment.
type TOTPSetup struct {
	// QR is a data:image/png;base64 URL of the provisioning QR code.
	QR     string
	Secret string
	URI    string
}
