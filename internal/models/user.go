package models

import "time"

// User is a row of the users table. PasswordHash and MFASecret are empty
// when the column is NULL.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	MFASecret    string
	MFAEnabled   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
