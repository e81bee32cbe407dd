package models

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by repositories on unique-constraint violations.
	ErrConflict = errors.New("conflict")
)
