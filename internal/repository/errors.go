package repository

import "errors"

// Common repository errors
var (
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrFamilyNotFound is returned when a family is not found
	ErrFamilyNotFound = errors.New("family not found")
)
