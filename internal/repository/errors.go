package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create an identity with an existing email
	ErrDuplicateEmail = errors.New("identity with this email already exists")
)
