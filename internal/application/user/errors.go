package user

import "errors"

var (
	ErrEmailRequired    = errors.New("Email is required")
	ErrInvalidEmail     = errors.New("Invalid email format")
	ErrInvalidPassword  = errors.New("Password must be at least 8 characters and include a letter, a number and a symbol")
	ErrPasswordMismatch = errors.New("Password confirmation does not match")
	ErrNameRequired     = errors.New("Name is required")
	ErrEmailTaken       = errors.New("Email already registered")
	ErrUserNotFound     = errors.New("User not found")
	ErrNoUpdateFields   = errors.New("No valid update fields provided")
)
