package auth

import "errors"

var (
	ErrEmailRequired     = errors.New("Email is required")
	ErrInvalidEmail      = errors.New("Invalid Email")
	ErrPasswordRequired  = errors.New("Password is required for this account")
	ErrIncorrectPassword = errors.New("Incorrect Password")
	ErrNotAuthenticated  = errors.New("Not authenticated")
)
