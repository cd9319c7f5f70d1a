package policies

import "errors"

var (
	ErrProfileIncomplete = errors.New("Profile must be complete")

	ErrEmailDomainNotAllowed = errors.New("Your email domain is not allowed to join this organization")

	ErrInvalidTransition = errors.New("Action is not allowed in the firm's current verification state")
	ErrNotAFirm          = errors.New("Organization is not an audit firm")
)
