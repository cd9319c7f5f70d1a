package joinrequests

import "errors"

var (
	ErrUserNotFound            = errors.New("User not found")
	ErrOrganizationNotFound    = errors.New("Organization not found")
	ErrOrganizationNotJoinable = errors.New("Organization is not accepting join requests")
	ErrJoinRequestNotFound     = errors.New("Join request not found")
	ErrJoinRequestExists       = errors.New("You already have a pending request for this organization")
	ErrAlreadyMember           = errors.New("You are already a member of this organization")
	ErrJoinRequestResolved     = errors.New("Join request has already been resolved")
	ErrInvalidPermission       = errors.New("Invalid member permission")
	ErrInvalidStatus           = errors.New("Invalid join request status")
	ErrReasonRequired          = errors.New("A rejection reason is required")
	ErrForbidden               = errors.New("Only organization admins can manage join requests")
)
