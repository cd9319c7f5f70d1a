package policies

import "auditnet-backend/internal/domain"

// VerificationAction is an admin action on an audit firm.
type VerificationAction string

const (
	ActionApprove   VerificationAction = "approve"
	ActionReject    VerificationAction = "reject"
	ActionSuspend   VerificationAction = "suspend"
	ActionUnsuspend VerificationAction = "unsuspend"
)

// FirmState is the pair (verification_status, status) of an audit firm.
type FirmState struct {
	Verification domain.VerificationStatus
	Status       domain.OrganizationStatus
}

type transition struct {
	from   domain.VerificationStatus
	action VerificationAction
}

var transitions = map[transition]FirmState{
	{domain.VerificationPending, ActionApprove}:     {domain.VerificationVerified, domain.OrganizationStatusApproved},
	{domain.VerificationPending, ActionReject}:      {domain.VerificationRejected, domain.OrganizationStatusRejected},
	{domain.VerificationVerified, ActionSuspend}:    {domain.VerificationSuspended, domain.OrganizationStatusSuspended},
	{domain.VerificationSuspended, ActionUnsuspend}: {domain.VerificationVerified, domain.OrganizationStatusApproved},
}

var deletableFrom = map[domain.VerificationStatus]bool{
	domain.VerificationVerified:  true,
	domain.VerificationRejected:  true,
	domain.VerificationSuspended: true,
}

// NextFirmState returns the state a firm moves to when action is applied, or
// ErrInvalidTransition. Deletion is not a transition; see CanDeleteFirm.
func NextFirmState(org *domain.Organization, action VerificationAction) (FirmState, error) {
	if org == nil || !org.IsFirm() {
		return FirmState{}, ErrNotAFirm
	}
	next, ok := transitions[transition{org.Verification(), action}]
	if !ok {
		return FirmState{}, ErrInvalidTransition
	}
	return next, nil
}

// CanDeleteFirm checks the state guard for deletion. The active member guard is separate.
func CanDeleteFirm(org *domain.Organization) error {
	if org == nil || !org.IsFirm() {
		return ErrNotAFirm
	}
	if !deletableFrom[org.Verification()] {
		return ErrInvalidTransition
	}
	return nil
}
