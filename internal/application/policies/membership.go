package policies

import (
	"strings"

	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/pkg/validation"
)

// CanJoin reports whether the user's email passes the organization's domain restriction.
// Only audit firms restrict by domain. A firm with the restriction off, or with no
// configured domain, accepts anyone; otherwise the text after "@" must equal the
// configured domain exactly.
func CanJoin(u *domain.User, org *domain.Organization) bool {
	if u == nil || org == nil {
		return false
	}
	if !org.IsFirm() {
		return true
	}
	if !org.RestrictEmailDomain || org.AllowedEmailDomain == nil || strings.TrimSpace(*org.AllowedEmailDomain) == "" {
		return true
	}
	return validation.EmailDomain(u.Email) == *org.AllowedEmailDomain
}

// IsOrganizationAdmin reports whether members holds an approved ADMIN row for userID.
func IsOrganizationAdmin(members []domain.OrganizationMember, userID string) bool {
	for _, m := range members {
		if m.UserID.String() == userID && m.IsActiveAdmin() {
			return true
		}
	}
	return false
}

// HasActiveMembers reports whether any member is APPROVED.
func HasActiveMembers(members []domain.OrganizationMember) bool {
	for _, m := range members {
		if m.Status == domain.MemberStatusApproved {
			return true
		}
	}
	return false
}
