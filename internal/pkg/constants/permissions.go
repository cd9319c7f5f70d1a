package constants

// Platform permissions checked by middleware.AuthorizePermission.
const (
	ListUsers          = "list_users"
	ListFirms          = "list_firms"
	VerifyFirms        = "verify_firms"
	SuspendFirms       = "suspend_firms"
	DeleteFirms        = "delete_firms"
	ResolveJoinRequest = "resolve_join_request"
)

// Member capabilities stored in organization_members.permissions.
const (
	MemberView   = "VIEW"
	MemberEdit   = "EDIT"
	MemberInvite = "INVITE"
	MemberAdmin  = "ADMIN"
)

var validMemberPermissions = map[string]bool{
	MemberView:   true,
	MemberEdit:   true,
	MemberInvite: true,
	MemberAdmin:  true,
}

// DefaultMemberPermissions is granted when a join request is approved without an explicit set.
func DefaultMemberPermissions() []string {
	return []string{MemberView}
}

// IsValidMemberPermission reports whether p is a known member capability.
func IsValidMemberPermission(p string) bool {
	return validMemberPermissions[p]
}
