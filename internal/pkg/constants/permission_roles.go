package constants

// PermissionRoles maps each platform permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ListUsers:          {SystemAdmin},
	ListFirms:          {SystemAdmin},
	VerifyFirms:        {SystemAdmin},
	SuspendFirms:       {SystemAdmin},
	DeleteFirms:        {SystemAdmin},
	ResolveJoinRequest: {SystemAdmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
