package constants

// Platform roles stored on users.role.
const (
	SystemAdmin = "SYSTEM_ADMIN"
	User        = "USER"
)

// ValidRoles is the set of allowed values for users.role.
var ValidRoles = []string{User, SystemAdmin}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
