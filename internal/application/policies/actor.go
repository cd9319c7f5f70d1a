package policies

import (
	"auditnet-backend/internal/pkg/constants"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsSystemAdmin() bool {
	return a.Role == constants.SystemAdmin
}
