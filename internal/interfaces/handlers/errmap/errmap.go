// Package errmap translates service errors into HTTP responses.
package errmap

import (
	"errors"

	authsvc "auditnet-backend/internal/application/auth"
	"auditnet-backend/internal/application/joinrequests"
	"auditnet-backend/internal/application/notifications"
	"auditnet-backend/internal/application/organizations"
	"auditnet-backend/internal/application/policies"
	"auditnet-backend/internal/application/uploads"
	usersvc "auditnet-backend/internal/application/user"
	"auditnet-backend/internal/middleware"
	"auditnet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var statusByError = []struct {
	err  error
	code int
}{
	{usersvc.ErrEmailRequired, fiber.StatusBadRequest},
	{usersvc.ErrInvalidEmail, fiber.StatusBadRequest},
	{usersvc.ErrInvalidPassword, fiber.StatusBadRequest},
	{usersvc.ErrPasswordMismatch, fiber.StatusBadRequest},
	{usersvc.ErrNameRequired, fiber.StatusBadRequest},
	{usersvc.ErrNoUpdateFields, fiber.StatusBadRequest},
	{usersvc.ErrEmailTaken, fiber.StatusConflict},
	{usersvc.ErrUserNotFound, fiber.StatusNotFound},

	{authsvc.ErrEmailRequired, fiber.StatusBadRequest},
	{authsvc.ErrInvalidEmail, fiber.StatusUnauthorized},
	{authsvc.ErrPasswordRequired, fiber.StatusUnauthorized},
	{authsvc.ErrIncorrectPassword, fiber.StatusUnauthorized},
	{authsvc.ErrNotAuthenticated, fiber.StatusUnauthorized},

	{policies.ErrProfileIncomplete, fiber.StatusForbidden},
	{policies.ErrEmailDomainNotAllowed, fiber.StatusForbidden},
	{policies.ErrInvalidTransition, fiber.StatusConflict},
	{policies.ErrNotAFirm, fiber.StatusNotFound},

	{organizations.ErrInvalidType, fiber.StatusBadRequest},
	{organizations.ErrNameRequired, fiber.StatusBadRequest},
	{organizations.ErrInvalidLicenseFormat, fiber.StatusBadRequest},
	{organizations.ErrInvalidSocpaNumber, fiber.StatusBadRequest},
	{organizations.ErrInvalidRegistrationType, fiber.StatusBadRequest},
	{organizations.ErrRegistrantRequired, fiber.StatusBadRequest},
	{organizations.ErrInvalidRegistrantEmail, fiber.StatusBadRequest},
	{organizations.ErrInvalidSubdomain, fiber.StatusBadRequest},
	{organizations.ErrInvalidEmailDomain, fiber.StatusBadRequest},
	{organizations.ErrInvalidDocument, fiber.StatusBadRequest},
	{organizations.ErrNoUpdateFields, fiber.StatusBadRequest},
	{organizations.ErrReasonRequired, fiber.StatusBadRequest},
	{organizations.ErrCannotRevokeSelf, fiber.StatusBadRequest},
	{organizations.ErrDuplicateRegistration, fiber.StatusConflict},
	{organizations.ErrSubdomainTaken, fiber.StatusConflict},
	{organizations.ErrDuplicateCommercialRegistration, fiber.StatusConflict},
	{organizations.ErrHasActiveMembers, fiber.StatusConflict},
	{organizations.ErrCreatorNotFound, fiber.StatusNotFound},
	{organizations.ErrOrganizationNotFound, fiber.StatusNotFound},
	{organizations.ErrFirmNotFound, fiber.StatusNotFound},
	{organizations.ErrNoCurrentOrganization, fiber.StatusNotFound},
	{organizations.ErrMemberNotFound, fiber.StatusNotFound},
	{organizations.ErrForbidden, fiber.StatusForbidden},

	{joinrequests.ErrInvalidPermission, fiber.StatusBadRequest},
	{joinrequests.ErrInvalidStatus, fiber.StatusBadRequest},
	{joinrequests.ErrReasonRequired, fiber.StatusBadRequest},
	{joinrequests.ErrUserNotFound, fiber.StatusNotFound},
	{joinrequests.ErrOrganizationNotFound, fiber.StatusNotFound},
	{joinrequests.ErrJoinRequestNotFound, fiber.StatusNotFound},
	{joinrequests.ErrOrganizationNotJoinable, fiber.StatusConflict},
	{joinrequests.ErrJoinRequestExists, fiber.StatusConflict},
	{joinrequests.ErrAlreadyMember, fiber.StatusConflict},
	{joinrequests.ErrJoinRequestResolved, fiber.StatusConflict},
	{joinrequests.ErrForbidden, fiber.StatusForbidden},

	{notifications.ErrNotificationNotFound, fiber.StatusNotFound},

	{uploads.ErrFileNameRequired, fiber.StatusBadRequest},
	{uploads.ErrInvalidCategory, fiber.StatusBadRequest},

	{ErrInvalidID, fiber.StatusBadRequest},
}

// Status returns the HTTP status for err, or 500 for unknown errors.
func Status(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.code
		}
	}
	return fiber.StatusInternalServerError
}

// Write sends err in the standard error format. Unknown errors are logged and
// reported as a generic 500.
func Write(c *fiber.Ctx, err error) error {
	code := Status(err)
	if code == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).
			Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		return response.InternalError(c)
	}
	if errors.Is(err, policies.ErrProfileIncomplete) {
		return middleware.ProfileIncomplete(c, -1)
	}
	return response.Error(c, err.Error(), code, nil)
}

// ErrInvalidID is returned for path ids that are not UUIDs.
var ErrInvalidID = errors.New("Invalid id")

// ParamUUID parses the named path parameter.
func ParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}
