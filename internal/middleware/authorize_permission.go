package middleware

import (
	"auditnet-backend/internal/pkg/constants"
	"auditnet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AuthorizePermission lets the request through when the caller's platform role holds
// permission in constants.PermissionRoles. Must run after RequireAuth.
func AuthorizePermission(permission string) fiber.Handler {
	if len(constants.PermissionRoles[permission]) == 0 {
		log.Error().Str("permission", permission).Msg("authorize: permission has no roles configured")
	}
	return func(c *fiber.Ctx) error {
		actor, ok := CurrentActor(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if actor.Role == "" {
			return response.Error(c, "Authorization error", fiber.StatusInternalServerError, nil)
		}
		if len(constants.PermissionRoles[permission]) == 0 {
			return response.Error(c, "Permission configuration error", fiber.StatusInternalServerError, nil)
		}
		if !constants.AllowedRole(permission, actor.Role) {
			return response.Forbidden(c, "User is Forbidden from performing this action")
		}
		return c.Next()
	}
}
