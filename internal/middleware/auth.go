package middleware

import (
	"strings"

	"auditnet-backend/internal/application/policies"
	"auditnet-backend/internal/pkg/response"
	"auditnet-backend/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth accepts a session user or, when tokens is non-nil, an
// "Authorization: Bearer <jwt>" header. Returns 401 in the standard error format otherwise.
func RequireAuth(tokens *token.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil && tokens != nil {
			if raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok {
				claims, err := tokens.Parse(raw)
				if err != nil {
					return response.Unauthorized(c, err.Error())
				}
				user = map[string]interface{}{
					"user_id": claims.UserID,
					"email":   claims.Email,
					"role":    claims.Role,
				}
				c.Locals(userLocal, user)
			}
		}
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

// GetUser returns the authenticated user map from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// CurrentActor returns the caller as a service actor. ok is false when no valid user is present.
func CurrentActor(c *fiber.Ctx) (policies.Actor, bool) {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return policies.Actor{}, false
	}
	idStr, _ := m["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return policies.Actor{}, false
	}
	role, _ := m["role"].(string)
	return policies.Actor{UserID: id, Role: role}, true
}
