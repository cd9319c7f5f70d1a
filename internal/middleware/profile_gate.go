package middleware

import (
	"context"

	"auditnet-backend/internal/application/policies"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProfileRedirect is where clients send users whose profile blocks an action.
const ProfileRedirect = "/settings/profile"

// ProfileLookup loads the caller's stored profile.
type ProfileLookup interface {
	View(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// RequireCompleteProfile blocks the route unless the caller's profile completion is 100.
// Must run after RequireAuth.
func RequireCompleteProfile(users ProfileLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := CurrentActor(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		u, err := users.View(c.UserContext(), actor.UserID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", actor.UserID.String()).Msg("profile gate: user lookup failed")
			return response.Unauthorized(c, "Unauthorized")
		}
		if completion := policies.ProfileCompletion(u); completion < 100 {
			return ProfileIncomplete(c, completion)
		}
		return c.Next()
	}
}

// ProfileIncomplete sends the 403 profile gate response. completion < 0 omits the score.
func ProfileIncomplete(c *fiber.Ctx, completion int) error {
	details := fiber.Map{"code": "PROFILE_INCOMPLETE", "redirect": ProfileRedirect}
	if completion >= 0 {
		details["profile_completion"] = completion
	}
	return response.Error(c, policies.ErrProfileIncomplete.Error(), fiber.StatusForbidden, details)
}
