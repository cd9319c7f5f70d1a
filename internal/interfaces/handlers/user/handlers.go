package user

import (
	usersvc "auditnet-backend/internal/application/user"
	authhandlers "auditnet-backend/internal/interfaces/handlers/auth"
	"auditnet-backend/internal/interfaces/handlers/errmap"
	"auditnet-backend/internal/middleware"
	"auditnet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves the caller's profile and the admin user list.
type Handlers struct {
	Service *usersvc.Service
}

// Profile GET /api/v1/users/profile
func (h *Handlers) Profile(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	u, err := h.Service.View(c.UserContext(), actor.UserID)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Profile retrieved", fiber.Map{"user": u}, nil)
}

// UpdateProfile PUT /api/v1/users/profile
// Recomputes profile_completion and refreshes the session copy of the user.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var in usersvc.ProfileInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	u, err := h.Service.UpdateProfile(c.UserContext(), actor.UserID, in)
	if err != nil {
		return errmap.Write(c, err)
	}
	if middleware.GetSessionID(c) != "" {
		middleware.SetSessionUser(c, authhandlers.SessionUserFor(u))
	}
	return response.Success(c, "Profile updated", fiber.Map{"user": u}, nil)
}

// List GET /api/v1/users?q=
func (h *Handlers) List(c *fiber.Ctx) error {
	users, err := h.Service.List(c.UserContext(), c.Query("q"))
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Users retrieved", users, fiber.Map{"count": len(users)})
}
