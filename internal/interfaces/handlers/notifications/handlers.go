package notifications

import (
	notesvc "auditnet-backend/internal/application/notifications"
	"auditnet-backend/internal/interfaces/handlers/errmap"
	"auditnet-backend/internal/middleware"
	"auditnet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *notesvc.Service
}

// List GET /api/v1/notifications?unread=true
func (h *Handlers) List(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	notes, err := h.Service.List(c.UserContext(), actor.UserID, c.QueryBool("unread", false))
	if err != nil {
		return errmap.Write(c, err)
	}
	unread, err := h.Service.UnreadCount(c.UserContext(), actor.UserID)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Notifications retrieved", notes, fiber.Map{"unread_count": unread})
}

// MarkRead PATCH /api/v1/notifications/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	n, err := h.Service.MarkRead(c.UserContext(), actor.UserID, c.Params("id"))
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Notification marked as read", n, nil)
}

// MarkAllRead PATCH /api/v1/notifications/read-all
func (h *Handlers) MarkAllRead(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	updated, err := h.Service.MarkAllRead(c.UserContext(), actor.UserID)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "All notifications marked as read", fiber.Map{"updated": updated}, nil)
}
