package joinrequests

import (
	joinsvc "auditnet-backend/internal/application/joinrequests"
	"auditnet-backend/internal/interfaces/handlers/errmap"
	"auditnet-backend/internal/middleware"
	"auditnet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *joinsvc.Service
}

type approveRequest struct {
	Permissions []string `json:"permissions"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Mine GET /api/v1/join-requests/mine
func (h *Handlers) Mine(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	reqs, err := h.Service.ListMine(c.UserContext(), actor.UserID)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Join requests retrieved", reqs, nil)
}

// Approve POST /api/v1/join-requests/:id/approve
// An empty body grants the default member permissions.
func (h *Handlers) Approve(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := errmap.ParamUUID(c, "id")
	if err != nil {
		return errmap.Write(c, err)
	}
	var body approveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
		}
	}
	req, err := h.Service.Approve(c.UserContext(), actor, id, body.Permissions)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Join request approved", req, nil)
}

// Reject POST /api/v1/join-requests/:id/reject
func (h *Handlers) Reject(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := errmap.ParamUUID(c, "id")
	if err != nil {
		return errmap.Write(c, err)
	}
	var body rejectRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	req, err := h.Service.Reject(c.UserContext(), actor, id, body.Reason)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Join request rejected", req, nil)
}
