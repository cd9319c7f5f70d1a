package admin

import (
	"strings"

	orgsvc "auditnet-backend/internal/application/organizations"
	"auditnet-backend/internal/application/policies"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/interfaces/handlers/errmap"
	"auditnet-backend/internal/middleware"
	"auditnet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers serves the system admin's audit firm verification screens.
type Handlers struct {
	Service *orgsvc.Service
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// ListFirms GET /api/v1/admin/firms?verification_status=&q=
func (h *Handlers) ListFirms(c *fiber.Ctx) error {
	status := domain.VerificationStatus(strings.ToUpper(c.Query("verification_status")))
	switch status {
	case "", domain.VerificationPending, domain.VerificationVerified, domain.VerificationRejected, domain.VerificationSuspended:
	default:
		return response.Error(c, "Invalid verification status", fiber.StatusBadRequest, nil)
	}
	out, err := h.Service.ListFirms(c.UserContext(), status, c.Query("q"))
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Audit firms retrieved", out.Firms, fiber.Map{
		"count":         len(out.Firms),
		"pending_count": out.PendingCount,
	})
}

func (h *Handlers) Approve(c *fiber.Ctx) error {
	return h.act(c, "Firm verification approved", func(actor policies.Actor, id uuid.UUID, _ string) (*domain.Organization, error) {
		return h.Service.Approve(c.UserContext(), actor, id)
	}, false)
}

func (h *Handlers) Reject(c *fiber.Ctx) error {
	return h.act(c, "Firm verification rejected", func(actor policies.Actor, id uuid.UUID, reason string) (*domain.Organization, error) {
		return h.Service.Reject(c.UserContext(), actor, id, reason)
	}, true)
}

func (h *Handlers) Suspend(c *fiber.Ctx) error {
	return h.act(c, "Firm suspended", func(actor policies.Actor, id uuid.UUID, reason string) (*domain.Organization, error) {
		return h.Service.Suspend(c.UserContext(), actor, id, reason)
	}, true)
}

func (h *Handlers) Unsuspend(c *fiber.Ctx) error {
	return h.act(c, "Firm suspension removed", func(actor policies.Actor, id uuid.UUID, _ string) (*domain.Organization, error) {
		return h.Service.Unsuspend(c.UserContext(), actor, id)
	}, false)
}

// Delete DELETE /api/v1/admin/firms/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := errmap.ParamUUID(c, "id")
	if err != nil {
		return errmap.Write(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), actor, id); err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Firm deleted", fiber.Map{"id": id}, nil)
}

type firmAction func(actor policies.Actor, id uuid.UUID, reason string) (*domain.Organization, error)

func (h *Handlers) act(c *fiber.Ctx, message string, run firmAction, needsReason bool) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := errmap.ParamUUID(c, "id")
	if err != nil {
		return errmap.Write(c, err)
	}
	var body reasonRequest
	if needsReason {
		if err := c.BodyParser(&body); err != nil {
			return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
		}
	}
	org, err := run(actor, id, body.Reason)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, message, org, nil)
}
