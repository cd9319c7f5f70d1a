package organizations

import (
	"strings"

	"auditnet-backend/internal/application/joinrequests"
	orgsvc "auditnet-backend/internal/application/organizations"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/interfaces/handlers/errmap"
	"auditnet-backend/internal/middleware"
	"auditnet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Handlers serves the organization registry and each organization's join-request queue.
type Handlers struct {
	Service *orgsvc.Service
	Joins   *joinrequests.Service
	Rdb     *redis.Client
}

// Create POST /api/v1/organizations
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var in orgsvc.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	org, err := h.Service.Create(c.UserContext(), actor.UserID, in)
	if err != nil {
		return errmap.Write(c, err)
	}
	setSessionOrganization(c, org.ID.String())
	return response.SuccessCreated(c, "Organization created successfully", org, nil)
}

// setSessionOrganization keeps the session copy of current_organization_id in step
// with the database after the pointer moves.
func setSessionOrganization(c *fiber.Ctx, orgID string) {
	if middleware.GetSessionID(c) == "" {
		return
	}
	m, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok {
		return
	}
	su := middleware.SessionUser{CurrentOrganizationID: &orgID}
	su.UserID, _ = m["user_id"].(string)
	su.NameEn, _ = m["name_en"].(string)
	su.NameAr, _ = m["name_ar"].(string)
	su.Email, _ = m["email"].(string)
	su.Role, _ = m["role"].(string)
	middleware.SetSessionUser(c, su)
}

// List GET /api/v1/organizations?type=&q=
func (h *Handlers) List(c *fiber.Ctx) error {
	typ := domain.OrganizationType(strings.ToUpper(c.Query("type")))
	if typ != "" && typ != domain.OrganizationTypeFirm && typ != domain.OrganizationTypeCompany {
		return errmap.Write(c, orgsvc.ErrInvalidType)
	}
	orgs, err := h.Service.List(c.UserContext(), orgsvc.ListFilter{Type: typ, Query: c.Query("q")})
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Organizations retrieved", orgs, fiber.Map{"count": len(orgs)})
}

// Current GET /api/v1/organizations/current
func (h *Handlers) Current(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	org, err := h.Service.Current(c.UserContext(), actor.UserID)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Organization retrieved", org, nil)
}

// Get GET /api/v1/organizations/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := errmap.ParamUUID(c, "id")
	if err != nil {
		return errmap.Write(c, err)
	}
	org, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Organization retrieved", org, nil)
}

// Update PUT /api/v1/organizations/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := errmap.ParamUUID(c, "id")
	if err != nil {
		return errmap.Write(c, err)
	}
	var in orgsvc.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	org, err := h.Service.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Organization updated successfully", org, nil)
}

// RevokeMember DELETE /api/v1/organizations/:id/members/:userId
func (h *Handlers) RevokeMember(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	orgID, err := errmap.ParamUUID(c, "id")
	if err != nil {
		return errmap.Write(c, err)
	}
	userID, err := errmap.ParamUUID(c, "userId")
	if err != nil {
		return errmap.Write(c, err)
	}
	m, err := h.Service.RevokeMember(c.UserContext(), actor, orgID, userID)
	if err != nil {
		return errmap.Write(c, err)
	}
	if err := middleware.DestroyUserSessions(c.UserContext(), h.Rdb, userID.String()); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("revoke member: session cleanup failed")
	}
	return response.Success(c, "Member access revoked", m, nil)
}

// Join POST /api/v1/organizations/:id/join-requests
func (h *Handlers) Join(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	orgID, err := errmap.ParamUUID(c, "id")
	if err != nil {
		return errmap.Write(c, err)
	}
	req, err := h.Joins.Join(c.UserContext(), actor.UserID, orgID)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.SuccessCreated(c, "Join request submitted", req, nil)
}

// JoinRequests GET /api/v1/organizations/:id/join-requests?status=
func (h *Handlers) JoinRequests(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	orgID, err := errmap.ParamUUID(c, "id")
	if err != nil {
		return errmap.Write(c, err)
	}
	status := domain.JoinRequestStatus(strings.ToUpper(c.Query("status")))
	out, err := h.Joins.ListForOrganization(c.UserContext(), actor, orgID, status)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Join requests retrieved", out.Requests, fiber.Map{"pending_count": out.PendingCount})
}
