package auth

import (
	"context"

	authsvc "auditnet-backend/internal/application/auth"
	usersvc "auditnet-backend/internal/application/user"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/interfaces/handlers/errmap"
	"auditnet-backend/internal/middleware"
	"auditnet-backend/internal/pkg/response"
	"auditnet-backend/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Registrar creates accounts from the registration form.
type Registrar interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, error)
}

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Auth      authsvc.Authenticator
	Registrar Registrar
	Tokens    *token.Manager
	Rdb       *redis.Client
	Config    middleware.SessionConfig
}

// LoginRequest is the login body. Password may be empty for accounts without one.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register POST /api/v1/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	if h.Registrar == nil {
		return response.InternalError(c)
	}
	var in usersvc.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	user, err := h.Registrar.Register(c.UserContext(), in)
	if err != nil {
		return errmap.Write(c, err)
	}
	out, err := h.startSession(c, user)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.SuccessCreated(c, "Registration successful", out, nil)
}

// Login POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.Auth == nil {
		return response.InternalError(c)
	}
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email is required", fiber.StatusBadRequest, nil)
	}
	if req.Email == "" {
		return response.Error(c, "Email is required", fiber.StatusBadRequest, nil)
	}

	user, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return errmap.Write(c, err)
	}
	out, err := h.startSession(c, user)
	if err != nil {
		return errmap.Write(c, err)
	}
	return response.Success(c, "Login successful", out, nil)
}

// startSession stores the user in a fresh session, tracks it under user_sessions:<id>,
// sets the cookie and issues a bearer token.
func (h *Handlers) startSession(c *fiber.Ctx, user *domain.User) (fiber.Map, error) {
	sessionID := middleware.RegenerateSessionID(c)
	su := SessionUserFor(user)
	middleware.SetSessionUser(c, su)

	if err := h.Rdb.SAdd(context.Background(), middleware.UserSessionsPrefix+su.UserID, sessionID).Err(); err != nil {
		return nil, err
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	out := fiber.Map{"user": su}
	if h.Tokens != nil {
		signed, err := h.Tokens.Issue(user.ID, user.Email, user.Role)
		if err != nil {
			return nil, err
		}
		out["token"] = signed
	}
	return out, nil
}

// SessionUserFor builds the session shape for user.
func SessionUserFor(user *domain.User) middleware.SessionUser {
	su := middleware.SessionUser{
		UserID: user.ID.String(),
		NameEn: user.NameEn,
		NameAr: user.NameAr,
		Email:  user.Email,
		Role:   user.Role,
	}
	if user.CurrentOrganizationID != nil {
		s := user.CurrentOrganizationID.String()
		su.CurrentOrganizationID = &s
	}
	return su
}

// Me GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	sessionUser := middleware.GetUser(c)
	user, err := authsvc.VerifyUser(sessionUser)
	if err != nil {
		if middleware.GetSessionID(c) != "" {
			log.Info().Str("path", "/auth/me").Msg("auth/me: session id present but no user in session data")
		}
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	ctx := context.Background()

	if m, ok := middleware.GetUser(c).(map[string]interface{}); ok && sessionID != "" {
		if userID, _ := m["user_id"].(string); userID != "" {
			_ = h.Rdb.SRem(ctx, middleware.UserSessionsPrefix+userID, sessionID).Err()
		}
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
