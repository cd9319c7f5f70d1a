package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "auditnet-backend/internal/application/auth"
	usersvc "auditnet-backend/internal/application/user"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/middleware"
	"auditnet-backend/internal/pkg/constants"
	"auditnet-backend/internal/pkg/token"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth returns the configured user for password123 and the usual errors otherwise.
type fakeAuth struct {
	user *domain.User
	err  error
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil && f.user.Email == email && password == "password123" {
		return f.user, nil
	}
	if f.user != nil && f.user.Email == email {
		return nil, authsvc.ErrIncorrectPassword
	}
	return nil, authsvc.ErrInvalidEmail
}

type fakeRegistrar struct{}

func (fakeRegistrar) Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, error) {
	if in.Email == "taken@example.com" {
		return nil, usersvc.ErrEmailTaken
	}
	if in.Password != in.PasswordConfirmation {
		return nil, usersvc.ErrPasswordMismatch
	}
	return &domain.User{ID: uuid.New(), Email: in.Email, NameEn: in.NameEn, Role: constants.User}, nil
}

func setupAuthHandlers(t *testing.T, auth authsvc.Authenticator) (*Handlers, *redis.Client) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	h := &Handlers{
		Auth:      auth,
		Registrar: fakeRegistrar{},
		Tokens:    token.NewManager("test-secret", time.Hour),
		Rdb:       rdb,
		Config:    middleware.SessionConfig{},
	}
	return h, rdb
}

func postJSON(app *fiber.App, path string, body interface{}) (*fiber.Map, int, []string) {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		return nil, 0, nil
	}
	raw, _ := io.ReadAll(resp.Body)
	var out fiber.Map
	_ = json.Unmarshal(raw, &out)
	return &out, resp.StatusCode, resp.Header.Values("Set-Cookie")
}

func TestLogin_MissingEmail(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeAuth{})
	app := fiber.New()
	app.Post("/login", h.Login)

	_, code, _ := postJSON(app, "/login", map[string]string{"password": "x"})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestLogin_IncorrectPassword(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeAuth{user: &domain.User{ID: uuid.New(), Email: "test@example.com"}})
	app := fiber.New()
	app.Post("/login", h.Login)

	out, code, _ := postJSON(app, "/login", map[string]string{"email": "test@example.com", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, code)
	errBody, _ := (*out)["error"].(map[string]interface{})
	assert.Equal(t, "Incorrect Password", errBody["message"])
}

func TestLogin_Success(t *testing.T) {
	uid := uuid.New()
	h, rdb := setupAuthHandlers(t, &fakeAuth{user: &domain.User{ID: uid, Email: "test@example.com", NameEn: "Test User", Role: constants.User}})
	app := fiber.New()
	app.Post("/login", h.Login)

	out, code, cookies := postJSON(app, "/login", map[string]string{"email": "test@example.com", "password": "password123"})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Login successful", (*out)["message"])

	data, _ := (*out)["data"].(map[string]interface{})
	user, _ := data["user"].(map[string]interface{})
	require.NotNil(t, user)
	assert.Equal(t, "test@example.com", user["email"])
	assert.Equal(t, "Test User", user["name_en"])

	signed, _ := data["token"].(string)
	claims, err := h.Tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, uid.String(), claims.UserID)

	require.NotEmpty(t, cookies)
	assert.Contains(t, cookies[0], middleware.SessionCookieName+"=s:")

	members, err := rdb.SMembers(context.Background(), middleware.UserSessionsPrefix+uid.String()).Result()
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestLogin_NilAuthenticator(t *testing.T) {
	h, _ := setupAuthHandlers(t, nil)
	h.Auth = nil
	app := fiber.New()
	app.Post("/login", h.Login)

	_, code, _ := postJSON(app, "/login", map[string]string{"email": "a@b.com"})
	assert.Equal(t, fiber.StatusInternalServerError, code)
}

func TestRegister(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeAuth{})
	app := fiber.New()
	app.Post("/register", h.Register)

	out, code, _ := postJSON(app, "/register", map[string]string{
		"email": "new@example.com", "name_en": "New", "password": "secret12!", "password_confirmation": "secret12!",
	})
	require.Equal(t, fiber.StatusCreated, code)
	data, _ := (*out)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	_, code, _ = postJSON(app, "/register", map[string]string{
		"email": "taken@example.com", "password": "secret12!", "password_confirmation": "secret12!",
	})
	assert.Equal(t, fiber.StatusConflict, code)

	_, code, _ = postJSON(app, "/register", map[string]string{
		"email": "new2@example.com", "password": "secret12!", "password_confirmation": "other",
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestMe_NoSession(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeAuth{})
	app := fiber.New()
	app.Get("/me", h.Me)

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMe_WithSessionUserInLocals(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeAuth{})
	app := fiber.New()
	app.Get("/me", func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":                 "550e8400-e29b-41d4-a716-446655440000",
			"name_en":                 "Test",
			"email":                   "test@example.com",
			"role":                    constants.User,
			"current_organization_id": nil,
		})
		return h.Me(c)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	data, _ := out["data"].(map[string]interface{})
	user, _ := data["user"].(map[string]interface{})
	assert.Equal(t, "test@example.com", user["email"])
	assert.Nil(t, user["current_organization_id"])
}

func TestLogout_NoSession(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeAuth{})
	app := fiber.New()
	app.Delete("/logout", h.Logout)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Values("Set-Cookie"))
}
