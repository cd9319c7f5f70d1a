package user

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	usersvc "auditnet-backend/internal/application/user"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/infrastructure/database"
	"auditnet-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserHandlers(t *testing.T) (*fiber.App, *domain.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	u := &domain.User{Email: "sara@acme.sa", NameEn: "Sara", Role: constants.User, ProfileCompletion: 33}
	require.NoError(t, db.Create(u).Error)

	h := &Handlers{Service: &usersvc.Service{DB: db}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": u.ID.String(), "role": constants.User})
		return c.Next()
	})
	app.Get("/users/profile", h.Profile)
	app.Put("/users/profile", h.UpdateProfile)
	app.Get("/users", h.List)
	return app, u
}

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestUpdateProfile_RecomputesCompletion(t *testing.T) {
	app, _ := setupUserHandlers(t)

	body, _ := json.Marshal(map[string]string{
		"name_ar": "سارة", "phone": "+966500000000", "title_en": "Partner", "title_ar": "شريك",
	})
	req := httptest.NewRequest("PUT", "/users/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode(t, resp.Body)
	data, _ := out["data"].(map[string]interface{})
	user, _ := data["user"].(map[string]interface{})
	assert.EqualValues(t, 100, user["profile_completion"])
	assert.NotContains(t, user, "password_hash")
}

func TestUpdateProfile_NoFields(t *testing.T) {
	app, _ := setupUserHandlers(t)

	req := httptest.NewRequest("PUT", "/users/profile", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProfile(t *testing.T) {
	app, u := setupUserHandlers(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/users/profile", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode(t, resp.Body)
	data, _ := out["data"].(map[string]interface{})
	user, _ := data["user"].(map[string]interface{})
	assert.Equal(t, u.ID.String(), user["id"])
	assert.EqualValues(t, 33, user["profile_completion"])
}

func TestProfile_UnknownUser(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	h := &Handlers{Service: &usersvc.Service{DB: db}}

	app := fiber.New()
	app.Get("/users/profile", func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": uuid.New().String()})
		return h.Profile(c)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/users/profile", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestList(t *testing.T) {
	app, _ := setupUserHandlers(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/users?q=SARA", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode(t, resp.Body)
	data, _ := out["data"].([]interface{})
	assert.Len(t, data, 1)
}
