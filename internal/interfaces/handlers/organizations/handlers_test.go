package organizations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"auditnet-backend/internal/application/joinrequests"
	orgsvc "auditnet-backend/internal/application/organizations"
	"auditnet-backend/internal/application/policies"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/infrastructure/database"
	"auditnet-backend/internal/middleware"
	"auditnet-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	app *fiber.App
	db  *gorm.DB
	mr  *miniredis.Miniredis
	h   *Handlers
}

func setupOrganizations(t *testing.T) *fixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	h := &Handlers{
		Service: &orgsvc.Service{DB: db},
		Joins:   &joinrequests.Service{DB: db},
		Rdb:     redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id := c.Get("X-User-Id"); id != "" {
			c.Locals("user", map[string]interface{}{"user_id": id, "role": c.Get("X-User-Role", constants.User)})
		}
		return c.Next()
	})
	app.Get("/organizations", h.List)
	app.Post("/organizations", h.Create)
	app.Get("/organizations/current", h.Current)
	app.Get("/organizations/:id", h.Get)
	app.Put("/organizations/:id", h.Update)
	app.Delete("/organizations/:id/members/:userId", h.RevokeMember)
	app.Post("/organizations/:id/join-requests", h.Join)
	app.Get("/organizations/:id/join-requests", h.JoinRequests)
	return &fixture{app: app, db: db, mr: mr, h: h}
}

func (f *fixture) user(t *testing.T, email string) policies.Actor {
	u := &domain.User{
		Email: email, NameEn: "Test", NameAr: "اختبار", Phone: "+966500000000",
		TitleEn: "Partner", TitleAr: "شريك", Role: constants.User, ProfileCompletion: 100,
	}
	require.NoError(t, f.db.Create(u).Error)
	return policies.Actor{UserID: u.ID, Role: u.Role}
}

const companyBody = `{"type":"COMPANY","name_ar":"شركة","name_en":"Desert Trading","registration_number":"1010123456"}`

func send(t *testing.T, app *fiber.App, method, path string, as *policies.Actor, body string) (int, map[string]interface{}) {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("X-User-Id", as.UserID.String())
		req.Header.Set("X-User-Role", as.Role)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func dataID(t *testing.T, out map[string]interface{}) string {
	data, _ := out["data"].(map[string]interface{})
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestOrganizations_RequireUser(t *testing.T) {
	f := setupOrganizations(t)
	id := uuid.NewString()

	for _, r := range []struct{ method, path string }{
		{"POST", "/organizations"},
		{"GET", "/organizations/current"},
		{"PUT", "/organizations/" + id},
		{"DELETE", "/organizations/" + id + "/members/" + uuid.NewString()},
		{"POST", "/organizations/" + id + "/join-requests"},
		{"GET", "/organizations/" + id + "/join-requests"},
	} {
		code, _ := send(t, f.app, r.method, r.path, nil, "{}")
		assert.Equal(t, fiber.StatusUnauthorized, code, r.method+" "+r.path)
	}
}

func TestCreate_ErrorMapping(t *testing.T) {
	f := setupOrganizations(t)
	owner := f.user(t, "owner@desert.sa")
	other := f.user(t, "ops@oasis.sa")

	code, _ := send(t, f.app, "POST", "/organizations", &owner, "{")
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, out := send(t, f.app, "POST", "/organizations", &owner, `{"type":"BANK","name_ar":"x","name_en":"x","registration_number":"1"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	e, _ := out["error"].(map[string]interface{})
	assert.Equal(t, orgsvc.ErrInvalidType.Error(), e["message"])

	code, out = send(t, f.app, "POST", "/organizations", &owner, companyBody)
	require.Equal(t, fiber.StatusCreated, code, out)

	code, _ = send(t, f.app, "POST", "/organizations", &other, companyBody)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = send(t, f.app, "POST", "/organizations", &other,
		`{"type":"COMPANY","name_ar":"واحة","name_en":"Oasis Trading","registration_number":"2020","commercial_registration":"1010123456"}`)
	assert.Equal(t, fiber.StatusConflict, code)

	stranger := policies.Actor{UserID: uuid.New(), Role: constants.User}
	code, _ = send(t, f.app, "POST", "/organizations", &stranger,
		`{"type":"COMPANY","name_ar":"نخلة","name_en":"Palm Trading","registration_number":"3030"}`)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestReadRoutes_ErrorMapping(t *testing.T) {
	f := setupOrganizations(t)
	owner := f.user(t, "owner@desert.sa")
	loner := f.user(t, "loner@desert.sa")

	code, _ := send(t, f.app, "GET", "/organizations?type=bank", nil, "")
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, out := send(t, f.app, "GET", "/organizations/not-a-uuid", nil, "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	e, _ := out["error"].(map[string]interface{})
	assert.Equal(t, "Invalid id", e["message"])

	code, _ = send(t, f.app, "GET", "/organizations/"+uuid.NewString(), nil, "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = send(t, f.app, "GET", "/organizations/current", &loner, "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, out = send(t, f.app, "POST", "/organizations", &owner, companyBody)
	require.Equal(t, fiber.StatusCreated, code, out)
	orgID := dataID(t, out)

	code, out = send(t, f.app, "GET", "/organizations?type=company&q=desert", nil, "")
	require.Equal(t, fiber.StatusOK, code)
	meta, _ := out["metadata"].(map[string]interface{})
	assert.EqualValues(t, 1, meta["count"])

	code, out = send(t, f.app, "GET", "/organizations/current", &owner, "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, orgID, dataID(t, out))
}

func TestUpdate_ErrorMapping(t *testing.T) {
	f := setupOrganizations(t)
	owner := f.user(t, "owner@desert.sa")
	outsider := f.user(t, "omar@oasis.sa")
	code, out := send(t, f.app, "POST", "/organizations", &owner, companyBody)
	require.Equal(t, fiber.StatusCreated, code, out)
	orgID := dataID(t, out)

	code, _ = send(t, f.app, "PUT", "/organizations/bad-id", &owner, `{"name_en":"New"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = send(t, f.app, "PUT", "/organizations/"+orgID, &owner, "{")
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = send(t, f.app, "PUT", "/organizations/"+orgID, &owner, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = send(t, f.app, "PUT", "/organizations/"+uuid.NewString(), &owner, `{"name_en":"New"}`)
	assert.Equal(t, fiber.StatusNotFound, code)
	code, _ = send(t, f.app, "PUT", "/organizations/"+orgID, &outsider, `{"name_en":"Hijacked"}`)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, out = send(t, f.app, "PUT", "/organizations/"+orgID, &owner, `{"name_en":"Desert Trading Group"}`)
	require.Equal(t, fiber.StatusOK, code)
	data, _ := out["data"].(map[string]interface{})
	assert.Equal(t, "Desert Trading Group", data["name_en"])
	assert.Equal(t, "desert-trading", data["subdomain"])
}

func TestJoinAndRevoke_ErrorMapping(t *testing.T) {
	f := setupOrganizations(t)
	ctx := context.Background()
	owner := f.user(t, "owner@desert.sa")
	applicant := f.user(t, "omar@desert.sa")
	code, out := send(t, f.app, "POST", "/organizations", &owner, companyBody)
	require.Equal(t, fiber.StatusCreated, code, out)
	orgID := dataID(t, out)

	code, _ = send(t, f.app, "POST", "/organizations/nope/join-requests", &applicant, "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = send(t, f.app, "POST", "/organizations/"+uuid.NewString()+"/join-requests", &applicant, "")
	assert.Equal(t, fiber.StatusNotFound, code)
	code, _ = send(t, f.app, "POST", "/organizations/"+orgID+"/join-requests", &owner, "")
	assert.Equal(t, fiber.StatusConflict, code)

	code, out = send(t, f.app, "POST", "/organizations/"+orgID+"/join-requests", &applicant, "")
	require.Equal(t, fiber.StatusCreated, code, out)
	reqID := dataID(t, out)
	code, _ = send(t, f.app, "POST", "/organizations/"+orgID+"/join-requests", &applicant, "")
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = send(t, f.app, "GET", "/organizations/"+orgID+"/join-requests?status=maybe", &owner, "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = send(t, f.app, "GET", "/organizations/"+orgID+"/join-requests", &applicant, "")
	assert.Equal(t, fiber.StatusForbidden, code)
	code, out = send(t, f.app, "GET", "/organizations/"+orgID+"/join-requests?status=pending", &owner, "")
	require.Equal(t, fiber.StatusOK, code)
	meta, _ := out["metadata"].(map[string]interface{})
	assert.EqualValues(t, 1, meta["pending_count"])

	_, err := f.h.Joins.Approve(ctx, owner, uuid.MustParse(reqID), nil)
	require.NoError(t, err)

	sessionsKey := middleware.UserSessionsPrefix + applicant.UserID.String()
	_, err = f.mr.SAdd(sessionsKey, "sid-1")
	require.NoError(t, err)
	require.NoError(t, f.mr.Set(middleware.SessionRedisPrefix+"sid-1", "{}"))

	memberPath := "/organizations/" + orgID + "/members/"
	code, _ = send(t, f.app, "DELETE", memberPath+"not-a-uuid", &owner, "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = send(t, f.app, "DELETE", memberPath+uuid.NewString(), &owner, "")
	assert.Equal(t, fiber.StatusNotFound, code)
	code, _ = send(t, f.app, "DELETE", memberPath+owner.UserID.String(), &owner, "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = send(t, f.app, "DELETE", memberPath+owner.UserID.String(), &applicant, "")
	assert.Equal(t, fiber.StatusForbidden, code)

	code, out = send(t, f.app, "DELETE", memberPath+applicant.UserID.String(), &owner, "")
	require.Equal(t, fiber.StatusOK, code, out)
	data, _ := out["data"].(map[string]interface{})
	assert.Equal(t, "REJECTED", data["status"])
	assert.False(t, f.mr.Exists(sessionsKey))
	assert.False(t, f.mr.Exists(middleware.SessionRedisPrefix+"sid-1"))
}
