package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"auditnet-backend/internal/pkg/constants"
	"auditnet-backend/internal/pkg/token"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorMessage(t *testing.T, body io.Reader) string {
	var out struct {
		Status string `json:"status"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	assert.Equal(t, "error", out.Status)
	return out.Error.Message
}

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(RateLimitConfig{PerSecond: 0.001, Burst: 2}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	assert.Contains(t, errorMessage(t, resp.Body), "Too many requests")
}

func TestRequireAuth_Bearer(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	uid := uuid.New()
	signed, err := tokens.Issue(uid, "sara@acme.sa", constants.User)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", RequireAuth(tokens), func(c *fiber.Ctx) error {
		actor, ok := CurrentActor(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(actor.UserID.String() + "|" + actor.Role)
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, uid.String()+"|"+constants.User, string(b))

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, token.ErrInvalidToken.Error(), errorMessage(t, resp.Body))

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionStore_LoadsUserFromCookie(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	sid := uuid.New().String()
	payload, _ := json.Marshal(map[string]interface{}{
		"user": map[string]interface{}{"user_id": uuid.New().String(), "role": constants.SystemAdmin},
	})
	require.NoError(t, rdb.Set(context.Background(), SessionRedisPrefix+sid, payload, time.Hour).Err())

	app := fiber.New()
	app.Use(SessionStore(rdb))
	app.Get("/users", RequireAuth(nil), AuthorizePermission(constants.ListUsers), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Cookie", SessionCookieName+"=s:"+sid+".signature")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/users", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionStore_SavesAfterLogin(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var sid string
	app := fiber.New()
	app.Use(SessionStore(rdb))
	app.Post("/login", func(c *fiber.Ctx) error {
		sid = RegenerateSessionID(c)
		SetSessionUser(c, SessionUser{UserID: "u-1", Email: "sara@acme.sa", Role: constants.User})
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := mr.Get(SessionRedisPrefix + sid)
	require.NoError(t, err)
	assert.Contains(t, raw, `"email":"sara@acme.sa"`)
	assert.Greater(t, mr.TTL(SessionRedisPrefix+sid), time.Duration(0))
}

func TestAuthorizePermission_ForbidsRegularUser(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", func(c *fiber.Ctx) error {
		c.Locals(userLocal, map[string]interface{}{"user_id": uuid.New().String(), "role": constants.User})
		return c.Next()
	}, AuthorizePermission(constants.VerifyFirms), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "User is Forbidden from performing this action", errorMessage(t, resp.Body))
}

func TestHealthMarker_RecordsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(HealthMarker(rdb))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadGateway, "upstream") })

	for _, path := range []string{"/ok", "/boom", "/health/json"} {
		_, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
	}

	total, _ := mr.Get(KeyReqTotal)
	failed, _ := mr.Get(KeyReqErrors)
	assert.Equal(t, "2", total)
	assert.Equal(t, "1", failed)
	entries, err := mr.List(KeyErrorLog)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], `"path":"/boom"`)
}

func TestErrorHandler_Envelope(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/x", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", errorMessage(t, resp.Body))
}

func TestDestroyUserSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()
	uid := uuid.NewString()

	for _, sid := range []string{"a", "b"} {
		require.NoError(t, rdb.Set(ctx, SessionRedisPrefix+sid, `{"user":{}}`, time.Hour).Err())
		require.NoError(t, rdb.SAdd(ctx, UserSessionsPrefix+uid, sid).Err())
	}
	require.NoError(t, rdb.Set(ctx, SessionRedisPrefix+"other", `{}`, time.Hour).Err())

	require.NoError(t, DestroyUserSessions(ctx, rdb, uid))

	assert.False(t, mr.Exists(SessionRedisPrefix+"a"))
	assert.False(t, mr.Exists(SessionRedisPrefix+"b"))
	assert.False(t, mr.Exists(UserSessionsPrefix+uid))
	assert.True(t, mr.Exists(SessionRedisPrefix+"other"))
	assert.NoError(t, DestroyUserSessions(ctx, nil, uid))
}

func TestTracing_ReusesInboundID(t *testing.T) {
	app := fiber.New()
	app.Use(Tracing())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetTraceID(c)) })

	inbound := uuid.NewString()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-Id", inbound)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, inbound, resp.Header.Get("X-Trace-Id"))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-Id", "not-a-uuid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	got := resp.Header.Get("X-Trace-Id")
	assert.NotEqual(t, "not-a-uuid", got)
	_, err = uuid.Parse(got)
	assert.NoError(t, err)
}
