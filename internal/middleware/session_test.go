package middleware

import (
	"net/http/httptest"
	"testing"

	"badir-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionApp(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Use(SessionWithClient(rdb))
	return app, mr
}

func TestSession_RoundTrip(t *testing.T) {
	app, mr := sessionApp(t)
	userID := uuid.New().String()

	app.Post("/login", func(c *fiber.Ctx) error {
		sid := RegenerateSessionID(c)
		SetSessionUser(c, SessionUser{
			UserID: userID,
			Name:   "هدى",
			Email:  "houda@example.com",
			Role:   domain.RoleUser,
		})
		c.Cookie(&fiber.Cookie{Name: "badir.sid", Value: sid, Path: "/"})
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		actor := Actor(c)
		if actor.IsZero() {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(actor.UserID.String())
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var sid string
	for _, c := range resp.Cookies() {
		if c.Name == "badir.sid" {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid)
	assert.True(t, mr.Exists(SessionRedisPrefix+sid))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Cookie", "badir.sid="+sid)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestActor_NoSession(t *testing.T) {
	app, _ := sessionApp(t)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		assert.True(t, Actor(c).IsZero())
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuth_Unauthenticated(t *testing.T) {
	app, _ := sessionApp(t)
	app.Get("/private", RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdmin_ForbidsRegularUser(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": uuid.New().String(),
			"role":    domain.RoleUser,
		})
		return c.Next()
	})
	app.Get("/admin", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": uuid.New().String(),
			"role":    domain.RoleAdmin,
		})
		return c.Next()
	})
	app.Get("/admin", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
