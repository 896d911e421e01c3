package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"badir-backend/internal/domain"
	"badir-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthApp(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	h := &Handlers{
		Service: &Service{DB: db},
		Rdb:     rdb,
		Config:  middleware.SessionConfig{},
	}

	app := fiber.New()
	app.Use(middleware.SessionWithClient(rdb))
	app.Post("/api/v1/auth/signup", h.Signup)
	app.Post("/api/v1/auth/login", h.Login)
	app.Get("/api/v1/auth/me", h.Me)
	app.Delete("/api/v1/auth/logout", h.Logout)
	return app, mr
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "badir.sid" {
			return c.Value
		}
	}
	t.Fatal("session cookie not set")
	return ""
}

func TestSignupHandler_FieldErrors(t *testing.T) {
	app, _ := setupAuthApp(t)
	resp := postJSON(t, app, "/api/v1/auth/signup", map[string]string{
		"email": "bad", "password": "x", "confirmPassword": "y",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Success bool                `json:"success"`
		Errors  map[string][]string `json:"errors"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
}

func TestSignupThenMe(t *testing.T) {
	app, mr := setupAuthApp(t)
	resp := postJSON(t, app, "/api/v1/auth/signup", map[string]string{
		"email":           "nour@example.com",
		"password":        "Passw0rd!",
		"confirmPassword": "Passw0rd!",
		"firstName":       "نور",
		"lastName":        "شريف",
		"userType":        "organization",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			RedirectTo string `json:"redirectTo"`
		} `json:"data"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "/complete-profile/organization", created.Data.RedirectTo)

	sid := sessionCookie(t, resp)
	assert.True(t, mr.Exists(middleware.SessionRedisPrefix+sid))

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Cookie", "badir.sid="+sid)
	me, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, me.StatusCode)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	app, _ := setupAuthApp(t)
	resp := postJSON(t, app, "/api/v1/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "Passw0rd!",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLogout_DeletesSession(t *testing.T) {
	app, mr := setupAuthApp(t)
	resp := postJSON(t, app, "/api/v1/auth/signup", map[string]string{
		"email":           "nour@example.com",
		"password":        "Passw0rd!",
		"confirmPassword": "Passw0rd!",
		"firstName":       "نور",
		"lastName":        "شريف",
		"userType":        "helper",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	sid := sessionCookie(t, resp)

	req := httptest.NewRequest("DELETE", "/api/v1/auth/logout", nil)
	req.Header.Set("Cookie", "badir.sid="+sid)
	out, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, out.StatusCode)
	assert.False(t, mr.Exists(middleware.SessionRedisPrefix+sid))
}

func TestMe_Unauthenticated(t *testing.T) {
	app, _ := setupAuthApp(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/auth/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
