package route

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medialibrary_backend/internals/databases/dbtest"
	authMw "medialibrary_backend/internals/middlewares/auth"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	ErrorCode string         `json:"error_code"`
	Data      map[string]any `json:"data"`
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "route-access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "route-refresh-secret")
	t.Setenv("COOKIE_SECURE", "false")

	app := fiber.New()
	authJWT := authMw.AuthJWT(authMw.AuthJWTOpts{Secret: "route-access-secret", AllowCookieFallback: true})
	AuthRoutes(app.Group("/api"), dbtest.New(t), authJWT, false)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string, cookies []*http.Cookie, bearer string) (*http.Response, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, sonic.Unmarshal(raw, &env), string(raw))
	return resp, env
}

func cookie(resp *http.Response, name string) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestAuthFlowWithCookies(t *testing.T) {
	app := newApp(t)

	resp, env := call(t, app, "POST", "/api/auth/signup",
		`{"name":"Reader","email":"Reader@Example.com","password":"secret123","plan":"premium-monthly"}`, nil, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	assert.Nil(t, cookie(resp, "access_token"), "signup tidak menerbitkan token")

	resp, env = call(t, app, "POST", "/api/auth/login", `{"email":"reader@example.com","password":"secret123"}`, nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	access := cookie(resp, "access_token")
	refresh := cookie(resp, "refresh_token")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, env.Data["access_token"], access.Value)

	// me lewat cookie fallback
	resp, env = call(t, app, "GET", "/api/auth/me", "", []*http.Cookie{access}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	resp, env = call(t, app, "POST", "/api/auth/refresh", "", []*http.Cookie{refresh}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	rotated := cookie(resp, "refresh_token")
	require.NotNil(t, rotated)
	assert.NotEqual(t, refresh.Value, rotated.Value)

	// refresh lama sudah dirotasi
	resp, _ = call(t, app, "POST", "/api/auth/refresh", "", []*http.Cookie{refresh}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, app, "POST", "/api/auth/logout", `{"refresh_token":"`+rotated.Value+`"}`, nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthRouteErrors(t *testing.T) {
	app := newApp(t)

	resp, env := call(t, app, "POST", "/api/auth/signup", `{"name":"R","email":"bad","password":"1"}`, nil, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)

	resp, _ = call(t, app, "POST", "/api/auth/login", `{"email":"nobody@example.com","password":"secret123"}`, nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, env = call(t, app, "GET", "/api/auth/me", "", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", env.ErrorCode)
}
